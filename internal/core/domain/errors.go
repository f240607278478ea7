package domain

import "errors"

// Sentinel errors returned by services and repositories. The API layer maps
// each one to an HTTP status and display message in a single place
// (internal/api/error_handler.go); nothing below the handlers knows about
// HTTP codes.
var (
	// ErrIncorrectCredentials is returned for both unknown-email and
	// wrong-password logins so callers cannot enumerate accounts.
	ErrIncorrectCredentials = errors.New("incorrect email or password")

	// ErrInvalidToken covers bad signature, malformed token, expiry, wrong
	// token type, and revoked-or-missing persisted tokens. Deliberately
	// vague: the caller must not learn which check failed.
	ErrInvalidToken = errors.New("invalid token")

	ErrForbidden = errors.New("access forbidden")

	// ErrInvalidRole is returned when a create or update names a role absent
	// from the permission table.
	ErrInvalidRole = errors.New("invalid role")

	ErrUserNotFound    = errors.New("user not found")
	ErrSchoolNotFound  = errors.New("school not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrTokenNotFound   = errors.New("token not found")

	ErrEmailTaken        = errors.New("email already taken")
	ErrSchoolEmailTaken  = errors.New("school email already taken")
	ErrStudentEmailTaken = errors.New("student email already registered")

	// ErrUnknownTenant is returned when a record references a schoolId that
	// does not exist.
	ErrUnknownTenant = errors.New("unknown tenant")

	// ErrResetAlreadyRequested is returned when the per-email limiter
	// rejects a repeat forgot-password request.
	ErrResetAlreadyRequested = errors.New("password reset already requested")

	// ErrAdminProvisioning is returned when the tenant admin could not be
	// created after the school record was written.
	ErrAdminProvisioning = errors.New("failed to provision school admin")
)
