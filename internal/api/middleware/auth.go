package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// ContextUserKey is the echo context key under which the authenticated user
// is stored.
const ContextUserKey = "user"

// Authorizer builds route middleware that authenticates bearer tokens and
// enforces role permissions.
type Authorizer struct {
	verifier ports.TokenService
	users    ports.UserRepository
	table    domain.RolePermissions
}

// NewAuthorizer creates an Authorizer that verifies tokens with verifier,
// resolves subjects against users, and checks permissions against table.
func NewAuthorizer(verifier ports.TokenService, users ports.UserRepository, table domain.RolePermissions) *Authorizer {
	return &Authorizer{
		verifier: verifier,
		users:    users,
		table:    table,
	}
}

// Require authenticates the request and, when permissions are given, demands
// that the caller's role grants every one of them. A caller addressing their
// own user id via the :userId route parameter bypasses the permission check.
// The authenticated user is stored in the context under ContextUserKey.
func (a *Authorizer) Require(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := a.authenticate(c)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, user)

			if len(permissions) == 0 {
				return next(c)
			}
			if c.Param("userId") == user.ID {
				return next(c)
			}
			if !a.table.Allows(user.Role, permissions) {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}

func (a *Authorizer) authenticate(c echo.Context) (*domain.User, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
	}

	claims, err := a.verifier.Verify(parts[1])
	if err != nil || claims.Type != domain.TokenTypeAccess {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
	}

	user, err := a.users.FindByID(c.Request().Context(), claims.Subject)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate")
	}
	return user, nil
}
