package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// UserFilter carries the exact-match criteria for listing users. Zero-valued
// fields are unconstrained.
type UserFilter struct {
	FirstName string
	LastName  string
	Role      string
	SchoolID  string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// IsEmailTaken reports whether email belongs to a user other than
	// excludeID. Pass an empty excludeID on create.
	IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of matching users plus the total match count.
	List(ctx context.Context, filter UserFilter, opts PageOptions) ([]*domain.User, int64, error)
}
