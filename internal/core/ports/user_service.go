package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// CreateUserInput carries an admin-driven user creation request.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	SchoolID  string
}

// UpdateUserInput carries a partial user update. Nil fields are untouched.
// Password, when set, is the new plaintext and gets rehashed.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *string
}

// UserService implements user account CRUD.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Query(ctx context.Context, filter UserFilter, opts PageOptions) (*Page[*domain.User], error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
