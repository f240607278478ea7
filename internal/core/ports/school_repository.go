package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// SchoolFilter carries the exact-match criteria for listing schools.
type SchoolFilter struct {
	Name  string
	Email string
}

// SchoolRepository defines persistence operations for school tenants.
type SchoolRepository interface {
	Create(ctx context.Context, school *domain.School) (*domain.School, error)
	FindByID(ctx context.Context, id string) (*domain.School, error)
	// FindByTenantID looks a school up by its generated schoolId.
	FindByTenantID(ctx context.Context, tenantID string) (*domain.School, error)
	IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, school *domain.School) (*domain.School, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SchoolFilter, opts PageOptions) ([]*domain.School, int64, error)
}
