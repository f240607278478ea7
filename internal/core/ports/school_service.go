package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// RegisterSchoolInput carries the school registration payload, including the
// details of the tenant admin account provisioned alongside the school.
type RegisterSchoolInput struct {
	Name       string
	Email      string
	Address    string
	Phone      string
	PrePrimary string
	Primary    string
	Secondary  string

	AdminFirstName string
	AdminLastName  string
	AdminEmail     string
	AdminPassword  string
}

// UpdateSchoolInput carries a partial school update. The tenant identifier
// is immutable and deliberately absent.
type UpdateSchoolInput struct {
	Name       *string
	Email      *string
	Address    *string
	Phone      *string
	PrePrimary *string
	Primary    *string
	Secondary  *string
}

// RegisteredSchool is the result of a school registration: the tenant record
// plus its provisioned admin.
type RegisteredSchool struct {
	School *domain.School `json:"school"`
	Admin  *domain.User   `json:"admin"`
}

// SchoolService implements tenant registration and CRUD.
type SchoolService interface {
	Register(ctx context.Context, in RegisterSchoolInput) (*RegisteredSchool, error)
	GetByID(ctx context.Context, id string) (*domain.School, error)
	GetByTenantID(ctx context.Context, tenantID string) (*domain.School, error)
	Query(ctx context.Context, filter SchoolFilter, opts PageOptions) (*Page[*domain.School], error)
	Update(ctx context.Context, id string, in UpdateSchoolInput) (*domain.School, error)
	Delete(ctx context.Context, id string) error
}
