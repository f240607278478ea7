package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// CreateStudentInput carries a student onboarding request.
type CreateStudentInput struct {
	Name       string
	Guardian   string
	DOB        string
	Gender     string
	BloodGroup string
	Religion   string
	Email      string
	Phone      string
	Address    string
	State      string
	Country    string
	Class      string
	Section    string
	Group      string
	StudentNo  string
	RollNo     string
	Picture    string
	Username   string
	Password   string
	SchoolID   string
}

// UpdateStudentInput carries a partial student update.
type UpdateStudentInput struct {
	Name     *string
	Guardian *string
	Phone    *string
	Address  *string
	State    *string
	Country  *string
	Class    *string
	Section  *string
	Group    *string
	RollNo   *string
	Picture  *string
	Password *string
}

// StudentService implements per-tenant student record management.
type StudentService interface {
	Create(ctx context.Context, in CreateStudentInput) (*domain.Student, error)
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	Query(ctx context.Context, filter StudentFilter, opts PageOptions) (*Page[*domain.Student], error)
	Update(ctx context.Context, id string, in UpdateStudentInput) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
}
