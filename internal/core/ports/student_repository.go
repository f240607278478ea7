package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// StudentFilter carries the exact-match criteria for listing students.
// Handlers always set SchoolID so listings stay tenant-scoped.
type StudentFilter struct {
	Name     string
	Class    string
	Section  string
	Group    string
	SchoolID string
}

// StudentRepository defines persistence operations for student records.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) (*domain.Student, error)
	FindByID(ctx context.Context, id string) (*domain.Student, error)
	IsEmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, student *domain.Student) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter StudentFilter, opts PageOptions) ([]*domain.Student, int64, error)
}
