package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// StudentService implements per-tenant student record management.
type StudentService struct {
	students ports.StudentRepository
	schools  ports.SchoolRepository
	log      zerolog.Logger
}

func NewStudentService(students ports.StudentRepository, schools ports.SchoolRepository, log zerolog.Logger) *StudentService {
	return &StudentService{students: students, schools: schools, log: log}
}

// Create onboards a student under an existing tenant. The tenant check is a
// plain read, not a transaction; a concurrently deleted school can slip
// through.
func (s *StudentService) Create(ctx context.Context, in ports.CreateStudentInput) (*domain.Student, error) {
	if _, err := s.schools.FindByTenantID(ctx, in.SchoolID); err != nil {
		if errors.Is(err, domain.ErrSchoolNotFound) {
			return nil, domain.ErrUnknownTenant
		}
		return nil, err
	}

	in.Email = normalizeEmail(in.Email)
	taken, err := s.students.IsEmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrStudentEmailTaken
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	student, err := s.students.Create(ctx, &domain.Student{
		Name:       in.Name,
		Guardian:   in.Guardian,
		DOB:        in.DOB,
		Gender:     in.Gender,
		BloodGroup: in.BloodGroup,
		Religion:   in.Religion,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		State:      in.State,
		Country:    in.Country,
		Class:      in.Class,
		Section:    in.Section,
		Group:      in.Group,
		StudentNo:  in.StudentNo,
		RollNo:     in.RollNo,
		Picture:    in.Picture,
		Username:   in.Username,
		Password:   hash,
		SchoolID:   in.SchoolID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("student_id", student.ID).Str("tenant_id", student.SchoolID).Msg("student onboarded")
	return student, nil
}

func (s *StudentService) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	return s.students.FindByID(ctx, id)
}

func (s *StudentService) Query(ctx context.Context, filter ports.StudentFilter, opts ports.PageOptions) (*ports.Page[*domain.Student], error) {
	results, total, err := s.students.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(results, total, opts), nil
}

// Update applies a partial update. The student's password is rehashed only
// when a new plaintext is provided.
func (s *StudentService) Update(ctx context.Context, id string, in ports.UpdateStudentInput) (*domain.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		student.Name = *in.Name
	}
	if in.Guardian != nil {
		student.Guardian = *in.Guardian
	}
	if in.Phone != nil {
		student.Phone = *in.Phone
	}
	if in.Address != nil {
		student.Address = *in.Address
	}
	if in.State != nil {
		student.State = *in.State
	}
	if in.Country != nil {
		student.Country = *in.Country
	}
	if in.Class != nil {
		student.Class = *in.Class
	}
	if in.Section != nil {
		student.Section = *in.Section
	}
	if in.Group != nil {
		student.Group = *in.Group
	}
	if in.RollNo != nil {
		student.RollNo = *in.RollNo
	}
	if in.Picture != nil {
		student.Picture = *in.Picture
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		student.Password = hash
	}

	student.UpdatedAt = time.Now().UTC()
	return s.students.Update(ctx, student)
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.students.FindByID(ctx, id); err != nil {
		return err
	}
	return s.students.Delete(ctx, id)
}
