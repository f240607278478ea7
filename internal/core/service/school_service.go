package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// SchoolService implements tenant registration and CRUD. Registration
// provisions the tenant admin account as a second, non-transactional write;
// on failure the school row is deleted as a best-effort compensation.
type SchoolService struct {
	schools ports.SchoolRepository
	users   ports.UserService
	mailer  ports.Mailer
	log     zerolog.Logger
}

func NewSchoolService(schools ports.SchoolRepository, users ports.UserService, mailer ports.Mailer, log zerolog.Logger) *SchoolService {
	return &SchoolService{schools: schools, users: users, mailer: mailer, log: log}
}

// Register creates the school tenant, generates its immutable tenant
// identifier, and provisions the admin user scoped to it. A welcome email is
// queued on success.
func (s *SchoolService) Register(ctx context.Context, in ports.RegisterSchoolInput) (*ports.RegisteredSchool, error) {
	in.Email = normalizeEmail(in.Email)

	taken, err := s.schools.IsEmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrSchoolEmailTaken
	}

	now := time.Now().UTC()
	school, err := s.schools.Create(ctx, &domain.School{
		Name:       in.Name,
		Email:      in.Email,
		Address:    in.Address,
		Phone:      in.Phone,
		PrePrimary: in.PrePrimary,
		Primary:    in.Primary,
		Secondary:  in.Secondary,
		SchoolID:   uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	admin, err := s.users.Create(ctx, ports.CreateUserInput{
		FirstName: in.AdminFirstName,
		LastName:  in.AdminLastName,
		Email:     in.AdminEmail,
		Password:  in.AdminPassword,
		Role:      domain.RoleAdmin,
		SchoolID:  school.SchoolID,
	})
	if err != nil {
		// Compensate: remove the school so the tenant does not exist without
		// an admin. Not atomic; a crash here leaves an orphaned school.
		if delErr := s.schools.Delete(ctx, school.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("school_id", school.ID).Msg("failed to roll back school after admin provisioning error")
		}
		s.log.Error().Err(err).Str("school", in.Name).Msg("admin provisioning failed")
		return nil, domain.ErrAdminProvisioning
	}

	s.mailer.SendWelcomeEmail(school.Name, admin.Email)
	s.log.Info().Str("school_id", school.ID).Str("tenant_id", school.SchoolID).Msg("school registered")

	return &ports.RegisteredSchool{School: school, Admin: admin}, nil
}

func (s *SchoolService) GetByID(ctx context.Context, id string) (*domain.School, error) {
	return s.schools.FindByID(ctx, id)
}

func (s *SchoolService) GetByTenantID(ctx context.Context, tenantID string) (*domain.School, error) {
	return s.schools.FindByTenantID(ctx, tenantID)
}

func (s *SchoolService) Query(ctx context.Context, filter ports.SchoolFilter, opts ports.PageOptions) (*ports.Page[*domain.School], error) {
	results, total, err := s.schools.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(results, total, opts), nil
}

// Update applies a partial update. The tenant identifier is immutable.
func (s *SchoolService) Update(ctx context.Context, id string, in ports.UpdateSchoolInput) (*domain.School, error) {
	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != school.Email {
			taken, err := s.schools.IsEmailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrSchoolEmailTaken
			}
			school.Email = email
		}
	}
	if in.Name != nil {
		school.Name = *in.Name
	}
	if in.Address != nil {
		school.Address = *in.Address
	}
	if in.Phone != nil {
		school.Phone = *in.Phone
	}
	if in.PrePrimary != nil {
		school.PrePrimary = *in.PrePrimary
	}
	if in.Primary != nil {
		school.Primary = *in.Primary
	}
	if in.Secondary != nil {
		school.Secondary = *in.Secondary
	}

	school.UpdatedAt = time.Now().UTC()
	return s.schools.Update(ctx, school)
}

func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if _, err := s.schools.FindByID(ctx, id); err != nil {
		return err
	}
	return s.schools.Delete(ctx, id)
}
