package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/zabilal/sims-api/internal/core/domain"
	"github.com/zabilal/sims-api/internal/core/ports"
)

// UserService implements user account CRUD with email uniqueness checks.
type UserService struct {
	users ports.UserRepository
	roles domain.RolePermissions
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles domain.RolePermissions, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, log: log}
}

// Create adds a user on behalf of an admin. Duplicate emails and unknown
// roles fail before any write.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !s.roles.IsValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	in.Email = normalizeEmail(in.Email)
	taken, err := s.users.IsEmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      role,
		SchoolID:  in.SchoolID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user created")
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}

// Query returns one page of users matching filter.
func (s *UserService) Query(ctx context.Context, filter ports.UserFilter, opts ports.PageOptions) (*ports.Page[*domain.User], error) {
	results, total, err := s.users.List(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return ports.NewPage(results, total, opts), nil
}

// Update applies a partial update. The password is rehashed only when a new
// plaintext is provided.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			taken, err := s.users.IsEmailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		if !s.roles.IsValidRole(*in.Role) {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
