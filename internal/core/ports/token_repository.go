package ports

import (
	"context"

	"github.com/zabilal/sims-api/internal/core/domain"
)

// TokenRepository persists refresh and reset-password tokens. Access tokens
// are never stored.
type TokenRepository interface {
	Save(ctx context.Context, token *domain.Token) (*domain.Token, error)
	// FindActive looks up a non-blacklisted token by exact string and type.
	// Returns domain.ErrTokenNotFound when absent or blacklisted.
	FindActive(ctx context.Context, token, tokenType string) (*domain.Token, error)
	Delete(ctx context.Context, id string) error
	// DeleteAllForUser removes every token of the given type owned by userID.
	DeleteAllForUser(ctx context.Context, userID, tokenType string) error
}
