package ports

import (
	"context"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

// UserRepository defines the persistence surface for user records. All
// lookups return domain.ErrUserNotFound when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)

	// UpdateRefreshToken overwrites the single persisted refresh token for
	// the user. An empty token clears it (logout).
	UpdateRefreshToken(ctx context.Context, id, token string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}
