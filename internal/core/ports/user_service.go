package ports

import (
	"context"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

// ProfileCache is a read-through cache of sanitized user profiles. Misses
// are not errors: Get returns (nil, nil) when the id is not cached.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id string) error
}

// UserService is the thin user-management surface: profile reads for any
// authenticated user, plus the admin-only listing and status transitions.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.User, error)
	ApproveMotivator(ctx context.Context, id string) (*domain.User, error)
	RejectMotivator(ctx context.Context, id string) (*domain.User, error)
}
