package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/motiva-app/messaging-api/internal/core/domain"
	"github.com/motiva-app/messaging-api/internal/core/ports"
)

// UserService implements the user-management surface. Profile reads go
// through the cache; every status write invalidates the cached entry before
// re-reading the record.
type UserService struct {
	repo   ports.UserRepository
	cache  ports.ProfileCache
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache ports.ProfileCache, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			// Cache trouble never fails a read; fall through to the store.
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache write failed")
		}
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.User, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.setStatus(ctx, id, status)
}

// ApproveMotivator activates a motivator account that is awaiting review.
func (s *UserService) ApproveMotivator(ctx context.Context, id string) (*domain.User, error) {
	return s.transitionMotivator(ctx, id, domain.StatusActive)
}

// RejectMotivator deactivates a motivator account.
func (s *UserService) RejectMotivator(ctx context.Context, id string) (*domain.User, error) {
	return s.transitionMotivator(ctx, id, domain.StatusInactive)
}

func (s *UserService) transitionMotivator(ctx context.Context, id string, status domain.Status) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleMotivator {
		return nil, domain.ErrNotMotivator
	}
	return s.setStatus(ctx, id, status)
}

func (s *UserService) setStatus(ctx context.Context, id string, status domain.Status) (*domain.User, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("profile cache invalidation failed")
		}
	}
	s.logger.Info().Str("user_id", id).Str("status", string(status)).Msg("user status updated")
	return s.repo.FindByID(ctx, id)
}
