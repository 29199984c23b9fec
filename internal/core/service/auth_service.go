package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/motiva-app/messaging-api/internal/core/domain"
	"github.com/motiva-app/messaging-api/internal/core/ports"
)

// AuthService is the session manager. It owns every bcrypt and token call:
// the User record is plain data and is never hashed or signed implicitly on
// save.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	uploader ports.MediaUploader
	logger   zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, uploader ports.MediaUploader, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, uploader: uploader, logger: logger}
}

// Register creates a new account. The profile photo must upload successfully
// before the record is created, so a failed upload never leaves an orphan
// user. The password is hashed exactly once, here.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" || input.Gender == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.IsValidGender(input.Gender) {
		return nil, domain.ErrInvalidInput
	}

	role := domain.RoleClient
	if input.Role != "" {
		role = domain.Role(input.Role)
		if !role.IsValid() || role == domain.RoleAdmin {
			return nil, domain.ErrInvalidInput
		}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	if input.Photo == nil {
		return nil, domain.ErrPhotoRequired
	}
	photoURL, err := s.uploader.Upload(ctx, input.Photo, input.PhotoFilename)
	if err != nil || photoURL == "" {
		s.logger.Error().Err(err).Str("email", email).Msg("profile photo upload failed")
		return nil, domain.ErrPhotoUploadFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Motivators require admin approval before they can act.
	status := domain.StatusActive
	if role == domain.RoleMotivator {
		status = domain.StatusPending
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:           email,
		FullName:        input.FullName,
		Gender:          input.Gender,
		Role:            role,
		Status:          status,
		Bio:             defaultString(input.Bio, "No bio provided"),
		Experience:      defaultString(input.Experience, "No experience provided"),
		Specialities:    defaultString(input.Specialities, "No specialities provided"),
		Reason:          defaultString(input.Reason, "No reason provided"),
		ProfilePhotoURL: photoURL,
		PasswordHash:    string(hash),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token is persisted before the pair is returned: if the write fails the
// caller gets no tokens at all.
//
// A missing user and a wrong password both surface as ErrInvalidCredentials
// so the endpoint cannot be used for account enumeration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issueAndPersist(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, pair, nil
}

// Refresh validates an incoming refresh token, checks it against the single
// persisted value for the user (the revocation check), and rotates the pair.
// A token that no longer matches the persisted value is rejected even when
// its own signature and expiry are still valid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, domain.ErrInvalidToken
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, nil, domain.ErrInvalidToken
		}
		return nil, nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.logger.Warn().Str("user_id", user.ID).Msg("refresh token mismatch, possible reuse")
		return nil, nil, domain.ErrRefreshTokenReused
	}

	pair, err := s.issueAndPersist(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Logout clears the persisted refresh token, revoking the outstanding
// refresh token. Calling it again on an already-cleared field is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// ChangePassword verifies the old password and re-hashes the new one.
// Existing sessions stay valid; no forced re-login is performed.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidInput
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// issueAndPersist creates a token pair and stores the refresh token on the
// user record. Persisting is a hard precondition of returning the pair.
func (s *AuthService) issueAndPersist(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	user.RefreshToken = refresh
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
