package ports

import (
	"context"
	"io"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

// RegisterInput carries everything needed to create an account. Photo is the
// raw multipart file content; the service uploads it before any record is
// created, so a failed upload never leaves an orphan user.
type RegisterInput struct {
	Email         string
	Password      string
	FullName      string
	Gender        string
	Role          string
	Bio           string
	Experience    string
	Specialities  string
	Reason        string
	Photo         io.Reader
	PhotoFilename string
}

// TokenPair is an access/refresh token pair issued for one user.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService is the session manager: it owns credential verification,
// token issuance and rotation, and revocation via the persisted refresh
// token.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}
