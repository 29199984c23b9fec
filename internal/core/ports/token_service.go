package ports

import "github.com/motiva-app/messaging-api/internal/core/domain"

// AccessClaims is the identity embedded in an access token.
type AccessClaims struct {
	UserID   string
	FullName string
	Email    string
}

// RefreshClaims is the identity embedded in a refresh token.
type RefreshClaims struct {
	UserID string
}

// TokenService issues and verifies the signed, time-bounded token pair.
// Access and refresh tokens use distinct secrets and distinct expiries:
// access tokens are short-lived and stateless, refresh tokens are long-lived
// and revocable through the persisted-value check in the session manager.
type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(user *domain.User) (string, error)
	VerifyAccess(token string) (*AccessClaims, error)
	VerifyRefresh(token string) (*RefreshClaims, error)
}
