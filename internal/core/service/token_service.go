package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/motiva-app/messaging-api/internal/core/domain"
	"github.com/motiva-app/messaging-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 240 * time.Hour
)

// TokenService signs and verifies HS256 JWTs. Access and refresh tokens are
// signed with separate secrets so one kind can never pass verification as
// the other.
type TokenService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"iat":       now.Unix(),
		"exp":       now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.accessSecret))
}

func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.refreshSecret))
}

func (s *TokenService) VerifyAccess(token string) (*ports.AccessClaims, error) {
	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		return nil, err
	}
	id, _ := claims["sub"].(string)
	if id == "" {
		return nil, domain.ErrInvalidToken
	}
	fullName, _ := claims["full_name"].(string)
	email, _ := claims["email"].(string)
	return &ports.AccessClaims{UserID: id, FullName: fullName, Email: email}, nil
}

func (s *TokenService) VerifyRefresh(token string) (*ports.RefreshClaims, error) {
	claims, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	id, _ := claims["sub"].(string)
	if id == "" {
		return nil, domain.ErrInvalidToken
	}
	return &ports.RefreshClaims{UserID: id}, nil
}

// parse validates signature and expiry and returns the raw claims. All
// failures collapse into ErrInvalidToken; callers never learn why a token
// was rejected.
func (s *TokenService) parse(token, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
