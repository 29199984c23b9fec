package domain

import (
	"errors"
	"strings"
	"time"
)

// Role classifies what a user is allowed to do.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMotivator Role = "motivator"
	RoleClient    Role = "client"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMotivator, RoleClient:
		return true
	}
	return false
}

// Status represents the account lifecycle state of a user.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Genders accepted at registration.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// IsValidGender reports whether g is one of the accepted gender values.
func IsValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

var (
	ErrInvalidInput       = errors.New("required fields are empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrRefreshTokenReused = errors.New("refresh token expired or already used")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrPhotoRequired      = errors.New("profile photo is required")
	ErrPhotoUploadFailed  = errors.New("profile photo upload failed")
	ErrInvalidOldPassword = errors.New("old password does not match")
	ErrInvalidStatus      = errors.New("invalid user status")
	ErrNotMotivator       = errors.New("user is not a motivator")
	ErrForbidden          = errors.New("access forbidden")
)

// User is the identity record persisted in the document store.
//
// PasswordHash and RefreshToken carry the `-` JSON tag so a serialized User
// is always the sanitized form the API may return.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Gender          string    `json:"gender"`
	Role            Role      `json:"role"`
	Status          Status    `json:"status"`
	Bio             string    `json:"bio,omitempty"`
	Experience      string    `json:"experience,omitempty"`
	Specialities    string    `json:"specialities,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty"`
	PasswordHash    string    `json:"-"`
	RefreshToken    string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an email address. Emails are stored
// and looked up exclusively in this form so the unique index holds.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authorize allows the identity when its role is a member of the required
// set. An empty required set allows any authenticated identity.
func Authorize(role Role, required ...Role) error {
	if len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if role == r {
			return nil
		}
	}
	return ErrForbidden
}
