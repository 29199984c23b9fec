package handler

import "github.com/motiva-app/messaging-api/internal/core/domain"

// --- Request / Response types ---

// registerRequest carries the multipart form fields of POST /auth/register.
// The profilePhoto file part is read separately from the form.
type registerRequest struct {
	Email        string `form:"email"        validate:"required,email"`
	Password     string `form:"password"     validate:"required,min=8"`
	FullName     string `form:"fullName"     validate:"required"`
	Gender       string `form:"gender"       validate:"required,oneof=male female other"`
	Role         string `form:"role"         validate:"omitempty,oneof=client motivator"`
	Bio          string `form:"bio"`
	Experience   string `form:"experience"`
	Specialities string `form:"specialities"`
	Reason       string `form:"reason"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type registerResponse struct {
	User *domain.User `json:"user"`
}

// tokenResponse is returned by login and refresh. The same tokens are also
// set as httpOnly cookies.
type tokenResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse mirrors the envelope produced by the API error handler,
// referenced here for the swagger definitions.
type errorResponse struct {
	Error string `json:"error"`
}
