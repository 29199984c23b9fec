package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motiva-app/messaging-api/internal/core/domain"
	"github.com/motiva-app/messaging-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error)
	refreshFn        func(ctx context.Context, token string) (*domain.User, *ports.TokenPair, error)
	logoutFn         func(ctx context.Context, userID string) error
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, token string) (*domain.User, *ports.TokenPair, error) {
	return s.refreshFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func multipartRegisterBody(t *testing.T, fields map[string]string, withPhoto bool) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withPhoto {
		fw, err := w.CreateFormFile("profilePhoto", "photo.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("png-bytes")); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func validRegisterFields() map[string]string {
	return map[string]string{
		"email":    "alice@example.com",
		"password": "Passw0rd!",
		"fullName": "Alice Example",
		"gender":   "female",
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Email != "alice@example.com" || input.Gender != "female" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Photo == nil || input.PhotoFilename != "photo.png" {
				t.Fatalf("photo not forwarded")
			}
			return &domain.User{
				ID:           "user_1",
				Email:        input.Email,
				FullName:     input.FullName,
				Role:         domain.RoleClient,
				Status:       domain.StatusActive,
				PasswordHash: "$2a$10$secret",
				RefreshToken: "persisted-token",
			}, nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	body, contentType := multipartRegisterBody(t, validRegisterFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	// The response must never carry credential fields.
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if _, found := user["password_hash"]; found {
		t.Fatalf("password hash leaked in response")
	}
	if _, found := user["refresh_token"]; found {
		t.Fatalf("refresh token leaked in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Register_MissingPhoto(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called without a photo")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	body, contentType := multipartRegisterBody(t, validRegisterFields(), false)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); !errors.Is(err, domain.ErrPhotoRequired) {
		t.Fatalf("expected ErrPhotoRequired, got %v", err)
	}
}

func TestAuthHandler_Register_MissingRequiredFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called with invalid fields")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	fields := validRegisterFields()
	delete(fields, "gender")
	body, contentType := multipartRegisterBody(t, fields, true)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	body, contentType := multipartRegisterBody(t, validRegisterFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookies(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
			if email != "alice@example.com" || password != "Passw0rd!" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &domain.User{ID: "user_1", Email: email},
				&ports.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}, nil
		},
	}
	handler := NewAuthHandler(stub, 15*time.Minute, 240*time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"Passw0rd!"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	var access, refresh *http.Cookie
	for _, ck := range cookies {
		switch ck.Name {
		case accessTokenCookie:
			access = ck
		case refreshTokenCookie:
			refresh = ck
		}
	}
	if access == nil || refresh == nil {
		t.Fatalf("expected both auth cookies, got %v", cookies)
	}
	if !access.HttpOnly || !access.Secure || !refresh.HttpOnly || !refresh.Secure {
		t.Fatalf("auth cookies must be httpOnly and secure")
	}
	if access.MaxAge != int((15 * time.Minute).Seconds()) {
		t.Fatalf("access cookie max-age mismatch: %d", access.MaxAge)
	}
	if refresh.MaxAge != int((240 * time.Hour).Seconds()) {
		t.Fatalf("refresh cookie max-age mismatch: %d", refresh.MaxAge)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
			return nil, nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookies may be set on failed login")
	}
}

func TestAuthHandler_Refresh_FromCookie(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, token string) (*domain.User, *ports.TokenPair, error) {
			if token != "refresh-jwt" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &domain.User{ID: "user_1"},
				&ports.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: "refresh-jwt"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "new-access" || resp["refresh_token"] != "new-refresh" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Refresh_FromBody(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, token string) (*domain.User, *ports.TokenPair, error) {
			if token != "body-token" {
				t.Fatalf("unexpected token: %s", token)
			}
			return &domain.User{ID: "user_1"},
				&ports.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token",
		strings.NewReader(`{"refresh_token":"body-token"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, token string) (*domain.User, *ports.TokenPair, error) {
			t.Fatalf("service should not be called without a token")
			return nil, nil, nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Refresh(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	e := newTestEcho()
	loggedOut := ""
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loggedOut != "user_1" {
		t.Fatalf("logout not forwarded to service")
	}

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge >= 0 || ck.Value != "" {
			t.Fatalf("cookie %s not cleared: %+v", ck.Name, ck)
		}
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, userID string) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, userID, oldPassword, newPassword string) error {
			if userID != "user_1" || oldPassword != "old-pass1" || newPassword != "new-pass1" {
				t.Fatalf("unexpected args: %s %s %s", userID, oldPassword, newPassword)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/change-password",
		strings.NewReader(`{"old_password":"old-pass1","new_password":"new-pass1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOldPassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, userID, oldPassword, newPassword string) error {
			return domain.ErrInvalidOldPassword
		},
	}
	handler := NewAuthHandler(stub, time.Minute, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/auth/change-password",
		strings.NewReader(`{"old_password":"wrong-old","new_password":"new-pass1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	if err := handler.ChangePassword(c); !errors.Is(err, domain.ErrInvalidOldPassword) {
		t.Fatalf("expected ErrInvalidOldPassword, got %v", err)
	}
}
