package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motiva-app/messaging-api/internal/api/metrics"
	"github.com/motiva-app/messaging-api/internal/core/domain"
	"github.com/motiva-app/messaging-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// The TTLs mirror the token expiries so the cookie Max-Age matches the
// lifetime of the token it carries.
func NewAuthHandler(authService ports.AuthService, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Register creates a new account from a multipart form with a mandatory
// profilePhoto file field.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        email         formData  string  true   "Email address"
// @Param        password      formData  string  true   "Password (min 8 chars)"
// @Param        fullName      formData  string  true   "Full name"
// @Param        gender        formData  string  true   "male, female or other"
// @Param        role          formData  string  false  "client (default) or motivator"
// @Param        profilePhoto  formData  file    true   "Profile photo"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fh, err := c.FormFile("profilePhoto")
	if err != nil {
		return domain.ErrPhotoRequired
	}
	photo, err := fh.Open()
	if err != nil {
		return domain.ErrPhotoRequired
	}
	defer photo.Close()

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		FullName:      req.FullName,
		Gender:        req.Gender,
		Role:          req.Role,
		Bio:           req.Bio,
		Experience:    req.Experience,
		Specialities:  req.Specialities,
		Reason:        req.Reason,
		Photo:         photo,
		PhotoFilename: fh.Filename,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPhotoUploadFailed) {
			metrics.ProfileUploadsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.ProfileUploadsTotal.WithLabelValues("success").Inc()
	metrics.RegistrationsTotal.WithLabelValues(string(user.Role)).Inc()

	return c.JSON(http.StatusCreated, registerResponse{User: user})
}

// Login authenticates a user and returns a token pair, also set as cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	setAuthCookies(c, pair.AccessToken, pair.RefreshToken, h.accessTTL, h.refreshTTL)
	return c.JSON(http.StatusOK, tokenResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh exchanges a valid refresh token for a rotated token pair.
//
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := refreshTokenFrom(c)
	if token == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
		return domain.ErrInvalidToken
	}

	_, pair, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrRefreshTokenReused) {
			metrics.TokenRefreshesTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	setAuthCookies(c, pair.AccessToken, pair.RefreshToken, h.accessTTL, h.refreshTTL)
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout revokes the persisted refresh token and clears both cookies.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		return err
	}

	clearAuthCookies(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// ChangePassword verifies the old password and sets a new one. Existing
// sessions stay valid.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}
