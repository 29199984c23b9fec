package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motiva-app/messaging-api/internal/core/ports"
)

// AccessTokenCookie is the cookie fallback checked when no Authorization
// header is present.
const AccessTokenCookie = "accessToken"

// Auth validates the access token and injects the authenticated user into
// the request context. Access token claims carry no role, so the user record
// is loaded here; a role change takes effect on the next request, not at the
// next login.
func Auth(tokens ports.TokenService, repo ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := tokens.VerifyAccess(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := repo.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", user.ID)
			c.Set("role", string(user.Role))
			c.Set("user", user)

			return next(c)
		}
	}
}

// bearerToken extracts the token from the Authorization header, falling back
// to the accessToken cookie set at login.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
