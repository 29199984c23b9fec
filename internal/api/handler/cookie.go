package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setAuthCookies attaches both token cookies to the response. Max-Age is
// derived from the token TTLs so the cookies expire with the tokens instead
// of lingering as session cookies.
func setAuthCookies(c echo.Context, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) {
	c.SetCookie(authCookie(accessTokenCookie, accessToken, int(accessTTL.Seconds())))
	c.SetCookie(authCookie(refreshTokenCookie, refreshToken, int(refreshTTL.Seconds())))
}

// clearAuthCookies instructs the client to drop both token cookies.
func clearAuthCookies(c echo.Context) {
	c.SetCookie(authCookie(accessTokenCookie, "", -1))
	c.SetCookie(authCookie(refreshTokenCookie, "", -1))
}

func authCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// refreshTokenFrom reads the incoming refresh token: cookie first, then the
// request body.
func refreshTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}
