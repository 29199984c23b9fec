package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. Its absence means the middleware never ran on this route;
// fail as unauthenticated rather than guessing.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxUser extracts the full authenticated user record.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
