package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/motiva-app/messaging-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth; requests
// without an injected role fail with 401 before the role check.
func RBAC(requiredRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if err := domain.Authorize(domain.Role(role), requiredRoles...); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
