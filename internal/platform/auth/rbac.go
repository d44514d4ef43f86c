package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that rejects requests whose caller does not
// hold at least one of the given roles. Admins always pass.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRoles := RolesFromContext(c.Request().Context())
			if len(userRoles) == 0 {
				return echo.NewHTTPError(http.StatusForbidden, "no roles assigned")
			}

			for _, have := range userRoles {
				if have == "admin" {
					return next(c)
				}
				for _, want := range roles {
					if have == want {
						return next(c)
					}
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
