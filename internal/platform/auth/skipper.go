package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

var publicPaths = []string{
	"/health",
	"/health/db",
}

// AuthSkipper reports whether the request path is exempt from authentication.
func AuthSkipper(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
