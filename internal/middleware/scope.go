package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"leagueapi/internal/common"
	"leagueapi/internal/models"
)

// RequireScope rejects requests whose token does not carry the named scope.
// Run after BearerAuth.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scopes, ok := common.GetScopesFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			if !models.HasScope(scopes, scope) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient scope")
			}
			return next(c)
		}
	}
}
