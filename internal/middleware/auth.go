package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"leagueapi/internal/common"
	"leagueapi/internal/services"
)

// BearerAuth resolves the Authorization header through the token authority
// and stores the resource-owner id and scope set on the request context.
// Missing, malformed, expired or revoked tokens get a 401.
func BearerAuth(authority services.TokenAuthority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			info, err := authority.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			ctx := common.WithTokenInfo(c.Request().Context(), info.OwnerID, info.Scopes)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
