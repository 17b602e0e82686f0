package middleware

import (
	"errors"
	"net/http"

	"github.com/anonto42/preference/backend/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProfileLoader is the lookup RequireActive needs.
type ProfileLoader interface {
	GetProfileByID(id uint) (*models.Profile, error)
}

// RequireActive loads the caller's profile and rejects banned accounts.
// Accounts still on their one-time password may only reach the routes listed
// in firstLoginRoutes, given as "METHOD /route/path". It must run after
// JWTAuthMiddleware.
func RequireActive(profiles ProfileLoader, firstLoginRoutes ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(firstLoginRoutes))
	for _, route := range firstLoginRoutes {
		allowed[route] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			profile, err := profiles.GetProfileByID(claims.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Account no longer exists")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load account")
			}
			if profile.IsBanned {
				return echo.NewHTTPError(http.StatusForbidden, "Account is banned")
			}
			if profile.IsFirstLogin && !allowed[c.Request().Method+" "+c.Path()] {
				return echo.NewHTTPError(http.StatusForbidden, "Password change required")
			}
			c.Set(ProfileKey, profile)
			return next(c)
		}
	}
}

// RequireStaff admits admins and moderators. The role is read from the
// loaded profile so a demotion takes effect before the token expires.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, ok := ProfileFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if !profile.IsStaff() {
				return echo.NewHTTPError(http.StatusForbidden, "Staff access required")
			}
			return next(c)
		}
	}
}

// ProfileFromContext returns the profile stored by RequireActive.
func ProfileFromContext(c echo.Context) (*models.Profile, bool) {
	profile, ok := c.Get(ProfileKey).(*models.Profile)
	return profile, ok
}
