package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheck reports whether the service and its database are reachable.
func HealthCheck(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "healthy"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, map[string]string{
			"status":  status,
			"service": "preference-api",
		})
	}
}
