package handlers

import (
	"net/http"
	"time"

	"tabelionato_app_go/db"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// HomeHandler renders the dashboard with the status counters and today's agenda
func HomeHandler(c echo.Context) error {
	stats, err := services.GetDashboardStats(db.DB, time.Now())
	if err != nil {
		return serverError(c, err, "failed to load dashboard")
	}
	return render(c, http.StatusOK, pages.Home(newPage(c, "Painel"), stats))
}

// HealthHandler reports whether the database answers
func HealthHandler(c echo.Context) error {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
