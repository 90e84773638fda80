package handlers

import (
	"net/http"
	"strings"

	"tabelionato_app_go/db"
	"tabelionato_app_go/middleware"
	"tabelionato_app_go/services"

	"github.com/labstack/echo/v4"
)

// TestEmailHandler sends a welcome e-mail to check the Resend setup (development only)
func TestEmailHandler(c echo.Context) error {
	cfg := getConfig(c)
	if cfg.Environment != "development" {
		return echo.NewHTTPError(http.StatusForbidden, "Disponível apenas em desenvolvimento.")
	}

	user := middleware.GetCurrentUser(c)
	recipient := c.QueryParam("to")
	if recipient == "" && user != nil {
		recipient = user.Email
	}
	if recipient == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Informe o destinatário em ?to=")
	}

	data := services.WelcomeEmailData{LoginURL: strings.TrimRight(cfg.AppURL, "/") + "/login"}
	if tab, err := services.GetTabelionato(db.DB); err == nil && tab != nil {
		data.Tabelionato = tab.Denominacao
	}
	if user != nil {
		data.UserName = user.FullName()
		data.Username = user.Username
	}

	email, err := services.BuildWelcomeEmail(recipient, data)
	if err != nil {
		return serverError(c, err, "failed to build test email")
	}

	// Synchronous so the error reaches the caller
	if err := services.SendEmail(cfg, email); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Falha ao enviar e-mail de teste",
			"details": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "E-mail de teste enviado",
		"recipient": recipient,
		"test_mode": cfg.EmailTestMode,
	})
}
