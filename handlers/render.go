package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tabelionato_app_go/config"
	"tabelionato_app_go/db"
	"tabelionato_app_go/middleware"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	flashCookieName = "tabelionato_flash"
	defaultPageSize = 20
	maxPageSize     = 100
)

// getConfig returns the configuration set on the context by the server
func getConfig(c echo.Context) *config.Config {
	if cfg, ok := c.Get("config").(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Load()
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// newPage fills the fields every page shares and consumes the pending flash
func newPage(c echo.Context, title string) pages.Page {
	ctx := c.Request().Context()
	page := pages.Page{
		Title:     title,
		CSRFToken: middleware.GetCSRFToken(c),
		Nonce:     middleware.GetNonce(ctx),
		User:      middleware.GetCurrentUser(c),
		Flash:     popFlash(c),
		CSSURL:    middleware.AssetURL(ctx, "css/app.css"),
		JSURL:     middleware.AssetURL(ctx, "js/app.js"),
		Path:      c.Request().URL.Path,
	}
	if db.DB != nil {
		if tab, err := services.GetTabelionato(db.DB); err == nil && tab != nil {
			page.Tabelionato = tab.Denominacao
		}
	}
	return page
}

// render writes a component with the given status
func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// redirectTo sends the browser to path after a successful POST
func redirectTo(c echo.Context, path string) error {
	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

// setFlash stores a message shown on the next rendered page
func setFlash(c echo.Context, kind, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + message))
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(c echo.Context) *pages.Flash {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil
	}
	return &pages.Flash{Kind: kind, Message: message}
}

// parsePage reads the page query parameter, defaulting to the first page
func parsePage(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// logAudit records an audit event for the current request
func logAudit(c echo.Context, action models.AuditAction, resourceType, resourceID, resourceName, description string, oldValues, newValues interface{}) {
	services.LogAuditEvent(db.DB, middleware.GetAuditContext(c), action, resourceType, resourceID, resourceName, description, oldValues, newValues)
}

// serverError logs err and renders the generic failure page
func serverError(c echo.Context, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, "Ocorreu um erro inesperado. Tente novamente.")
}

// HTTPErrorHandler renders errors as HTML pages, or plain JSON for the API
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Ocorreu um erro inesperado."
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m, ok := he.Message.(string); {
		case code == http.StatusNotFound && (!ok || m == http.StatusText(code)):
			message = "Página não encontrada."
		case ok:
			message = m
		default:
			message = http.StatusText(code)
		}
	} else {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = c.JSON(code, map[string]string{"error": message})
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if isHTMX(c) {
		_ = c.HTML(code, `<div class="flash flash-error">`+templEscape(message)+`</div>`)
		return
	}
	if rerr := render(c, code, pages.Error(newPage(c, "Erro"), code, message)); rerr != nil {
		log.Error().Err(rerr).Msg("failed to render error page")
	}
}

func templEscape(s string) string {
	return string(templ.EscapeString(s))
}

func notFound(what string) error {
	return echo.NewHTTPError(http.StatusNotFound, what+" não encontrado.")
}
