package middleware

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"tabelionato_app_go/config"
	"tabelionato_app_go/db"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "tabelionato_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// setupExemptPrefixes stay reachable while the bootstrap flow is pending
var setupExemptPrefixes = []string{"/setup", "/static", "/consulta", "/health"}

// redirect sends the browser to path, using HX-Redirect for HTMX requests
func redirect(c echo.Context, path string) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

// RequireSetup sends every request to /setup until the first account exists.
// Once a user exists the check is skipped for the rest of the process.
func RequireSetup() echo.MiddlewareFunc {
	var done atomic.Bool
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if done.Load() {
				return next(c)
			}
			path := c.Request().URL.Path
			for _, prefix := range setupExemptPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			hasUsers, err := services.HasUsers(db.DB)
			if err != nil {
				log.Error().Err(err).Msg("failed to check users for setup gate")
				return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao verificar configuração inicial")
			}
			if !hasUsers {
				return redirect(c, "/setup")
			}
			done.Store(true)
			return next(c)
		}
	}
}

// RequireAuth is middleware that requires an authenticated, active user
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return redirect(c, "/login")
			}

			// ValidateSession drops expired sessions and inactive users
			session, err := services.ValidateSession(db.DB, cookie.Value)
			if err != nil {
				ClearSessionCookie(c)
				return redirect(c, "/login")
			}

			c.Set(ContextKeyUser, &session.User)
			c.Set(ContextKeySession, session)
			return next(c)
		}
	}
}

// IsMaster reports whether the user may manage users, office settings and act types
func IsMaster(user *models.User) bool {
	return user != nil && user.IsMaster()
}

// RequireMaster redirects non-Master users to the home page.
// Must run after RequireAuth.
func RequireMaster() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return redirect(c, "/login")
			}
			if !IsMaster(user) {
				log.Warn().Str("user_id", user.ID).Str("path", c.Request().URL.Path).Msg("non-master access denied")
				return redirect(c, "/")
			}
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentSession retrieves the current session from context
func GetCurrentSession(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

func isProduction(c echo.Context) bool {
	cfg, ok := c.Get("config").(*config.Config)
	return ok && cfg.IsProduction()
}

// SetSessionCookie stores the session token in the browser
func SetSessionCookie(c echo.Context, session *models.Session) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}
