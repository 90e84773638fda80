package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"tabelionato_app_go/middleware"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandler(t *testing.T) {
	t.Run("Renders form on empty database", func(t *testing.T) {
		setupTestDB(t)
		_, c, rec := setupEcho(http.MethodGet, "/setup", nil)

		require.NoError(t, SetupHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="password_confirm"`)
	})

	t.Run("Redirects once a user exists", func(t *testing.T) {
		database := setupTestDB(t)
		createUser(t, database, "master", models.RoleMaster)
		_, c, rec := setupEcho(http.MethodGet, "/setup", nil)

		require.NoError(t, SetupHandler(c))
		assertRedirect(t, rec, "/login")
	})
}

func TestSetupPostHandler(t *testing.T) {
	t.Run("Creates the master and signs in", func(t *testing.T) {
		database := setupTestDB(t)
		c, rec := setupForm("/setup", url.Values{
			"username":         {"tabeliao"},
			"first_name":       {"Carlos"},
			"email":            {"carlos@tabelionato.test"},
			"password":         {"segredo1"},
			"password_confirm": {"segredo1"},
			"role":             {models.RoleEscrevente},
		})

		require.NoError(t, SetupPostHandler(c))
		assertRedirect(t, rec, "/configuracoes/tabelionato")

		var user models.User
		require.NoError(t, database.Where("username = ?", "tabeliao").First(&user).Error)
		assert.Equal(t, models.RoleMaster, user.Role)
		assert.True(t, user.IsActive)

		var sessions int64
		database.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessions)
		assert.Equal(t, int64(1), sessions)
		assert.Contains(t, rec.Header().Values("Set-Cookie")[0], middleware.SessionCookieName)
	})

	t.Run("Invalid form is shown again", func(t *testing.T) {
		setupTestDB(t)
		c, rec := setupForm("/setup", url.Values{
			"username":         {"tabeliao"},
			"password":         {"segredo1"},
			"password_confirm": {"outra"},
		})

		require.NoError(t, SetupPostHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.NotContains(t, rec.Body.String(), "segredo1")
	})

	t.Run("Refused after setup", func(t *testing.T) {
		database := setupTestDB(t)
		createUser(t, database, "master", models.RoleMaster)
		c, rec := setupForm("/setup", url.Values{
			"username":         {"outro"},
			"password":         {"segredo1"},
			"password_confirm": {"segredo1"},
		})

		require.NoError(t, SetupPostHandler(c))
		assertRedirect(t, rec, "/login")

		var count int64
		database.Model(&models.User{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestLoginHandler(t *testing.T) {
	setupTestDB(t)
	_, c, rec := setupEcho(http.MethodGet, "/login", nil)

	err := LoginHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="username"`)
}

func TestLoginPostHandler(t *testing.T) {
	t.Run("Valid credentials", func(t *testing.T) {
		database := setupTestDB(t)
		createUser(t, database, "maria", models.RoleEscrevente)

		c, rec := setupForm("/login", url.Values{"username": {"maria"}, "password": {"segredo1"}})

		err := LoginPostHandler(c)
		assert.NoError(t, err)
		assertRedirect(t, rec, "/")
		assert.Contains(t, rec.Header().Get("Set-Cookie"), middleware.SessionCookieName)
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		database := setupTestDB(t)
		createUser(t, database, "maria", models.RoleEscrevente)

		c, rec := setupForm("/login", url.Values{"username": {"maria"}, "password": {"errada"}})

		err := LoginPostHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Usuário ou senha inválidos.")
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})

	t.Run("HTMX request error", func(t *testing.T) {
		database := setupTestDB(t)
		createUser(t, database, "maria", models.RoleEscrevente)

		c, rec := setupForm("/login", url.Values{"username": {"maria"}, "password": {"errada"}})
		c.Request().Header.Set("HX-Request", "true")

		err := LoginPostHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "flash-error")
	})

	t.Run("Deactivated user", func(t *testing.T) {
		database := setupTestDB(t)
		user := createUser(t, database, "maria", models.RoleEscrevente)
		require.NoError(t, database.Model(user).Update("is_active", false).Error)

		c, rec := setupForm("/login", url.Values{"username": {"maria"}, "password": {"segredo1"}})

		err := LoginPostHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "desativada")
	})

	t.Run("Missing fields", func(t *testing.T) {
		setupTestDB(t)
		c, rec := setupForm("/login", url.Values{"username": {"maria"}})

		require.NoError(t, LoginPostHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Failures feed the login monitor", func(t *testing.T) {
		database := setupTestDB(t)
		createUser(t, database, "maria", models.RoleEscrevente)
		services.InitLoginMonitor(nil)
		t.Cleanup(func() { services.Monitor = nil })

		for i := 0; i < 5; i++ {
			c, _ := setupForm("/login", url.Values{"username": {"maria"}, "password": {"errada"}})
			require.NoError(t, LoginPostHandler(c))
		}
		assert.Len(t, services.Monitor.RecentAlerts(), 1)
	})
}

func TestLogoutHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "maria", models.RoleEscrevente)
	session, err := services.CreateSession(database, user.ID, "127.0.0.1", "test")
	require.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

	require.NoError(t, LogoutHandler(c))
	assertRedirect(t, rec, "/login")

	_, err = services.ValidateSession(database, session.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}
