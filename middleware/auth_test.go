package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tabelionato_app_go/db"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mw_%s?mode=memory&cache=shared", uuid.New().String())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(&models.User{}, &models.Session{}))

	// Set the global DB variable used by middleware
	db.DB = testDB
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", Role: role, IsActive: true}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "success")
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	user := createUser(t, testDB, "maria", models.RoleEscrevente)
	session, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
		assert.Equal(t, session.ID, GetCurrentSession(c).ID)
	})

	t.Run("NoCookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/clientes", nil), rec)

		require.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("HTMXRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/clientes", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, RequireAuth()(okHandler)(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookieName+"=;")
	})

	t.Run("ExpiredSession", func(t *testing.T) {
		expired, err := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")
		require.NoError(t, err)
		require.NoError(t, testDB.Model(expired).Update("expires_at", time.Now().Add(-time.Hour)).Error)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: expired.Token})
		rec := httptest.NewRecorder()
		require.NoError(t, RequireAuth()(okHandler)(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		inactive := createUser(t, testDB, "joao", models.RoleEscrevente)
		require.NoError(t, testDB.Model(inactive).Update("is_active", false).Error)
		s, err := services.CreateSession(testDB, inactive.ID, "127.0.0.1", "test-agent")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: s.Token})
		rec := httptest.NewRecorder()
		require.NoError(t, RequireAuth()(okHandler)(e.NewContext(req, rec)))
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestRequireSetup(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()
	gate := RequireSetup()(okHandler)

	call := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		require.NoError(t, gate(e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)))
		return rec
	}

	for _, path := range []string{"/", "/login", "/clientes"} {
		rec := call(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/setup", rec.Header().Get("Location"), path)
	}
	assert.Equal(t, http.StatusOK, call("/setup").Code)
	assert.Equal(t, http.StatusOK, call("/static/css/app.css").Code)

	createUser(t, testDB, "admin", models.RoleMaster)
	assert.Equal(t, http.StatusOK, call("/login").Code)
}

func TestRequireMaster(t *testing.T) {
	e := echo.New()
	gate := RequireMaster()(okHandler)

	t.Run("Master", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/usuarios", nil), rec)
		c.Set(ContextKeyUser, &models.User{ID: "1", Role: models.RoleMaster})
		require.NoError(t, gate(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for _, role := range []string{models.RoleAdministrativo, models.RoleEscrevente} {
		t.Run(role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/usuarios", nil), rec)
			c.Set(ContextKeyUser, &models.User{ID: "2", Role: role})
			require.NoError(t, gate(c))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
		})
	}

	t.Run("Anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, gate(e.NewContext(httptest.NewRequest(http.MethodGet, "/usuarios", nil), rec)))
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestIsMaster(t *testing.T) {
	assert.True(t, IsMaster(&models.User{Role: models.RoleMaster}))
	assert.False(t, IsMaster(&models.User{Role: models.RoleAdministrativo}))
	assert.False(t, IsMaster(nil))
}

func TestSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	SetSessionCookie(c, &models.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)})
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
}
