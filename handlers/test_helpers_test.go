package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tabelionato_app_go/config"
	"tabelionato_app_go/db"
	"tabelionato_app_go/middleware"
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
	// Use unique shared memory name to isolate tests while allowing shared cache for async audit writes
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	services.Storage = services.NewLocalStorage(t.TempDir())

	require.NoError(t, testDB.AutoMigrate(models.All()...))

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		AppURL:        "http://tabelionato.test",
		EmailTestMode: true,
	})

	return e, c, rec
}

// setupForm builds a POST context carrying an url-encoded form
func setupForm(path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	_, c, rec := setupEcho(http.MethodPost, path, strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c, rec
}

func withParams(c echo.Context, names []string, values ...string) echo.Context {
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

func signIn(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func createUser(t *testing.T, database *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := services.HashPassword("segredo1")
	require.NoError(t, err)
	user := &models.User{
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		Email:     username + "@tabelionato.test",
		Password:  hash,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, database.Create(user).Error)
	return user
}

func createTipoAto(t *testing.T, database *gorm.DB, nome string) *models.TipoAto {
	t.Helper()
	tipo := &models.TipoAto{Nome: nome, Ativo: true}
	require.NoError(t, database.Create(tipo).Error)
	return tipo
}

func createProtocolo(t *testing.T, database *gorm.DB, actor *models.User, tipo string, tipoAto *models.TipoAto) *models.Protocolo {
	t.Helper()
	protocolo, errs, err := services.CreateProtocolo(database, actor, services.ProtocoloInput{
		Tipo:      tipo,
		TipoAtoID: tipoAto.ID,
		Clientes:  []services.PessoaInput{{Documento: "111.222.333-44", Nome: "Ana Souza"}},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	return protocolo
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, code, he.Code)
}
