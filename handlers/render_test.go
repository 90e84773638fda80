package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectTo(t *testing.T) {
	t.Run("Plain request", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/x", nil)
		require.NoError(t, redirectTo(c, "/destino"))
		assertRedirect(t, rec, "/destino")
	})

	t.Run("HTMX request", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/x", nil)
		c.Request().Header.Set("HX-Request", "true")
		require.NoError(t, redirectTo(c, "/destino"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/destino", rec.Header().Get("HX-Redirect"))
	})
}

func TestFlashRoundTrip(t *testing.T) {
	_, c, rec := setupEcho(http.MethodPost, "/x", nil)
	setFlash(c, "success", "Cliente Ana | Souza cadastrado.")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	_, c, rec = setupEcho(http.MethodGet, "/y", nil)
	c.Request().AddCookie(cookies[0])
	flash := popFlash(c)
	require.NotNil(t, flash)
	assert.Equal(t, "success", flash.Kind)
	assert.Equal(t, "Cliente Ana | Souza cadastrado.", flash.Message)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPopFlashIgnoresGarbage(t *testing.T) {
	_, c, _ := setupEcho(http.MethodGet, "/", nil)
	c.Request().AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%%"})
	assert.Nil(t, popFlash(c))
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, defaultPageSize},
		{"page=3&limit=50", 3, 50},
		{"page=-2&limit=abc", 1, defaultPageSize},
		{"limit=5000", 1, maxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, c, _ := setupEcho(http.MethodGet, "/clientes?"+tt.query, nil)
			page, limit := parsePage(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	setupTestDB(t)

	t.Run("Not found page", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/nada", nil)
		HTTPErrorHandler(echo.ErrNotFound, c)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Página não encontrada.")
	})

	t.Run("API errors are JSON", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/clientes/lookup", nil)
		HTTPErrorHandler(echo.NewHTTPError(http.StatusForbidden, "Acesso negado."), c)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Acesso negado.", body["error"])
	})

	t.Run("HTMX gets a fragment", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/protocolos/1/status", nil)
		c.Request().Header.Set("HX-Request", "true")
		HTTPErrorHandler(echo.NewHTTPError(http.StatusBadRequest, "<b>ruim</b>"), c)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "&lt;b&gt;ruim&lt;/b&gt;")
	})

	t.Run("Plain errors become 500", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		HTTPErrorHandler(assert.AnError, c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestHomeHandler(t *testing.T) {
	database := setupTestDB(t)
	user := createUser(t, database, "maria", models.RoleEscrevente)
	tipo := createTipoAto(t, database, "Escritura")
	createProtocolo(t, database, user, models.TipoProtocoloAtoNotarial, tipo)

	_, c, rec := setupEcho(http.MethodGet, "/", nil)
	signIn(c, user)

	require.NoError(t, HomeHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Em andamento")
}

func TestHealthHandler(t *testing.T) {
	setupTestDB(t)
	_, c, rec := setupEcho(http.MethodGet, "/health", nil)

	require.NoError(t, HealthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTabelionatoPostHandler(t *testing.T) {
	database := setupTestDB(t)
	master := createUser(t, database, "master", models.RoleMaster)

	form := url.Values{
		"denominacao": {"1º Tabelionato de Notas"},
		"cnpj":        {"12.345.678/0001-99"},
		"endereco":    {"Rua Direita, 100"},
		"telefone":    {"(11) 3333-4444"},
		"email":       {"contato@tabelionato.test"},
	}
	c, rec := setupForm("/configuracoes/tabelionato", form)
	signIn(c, master)

	require.NoError(t, TabelionatoPostHandler(c))
	assertRedirect(t, rec, "/configuracoes/tabelionato")

	tab, err := services.GetTabelionato(database)
	require.NoError(t, err)
	require.NotNil(t, tab)
	assert.Equal(t, "12345678000199", tab.CNPJ)

	_, c, rec = setupEcho(http.MethodGet, "/configuracoes/tabelionato", nil)
	signIn(c, master)
	require.NoError(t, TabelionatoHandler(c))
	assert.Contains(t, rec.Body.String(), "12.345.678/0001-99")
	assert.Contains(t, rec.Body.String(), "1º Tabelionato de Notas")
}

func TestTestEmailHandler(t *testing.T) {
	database := setupTestDB(t)
	master := createUser(t, database, "master", models.RoleMaster)

	t.Run("Only in development", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodGet, "/dev/email/test", nil)
		signIn(c, master)
		assertHTTPError(t, TestEmailHandler(c), http.StatusForbidden)
	})

	t.Run("Logs the message in test mode", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/dev/email/test", nil)
		cfg := getConfig(c)
		cfg.Environment = "development"
		signIn(c, master)

		require.NoError(t, TestEmailHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), master.Email)
	})
}
