package handlers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipoAtoCreateHandler(t *testing.T) {
	t.Run("Creates with alert days", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)

		c, rec := setupForm("/tipos-ato/novo", url.Values{
			"nome":         {"Escritura de compra e venda"},
			"tempo_alerta": {"15"},
			"ativo":        {"on"},
		})
		signIn(c, master)

		require.NoError(t, TipoAtoCreateHandler(c))
		assertRedirect(t, rec, "/tipos-ato")

		var tipo models.TipoAto
		require.NoError(t, database.Where("nome = ?", "Escritura de compra e venda").First(&tipo).Error)
		assert.True(t, tipo.Ativo)
		require.NotNil(t, tipo.TempoAlerta)
		assert.Equal(t, 15*24*time.Hour, *tipo.TempoAlerta)
	})

	t.Run("Rejects bad alert days", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)

		c, rec := setupForm("/tipos-ato/novo", url.Values{"nome": {"Procuração"}, "tempo_alerta": {"-3"}})
		signIn(c, master)

		require.NoError(t, TipoAtoCreateHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "número de dias válido")
	})
}

func TestTipoAtoToggleHandler(t *testing.T) {
	database := setupTestDB(t)
	master := createUser(t, database, "master", models.RoleMaster)
	tipo := createTipoAto(t, database, "Inventário")

	c, rec := setupForm("/tipos-ato/"+tipo.ID+"/toggle", url.Values{})
	withParams(c, []string{"id"}, tipo.ID)
	signIn(c, master)

	require.NoError(t, TipoAtoToggleHandler(c))
	assertRedirect(t, rec, "/tipos-ato")

	reloaded, err := services.GetTipoAtoByID(database, tipo.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Ativo)
}

func TestTipoAtoDeleteHandler(t *testing.T) {
	t.Run("Unused type is deleted", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)
		tipo := createTipoAto(t, database, "Ata notarial")

		c, rec := setupForm("/tipos-ato/"+tipo.ID+"/excluir", url.Values{})
		withParams(c, []string{"id"}, tipo.ID)
		signIn(c, master)

		require.NoError(t, TipoAtoDeleteHandler(c))
		assertRedirect(t, rec, "/tipos-ato")
		_, err := services.GetTipoAtoByID(database, tipo.ID)
		assert.Error(t, err)
	})

	t.Run("Type in use is kept", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)
		tipo := createTipoAto(t, database, "Divórcio")
		createProtocolo(t, database, master, models.TipoProtocoloAtoNotarial, tipo)

		c, rec := setupForm("/tipos-ato/"+tipo.ID+"/excluir", url.Values{})
		withParams(c, []string{"id"}, tipo.ID)
		signIn(c, master)

		require.NoError(t, TipoAtoDeleteHandler(c))
		assertRedirect(t, rec, "/tipos-ato")
		_, err := services.GetTipoAtoByID(database, tipo.ID)
		assert.NoError(t, err)
	})

	t.Run("Unknown type", func(t *testing.T) {
		setupTestDB(t)
		c, _ := setupForm("/tipos-ato/x/excluir", url.Values{})
		withParams(c, []string{"id"}, "missing")

		assertHTTPError(t, TipoAtoDeleteHandler(c), http.StatusNotFound)
	})
}

func TestTiposAtoListHandler(t *testing.T) {
	database := setupTestDB(t)
	master := createUser(t, database, "master", models.RoleMaster)
	createTipoAto(t, database, "Testamento")

	_, c, rec := setupEcho(http.MethodGet, "/tipos-ato", nil)
	signIn(c, master)

	require.NoError(t, TiposAtoListHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Testamento")
}
