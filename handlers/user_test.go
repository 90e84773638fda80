package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersListHandler(t *testing.T) {
	database := setupTestDB(t)
	master := createUser(t, database, "master", models.RoleMaster)
	createUser(t, database, "joana", models.RoleAdministrativo)

	_, c, rec := setupEcho(http.MethodGet, "/usuarios", nil)
	signIn(c, master)

	require.NoError(t, UsersListHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "joana")
	assert.Contains(t, rec.Body.String(), "Administrativo")
}

func TestUserCreateHandler(t *testing.T) {
	t.Run("Creates user", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)

		c, rec := setupForm("/usuarios/novo", url.Values{
			"username":         {"pedro"},
			"first_name":       {"Pedro"},
			"email":            {"pedro@tabelionato.test"},
			"role":             {models.RoleEscrevente},
			"is_active":        {"on"},
			"password":         {"segredo1"},
			"password_confirm": {"segredo1"},
		})
		signIn(c, master)

		require.NoError(t, UserCreateHandler(c))
		assertRedirect(t, rec, "/usuarios")

		var user models.User
		require.NoError(t, database.Where("username = ?", "pedro").First(&user).Error)
		assert.Equal(t, models.RoleEscrevente, user.Role)
		assert.True(t, services.CheckPassword("segredo1", user.Password))
	})

	t.Run("Duplicate username", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)

		c, rec := setupForm("/usuarios/novo", url.Values{
			"username":         {"MASTER"},
			"role":             {models.RoleEscrevente},
			"password":         {"segredo1"},
			"password_confirm": {"segredo1"},
		})
		signIn(c, master)

		require.NoError(t, UserCreateHandler(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "já está em uso")
	})
}

func TestUserUpdateHandler(t *testing.T) {
	database := setupTestDB(t)
	master := createUser(t, database, "master", models.RoleMaster)
	joana := createUser(t, database, "joana", models.RoleEscrevente)
	session, err := services.CreateSession(database, joana.ID, "127.0.0.1", "test")
	require.NoError(t, err)

	c, rec := setupForm("/usuarios/"+joana.ID+"/editar", url.Values{
		"username":         {"joana"},
		"first_name":       {"Joana"},
		"role":             {models.RoleAdministrativo},
		"is_active":        {"on"},
		"password":         {"novasenha"},
		"password_confirm": {"novasenha"},
	})
	withParams(c, []string{"id"}, joana.ID)
	signIn(c, master)

	require.NoError(t, UserUpdateHandler(c))
	assertRedirect(t, rec, "/usuarios")

	updated, err := services.GetUserByID(database, joana.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrativo, updated.Role)
	assert.True(t, services.CheckPassword("novasenha", updated.Password))

	_, err = services.ValidateSession(database, session.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestUserEditHandlerNotFound(t *testing.T) {
	setupTestDB(t)
	_, c, _ := setupEcho(http.MethodGet, "/usuarios/x/editar", nil)
	withParams(c, []string{"id"}, "missing")

	assertHTTPError(t, UserEditHandler(c), http.StatusNotFound)
}

func TestUserDeleteHandler(t *testing.T) {
	t.Run("Deletes another user", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)
		joana := createUser(t, database, "joana", models.RoleEscrevente)

		c, rec := setupForm("/usuarios/"+joana.ID+"/excluir", url.Values{})
		withParams(c, []string{"id"}, joana.ID)
		signIn(c, master)

		require.NoError(t, UserDeleteHandler(c))
		assertRedirect(t, rec, "/usuarios")
		_, err := services.GetUserByID(database, joana.ID)
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("Refuses self delete", func(t *testing.T) {
		database := setupTestDB(t)
		master := createUser(t, database, "master", models.RoleMaster)

		c, rec := setupForm("/usuarios/"+master.ID+"/excluir", url.Values{})
		withParams(c, []string{"id"}, master.ID)
		signIn(c, master)

		require.NoError(t, UserDeleteHandler(c))
		assertRedirect(t, rec, "/usuarios")
		assert.Contains(t, rec.Header().Get("Set-Cookie"), flashCookieName)

		_, err := services.GetUserByID(database, master.ID)
		assert.NoError(t, err)
	})
}
