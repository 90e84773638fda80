package handlers

import (
	"errors"
	"net/http"

	"tabelionato_app_go/db"
	"tabelionato_app_go/middleware"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// UsersListHandler renders the user management page
func UsersListHandler(c echo.Context) error {
	users, err := services.GetUsers(db.DB)
	if err != nil {
		return serverError(c, err, "failed to list users")
	}
	return render(c, http.StatusOK, pages.UsersList(newPage(c, "Usuários"), users))
}

// UserNewHandler renders an empty user form
func UserNewHandler(c echo.Context) error {
	input := services.UserInput{Role: models.RoleEscrevente, IsActive: true}
	return render(c, http.StatusOK, pages.UserForm(newPage(c, "Novo usuário"), "/usuarios/novo", false, input, nil))
}

// UserCreateHandler creates a user and sends the welcome e-mail
func UserCreateHandler(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseUserForm(form)

	user, errs, err := services.CreateUser(db.DB, input)
	if err != nil {
		return serverError(c, err, "failed to create user")
	}
	if errs.Any() {
		input.Password, input.PasswordConfirm = "", ""
		return render(c, http.StatusUnprocessableEntity, pages.UserForm(newPage(c, "Novo usuário"), "/usuarios/novo", false, input, errs))
	}

	logAudit(c, models.AuditActionCreate, "User", user.ID, user.Username, "Usuário criado", nil, user)

	cfg := getConfig(c)
	var tabelionato string
	if tab, err := services.GetTabelionato(db.DB); err == nil && tab != nil {
		tabelionato = tab.Denominacao
	}
	services.SendWelcomeEmail(cfg, tabelionato, user.Username, user.FullName(), user.Email)

	setFlash(c, "success", "Usuário "+user.Username+" criado.")
	return redirectTo(c, "/usuarios")
}

// UserEditHandler renders the edit form of a user
func UserEditHandler(c echo.Context) error {
	user, err := services.GetUserByID(db.DB, c.Param("id"))
	if errors.Is(err, services.ErrUserNotFound) {
		return notFound("Usuário")
	}
	if err != nil {
		return serverError(c, err, "failed to load user")
	}
	input := services.UserInput{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  user.IsActive,
	}
	return render(c, http.StatusOK, pages.UserForm(newPage(c, "Editar usuário"), "/usuarios/"+user.ID+"/editar", true, input, nil))
}

// UserUpdateHandler saves the edit form. A blank password keeps the current one.
func UserUpdateHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetUserByID(db.DB, id)
	if errors.Is(err, services.ErrUserNotFound) {
		return notFound("Usuário")
	}
	if err != nil {
		return serverError(c, err, "failed to load user")
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseUserForm(form)

	user, errs, err := services.UpdateUser(db.DB, id, input)
	if err != nil {
		return serverError(c, err, "failed to update user")
	}
	if errs.Any() {
		input.Password, input.PasswordConfirm = "", ""
		return render(c, http.StatusUnprocessableEntity, pages.UserForm(newPage(c, "Editar usuário"), "/usuarios/"+id+"/editar", true, input, errs))
	}

	logAudit(c, models.AuditActionUpdate, "User", user.ID, user.Username, "Usuário atualizado", before, user)
	if input.Password != "" {
		services.LogSecurityAudit(db.DB, middleware.GetAuditContext(c), "PASSWORD_CHANGED", "Senha alterada para "+user.Username)
	}

	setFlash(c, "success", "Usuário "+user.Username+" atualizado.")
	return redirectTo(c, "/usuarios")
}

// UserDeleteHandler removes a user. Users cannot remove themselves.
func UserDeleteHandler(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)
	user, err := services.DeleteUser(db.DB, actor, c.Param("id"))
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		setFlash(c, "error", err.Error())
		return redirectTo(c, "/usuarios")
	case errors.Is(err, services.ErrUserNotFound):
		return notFound("Usuário")
	case err != nil:
		return serverError(c, err, "failed to delete user")
	}

	logAudit(c, models.AuditActionDelete, "User", user.ID, user.Username, "Usuário excluído", user, nil)
	setFlash(c, "success", "Usuário "+user.Username+" excluído.")
	return redirectTo(c, "/usuarios")
}
