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

// SetupHandler renders the first-run form that creates the Master account
func SetupHandler(c echo.Context) error {
	exists, err := services.HasUsers(db.DB)
	if err != nil {
		return serverError(c, err, "failed to check users")
	}
	if exists {
		setFlash(c, "info", "A configuração inicial já foi realizada. Faça login.")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return render(c, http.StatusOK, pages.Setup(newPage(c, "Configuração inicial"), services.UserInput{}, nil))
}

// SetupPostHandler creates the Master account and signs it in
func SetupPostHandler(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseUserForm(form)

	user, errs, err := services.SetupMaster(db.DB, input)
	if errors.Is(err, services.ErrSetupDone) {
		setFlash(c, "info", "A configuração inicial já foi realizada. Faça login.")
		return redirectTo(c, "/login")
	}
	if err != nil {
		return serverError(c, err, "failed to create master user")
	}
	if errs.Any() {
		input.Password, input.PasswordConfirm = "", ""
		return render(c, http.StatusUnprocessableEntity, pages.Setup(newPage(c, "Configuração inicial"), input, errs))
	}

	if err := startSession(c, user); err != nil {
		return serverError(c, err, "failed to create session")
	}
	c.Set(middleware.ContextKeyUser, user)
	logAudit(c, models.AuditActionCreate, "User", user.ID, user.Username, "Conta Master criada na configuração inicial", nil, user)

	setFlash(c, "success", "Conta criada. Cadastre agora os dados do tabelionato.")
	return redirectTo(c, "/configuracoes/tabelionato")
}

// LoginHandler renders the login page
func LoginHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := services.ValidateSession(db.DB, cookie.Value); err == nil {
			return c.Redirect(http.StatusSeeOther, "/")
		}
	}
	return render(c, http.StatusOK, pages.Login(newPage(c, "Entrar"), "", ""))
}

// LoginPostHandler handles the login form submission
func LoginPostHandler(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if username == "" || password == "" {
		return loginFailed(c, username, "Informe usuário e senha.")
	}

	user, err := services.Authenticate(db.DB, username, password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		services.LogSecurityAudit(db.DB, middleware.BuildAuditContext(c), "LOGIN_FAILED", "Falha de login para "+username)
		if services.Monitor != nil {
			services.Monitor.TrackFailedLogin(c.RealIP(), username)
		}
		return loginFailed(c, username, "Usuário ou senha inválidos.")
	case errors.Is(err, services.ErrUserInactive):
		services.LogSecurityAudit(db.DB, middleware.BuildAuditContext(c), "LOGIN_INACTIVE", "Login de usuário inativo "+username)
		return loginFailed(c, username, "Sua conta está desativada.")
	case err != nil:
		return serverError(c, err, "failed to authenticate")
	}

	if err := startSession(c, user); err != nil {
		return serverError(c, err, "failed to create session")
	}
	c.Set(middleware.ContextKeyUser, user)
	logAudit(c, models.AuditActionLogin, "User", user.ID, user.Username, "Login realizado", nil, nil)

	return redirectTo(c, "/")
}

func loginFailed(c echo.Context, username, message string) error {
	if isHTMX(c) {
		return c.HTML(http.StatusOK, `<div class="flash flash-error">`+templEscape(message)+`</div>`)
	}
	return render(c, http.StatusUnauthorized, pages.Login(newPage(c, "Entrar"), username, message))
}

// LogoutHandler ends the current session
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if session, err := services.ValidateSession(db.DB, cookie.Value); err == nil {
			c.Set(middleware.ContextKeyUser, &session.User)
			logAudit(c, models.AuditActionLogout, "User", session.UserID, session.User.Username, "Logout realizado", nil, nil)
		}
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			return serverError(c, err, "failed to delete session")
		}
	}
	middleware.ClearSessionCookie(c)
	return redirectTo(c, "/login")
}

func startSession(c echo.Context, user *models.User) error {
	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, session)
	return nil
}
