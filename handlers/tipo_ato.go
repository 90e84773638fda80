package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tabelionato_app_go/db"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// TiposAtoListHandler renders the act type list
func TiposAtoListHandler(c echo.Context) error {
	tipos, err := services.GetTiposAto(db.DB)
	if err != nil {
		return serverError(c, err, "failed to list act types")
	}
	return render(c, http.StatusOK, pages.TiposAtoList(newPage(c, "Tipos de ato"), tipos))
}

// TipoAtoNewHandler renders an empty act type form
func TipoAtoNewHandler(c echo.Context) error {
	return render(c, http.StatusOK, pages.TipoAtoForm(newPage(c, "Novo tipo de ato"), "/tipos-ato/novo", services.TipoAtoInput{Ativo: true}, nil))
}

func parseTipoAtoForm(c echo.Context) services.TipoAtoInput {
	ativo := c.FormValue("ativo")
	return services.TipoAtoInput{
		Nome:            c.FormValue("nome"),
		Ativo:           ativo == "on" || ativo == "true",
		TempoAlertaDias: strings.TrimSpace(c.FormValue("tempo_alerta")),
	}
}

// TipoAtoCreateHandler creates an act type
func TipoAtoCreateHandler(c echo.Context) error {
	input := parseTipoAtoForm(c)
	tipo, errs, err := services.SaveTipoAto(db.DB, nil, input)
	if err != nil {
		return serverError(c, err, "failed to create act type")
	}
	if errs.Any() {
		return render(c, http.StatusUnprocessableEntity, pages.TipoAtoForm(newPage(c, "Novo tipo de ato"), "/tipos-ato/novo", input, errs))
	}

	logAudit(c, models.AuditActionCreate, "TipoAto", tipo.ID, tipo.Nome, "Tipo de ato criado", nil, tipo)
	setFlash(c, "success", "Tipo de ato "+tipo.Nome+" criado.")
	return redirectTo(c, "/tipos-ato")
}

func loadTipoAto(c echo.Context) (*models.TipoAto, error) {
	tipo, err := services.GetTipoAtoByID(db.DB, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Tipo de ato")
	}
	if err != nil {
		return nil, serverError(c, err, "failed to load act type")
	}
	return tipo, nil
}

// TipoAtoEditHandler renders the edit form of an act type
func TipoAtoEditHandler(c echo.Context) error {
	tipo, err := loadTipoAto(c)
	if err != nil {
		return err
	}
	input := services.TipoAtoInput{Nome: tipo.Nome, Ativo: tipo.Ativo}
	if dias := tipo.TempoAlertaDias(); dias > 0 {
		input.TempoAlertaDias = strconv.Itoa(dias)
	}
	return render(c, http.StatusOK, pages.TipoAtoForm(newPage(c, "Editar tipo de ato"), "/tipos-ato/"+tipo.ID+"/editar", input, nil))
}

// TipoAtoUpdateHandler saves an edited act type
func TipoAtoUpdateHandler(c echo.Context) error {
	tipo, err := loadTipoAto(c)
	if err != nil {
		return err
	}
	before := *tipo

	input := parseTipoAtoForm(c)
	tipo, errs, err := services.SaveTipoAto(db.DB, tipo, input)
	if err != nil {
		return serverError(c, err, "failed to update act type")
	}
	if errs.Any() {
		return render(c, http.StatusUnprocessableEntity, pages.TipoAtoForm(newPage(c, "Editar tipo de ato"), "/tipos-ato/"+before.ID+"/editar", input, errs))
	}

	logAudit(c, models.AuditActionUpdate, "TipoAto", tipo.ID, tipo.Nome, "Tipo de ato atualizado", before, tipo)
	setFlash(c, "success", "Tipo de ato "+tipo.Nome+" atualizado.")
	return redirectTo(c, "/tipos-ato")
}

// TipoAtoToggleHandler switches an act type between active and inactive
func TipoAtoToggleHandler(c echo.Context) error {
	tipo, err := services.ToggleTipoAto(db.DB, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("Tipo de ato")
	}
	if err != nil {
		return serverError(c, err, "failed to toggle act type")
	}

	estado := "desativado"
	if tipo.Ativo {
		estado = "ativado"
	}
	logAudit(c, models.AuditActionStatusChange, "TipoAto", tipo.ID, tipo.Nome, "Tipo de ato "+estado, nil, map[string]bool{"ativo": tipo.Ativo})
	setFlash(c, "success", "Tipo de ato "+tipo.Nome+" "+estado+".")
	return redirectTo(c, "/tipos-ato")
}

// TipoAtoDeleteHandler removes an act type that no protocol uses
func TipoAtoDeleteHandler(c echo.Context) error {
	tipo, err := services.DeleteTipoAto(db.DB, c.Param("id"))
	switch {
	case errors.Is(err, services.ErrTipoAtoEmUso):
		setFlash(c, "error", "Este tipo de ato está vinculado a protocolos e não pode ser excluído. Desative-o.")
		return redirectTo(c, "/tipos-ato")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("Tipo de ato")
	case err != nil:
		return serverError(c, err, "failed to delete act type")
	}

	logAudit(c, models.AuditActionDelete, "TipoAto", tipo.ID, tipo.Nome, "Tipo de ato excluído", tipo, nil)
	setFlash(c, "success", "Tipo de ato "+tipo.Nome+" excluído.")
	return redirectTo(c, "/tipos-ato")
}
