package handlers

import (
	"net/http"

	"tabelionato_app_go/db"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// TabelionatoHandler renders the office settings form
func TabelionatoHandler(c echo.Context) error {
	tab, err := services.GetTabelionato(db.DB)
	if err != nil {
		return serverError(c, err, "failed to load office settings")
	}
	var input services.TabelionatoInput
	if tab != nil {
		input = services.TabelionatoInput{
			Denominacao: tab.Denominacao,
			CNPJ:        services.FormatCNPJ(tab.CNPJ),
			Endereco:    tab.Endereco,
			Telefone:    services.FormatTelefone(tab.Telefone),
			Email:       tab.Email,
		}
		if tab.Site != nil {
			input.Site = *tab.Site
		}
	}
	return render(c, http.StatusOK, pages.TabelionatoForm(newPage(c, "Tabelionato"), input, nil))
}

// TabelionatoPostHandler creates the office record on first save and updates it afterwards
func TabelionatoPostHandler(c echo.Context) error {
	before, err := services.GetTabelionato(db.DB)
	if err != nil {
		return serverError(c, err, "failed to load office settings")
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseTabelionatoForm(form)

	tab, errs, err := services.SaveTabelionato(db.DB, input)
	if err != nil {
		return serverError(c, err, "failed to save office settings")
	}
	if errs.Any() {
		return render(c, http.StatusUnprocessableEntity, pages.TabelionatoForm(newPage(c, "Tabelionato"), input, errs))
	}

	action := models.AuditActionUpdate
	if before == nil {
		action = models.AuditActionCreate
	}
	logAudit(c, action, "Tabelionato", tab.ID, tab.Denominacao, "Dados do tabelionato salvos", before, tab)

	setFlash(c, "success", "Dados do tabelionato salvos.")
	return redirectTo(c, "/configuracoes/tabelionato")
}
