package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tabelionato_app_go/db"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ClientesListHandler renders the client registry with search and pagination
func ClientesListHandler(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("q"))
	page, limit := parsePage(c)

	clientes, total, err := services.ListClientes(db.DB, search, page, limit)
	if err != nil {
		return serverError(c, err, "failed to list clients")
	}

	query := url.Values{}
	if search != "" {
		query.Set("q", search)
	}
	return render(c, http.StatusOK, pages.ClientesList(newPage(c, "Clientes"), clientes, search, pages.NewPagination(page, limit, total, query)))
}

// ClienteNewHandler renders an empty client form
func ClienteNewHandler(c echo.Context) error {
	input := services.ClienteInput{TipoPessoa: models.TipoPessoaFisica}
	return render(c, http.StatusOK, pages.ClienteForm(newPage(c, "Novo cliente"), "/clientes/novo", input, nil))
}

// ClienteCreateHandler creates a client
func ClienteCreateHandler(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseClienteForm(form)

	cliente, errs, err := services.SaveCliente(db.DB, nil, input)
	if err != nil {
		return serverError(c, err, "failed to create client")
	}
	if errs.Any() {
		return render(c, http.StatusUnprocessableEntity, pages.ClienteForm(newPage(c, "Novo cliente"), "/clientes/novo", input, errs))
	}

	logAudit(c, models.AuditActionCreate, "Cliente", cliente.ID, cliente.Nome, "Cliente cadastrado", nil, cliente)
	setFlash(c, "success", "Cliente "+cliente.Nome+" cadastrado.")
	return redirectTo(c, "/clientes/"+cliente.ID)
}

func loadCliente(c echo.Context) (*models.Cliente, error) {
	cliente, err := services.GetClienteByID(db.DB, c.Param("id"))
	if errors.Is(err, services.ErrClienteNotFound) {
		return nil, notFound("Cliente")
	}
	if err != nil {
		return nil, serverError(c, err, "failed to load client")
	}
	return cliente, nil
}

// ClienteDetailHandler shows a client and the protocols it takes part in
func ClienteDetailHandler(c echo.Context) error {
	cliente, err := loadCliente(c)
	if err != nil {
		return err
	}
	protocolos, err := services.GetClienteProtocolos(db.DB, cliente.ID)
	if err != nil {
		return serverError(c, err, "failed to load client protocols")
	}
	return render(c, http.StatusOK, pages.ClienteDetail(newPage(c, cliente.Nome), cliente, protocolos))
}

// ClienteEditHandler renders the edit form of a client
func ClienteEditHandler(c echo.Context) error {
	cliente, err := loadCliente(c)
	if err != nil {
		return err
	}
	input := services.ClienteInput{
		Nome:       cliente.Nome,
		TipoPessoa: cliente.TipoPessoa,
		Telefone:   deref(cliente.Telefone),
		Email:      deref(cliente.Email),
		Endereco:   deref(cliente.Endereco),
	}
	if cliente.CPF != nil {
		input.CPF = services.FormatCPF(*cliente.CPF)
	}
	if cliente.CNPJ != nil {
		input.CNPJ = services.FormatCNPJ(*cliente.CNPJ)
	}
	return render(c, http.StatusOK, pages.ClienteForm(newPage(c, "Editar cliente"), "/clientes/"+cliente.ID+"/editar", input, nil))
}

// ClienteUpdateHandler saves an edited client
func ClienteUpdateHandler(c echo.Context) error {
	cliente, err := loadCliente(c)
	if err != nil {
		return err
	}
	before := *cliente

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseClienteForm(form)

	cliente, errs, err := services.SaveCliente(db.DB, cliente, input)
	if err != nil {
		return serverError(c, err, "failed to update client")
	}
	if errs.Any() {
		return render(c, http.StatusUnprocessableEntity, pages.ClienteForm(newPage(c, "Editar cliente"), "/clientes/"+before.ID+"/editar", input, errs))
	}

	logAudit(c, models.AuditActionUpdate, "Cliente", cliente.ID, cliente.Nome, "Cliente atualizado", before, cliente)
	setFlash(c, "success", "Cliente "+cliente.Nome+" atualizado.")
	return redirectTo(c, "/clientes/"+cliente.ID)
}

// ClienteDeleteHandler removes a client. Its protocols are kept.
func ClienteDeleteHandler(c echo.Context) error {
	cliente, err := services.DeleteCliente(db.DB, c.Param("id"))
	if errors.Is(err, services.ErrClienteNotFound) {
		return notFound("Cliente")
	}
	if err != nil {
		return serverError(c, err, "failed to delete client")
	}

	logAudit(c, models.AuditActionDelete, "Cliente", cliente.ID, cliente.Nome, "Cliente excluído", cliente, nil)
	setFlash(c, "success", "Cliente "+cliente.Nome+" excluído.")
	return redirectTo(c, "/clientes")
}

// ClientesExportHandler downloads the client registry as a spreadsheet
func ClientesExportHandler(c echo.Context) error {
	clientes, err := services.AllClientes(db.DB, c.QueryParam("q"))
	if err != nil {
		return serverError(c, err, "failed to load clients for export")
	}
	data, err := services.ExportClientesXLSX(clientes)
	if err != nil {
		return serverError(c, err, "failed to build client export")
	}
	return sendAttachment(c, "clientes-"+time.Now().Format("20060102")+".xlsx", xlsxContentType, data)
}

// clienteLookupResponse is the autofill payload of the protocol form
type clienteLookupResponse struct {
	Found      bool    `json:"found"`
	ID         *string `json:"id"`
	Nome       string  `json:"nome"`
	TipoPessoa string  `json:"tipo_pessoa"`
	Telefone   string  `json:"telefone"`
	Email      string  `json:"email"`
	Endereco   string  `json:"endereco"`
}

// ClienteLookupHandler finds a client by CPF or CNPJ for the protocol form
func ClienteLookupHandler(c echo.Context) error {
	cliente, err := services.LookupClienteByDocumento(db.DB, c.QueryParam("documento"))
	if err != nil {
		return serverError(c, err, "failed to look up client")
	}
	if cliente == nil {
		return c.JSON(http.StatusOK, clienteLookupResponse{})
	}
	id := cliente.ID
	return c.JSON(http.StatusOK, clienteLookupResponse{
		Found:      true,
		ID:         &id,
		Nome:       cliente.Nome,
		TipoPessoa: cliente.TipoPessoa,
		Telefone:   deref(cliente.Telefone),
		Email:      deref(cliente.Email),
		Endereco:   deref(cliente.Endereco),
	})
}

func sendAttachment(c echo.Context, filename, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
