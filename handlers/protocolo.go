package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tabelionato_app_go/db"
	"tabelionato_app_go/middleware"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/pages"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const auditResourceProtocolo = "Protocolo"

// ProtocolosListHandler renders the protocol list with status, type and search filters
func ProtocolosListHandler(c echo.Context) error {
	filters := protocoloFilters(c)
	page, limit := parsePage(c)

	protocolos, total, err := services.ListProtocolos(db.DB, filters, page, limit)
	if err != nil {
		return serverError(c, err, "failed to list protocols")
	}

	query := url.Values{}
	for key, value := range map[string]string{"status": filters.Status, "tipo": filters.Tipo, "q": filters.Search} {
		if value != "" {
			query.Set(key, value)
		}
	}
	return render(c, http.StatusOK, pages.ProtocolosList(newPage(c, "Protocolos"), protocolos, filters, pages.NewPagination(page, limit, total, query)))
}

func protocoloFilters(c echo.Context) services.ProtocoloFilters {
	filters := services.ProtocoloFilters{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Tipo:   strings.TrimSpace(c.QueryParam("tipo")),
		Search: strings.TrimSpace(c.QueryParam("q")),
	}
	if !models.IsValidProtocoloStatus(filters.Status) {
		filters.Status = ""
	}
	if !models.IsValidTipoProtocolo(filters.Tipo) {
		filters.Tipo = ""
	}
	return filters
}

// ProtocolosExportHandler downloads the filtered protocol list as a spreadsheet
func ProtocolosExportHandler(c echo.Context) error {
	data, err := services.ExportProtocolosXLSX(db.DB, protocoloFilters(c))
	if err != nil {
		return serverError(c, err, "failed to build protocol export")
	}
	return sendAttachment(c, "protocolos-"+time.Now().Format("20060102")+".xlsx", xlsxContentType, data)
}

// protocoloFormData loads the select options of the protocol form.
// currentTipoAtoID keeps an inactive type selectable while editing.
func protocoloFormData(currentTipoAtoID string) ([]models.TipoAto, []models.User, error) {
	tipos, err := services.GetActiveTiposAto(db.DB)
	if err != nil {
		return nil, nil, err
	}
	if currentTipoAtoID != "" {
		found := false
		for _, t := range tipos {
			if t.ID == currentTipoAtoID {
				found = true
				break
			}
		}
		if !found {
			if current, err := services.GetTipoAtoByID(db.DB, currentTipoAtoID); err == nil {
				tipos = append(tipos, *current)
			}
		}
	}
	usuarios, err := services.GetActiveUsers(db.DB)
	if err != nil {
		return nil, nil, err
	}
	return tipos, usuarios, nil
}

// withBlankRows makes sure the repeaters render at least one editable row
func withBlankRows(input services.ProtocoloInput) services.ProtocoloInput {
	if len(input.Clientes) == 0 {
		input.Clientes = []services.PessoaInput{{}}
	}
	if len(input.Advogados) == 0 {
		input.Advogados = []services.PessoaInput{{}}
	}
	if len(input.Documentos) == 0 {
		input.Documentos = []string{""}
	}
	return input
}

func renderProtocoloForm(c echo.Context, status int, title string, data pages.ProtocoloFormData) error {
	var current string
	if data.Editing {
		current = data.Form.TipoAtoID
	}
	tipos, usuarios, err := protocoloFormData(current)
	if err != nil {
		return serverError(c, err, "failed to load protocol form options")
	}
	data.TiposAto = tipos
	data.Usuarios = usuarios
	data.Form = withBlankRows(data.Form)
	return render(c, status, pages.ProtocoloForm(newPage(c, title), data))
}

func novoProtocoloPath(tipo string) string {
	if tipo == models.TipoProtocoloAtoNotarial {
		return "/protocolos/ato/novo"
	}
	return "/protocolos/certidao/novo"
}

func novoProtocoloTitle(tipo string) string {
	if tipo == models.TipoProtocoloAtoNotarial {
		return "Novo ato notarial"
	}
	return "Nova certidão"
}

// ProtocoloNewHandler renders the creation form of a certificate or a notarial act
func ProtocoloNewHandler(tipo string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := middleware.GetCurrentUser(c)
		input := services.ProtocoloInput{Tipo: tipo, ResponsavelID: user.ID}
		return renderProtocoloForm(c, http.StatusOK, novoProtocoloTitle(tipo), pages.ProtocoloFormData{
			Action: novoProtocoloPath(tipo),
			Tipo:   tipo,
			Form:   input,
		})
	}
}

// ProtocoloCreateHandler creates a certificate or a notarial act with its people
func ProtocoloCreateHandler(tipo string) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
		}
		input := services.ParseProtocoloForm(form)
		input.Tipo = tipo

		actor := middleware.GetCurrentUser(c)
		protocolo, errs, err := services.CreateProtocolo(db.DB, actor, input)
		if err != nil {
			log.Error().Err(err).Msg("failed to create protocol")
			return renderProtocoloForm(c, http.StatusInternalServerError, novoProtocoloTitle(tipo), pages.ProtocoloFormData{
				Action:     novoProtocoloPath(tipo),
				Tipo:       tipo,
				Form:       input,
				ErrorGeral: "Não foi possível salvar o protocolo. Nenhum dado foi gravado; tente novamente.",
			})
		}
		if errs.Any() {
			return renderProtocoloForm(c, http.StatusUnprocessableEntity, novoProtocoloTitle(tipo), pages.ProtocoloFormData{
				Action: novoProtocoloPath(tipo),
				Tipo:   tipo,
				Form:   input,
				Errors: errs,
			})
		}

		logAudit(c, models.AuditActionCreate, auditResourceProtocolo, protocolo.ID, protocolo.NumeroProtocolo, "Protocolo criado", nil, protocolo)
		setFlash(c, "success", "Protocolo "+protocolo.NumeroProtocolo+" criado.")
		return redirectTo(c, "/protocolos/"+protocolo.ID)
	}
}

func loadProtocolo(c echo.Context) (*models.Protocolo, error) {
	protocolo, err := services.GetProtocolo(db.DB, c.Param("id"))
	if errors.Is(err, services.ErrProtocoloNotFound) {
		return nil, notFound("Protocolo")
	}
	if err != nil {
		return nil, serverError(c, err, "failed to load protocol")
	}
	return protocolo, nil
}

// escrituraInput fills the deed form from the stored deed details
func escrituraInput(d *models.DadosEscritura) services.DadosEscrituraInput {
	if d == nil {
		return services.DadosEscrituraInput{}
	}
	input := services.DadosEscrituraInput{
		Livro:                   d.Livro,
		Folha:                   d.Folha,
		DataEscritura:           d.DataEscritura.Format(services.DateLayout),
		ComunicacaoCOAF:         d.ComunicacaoCOAF,
		RelatorioCOAF:           deref(d.RelatorioCOAF),
		NumeroComunicacaoCOAF:   deref(d.NumeroComunicacaoCOAF),
		DocumentosDigitalizados: d.DocumentosDigitalizados,
		Emolumentos:             d.Emolumentos.StringFixed(2),
		Finalizado:              d.Finalizado,
	}
	if d.DataComunicacaoCOAF != nil {
		input.DataComunicacaoCOAF = d.DataComunicacaoCOAF.Format(services.DateLayout)
	}
	return input
}

func detailData(c echo.Context, protocolo *models.Protocolo) pages.ProtocoloDetailData {
	history, err := services.GetResourceAuditHistory(db.DB, auditResourceProtocolo, protocolo.ID)
	if err != nil {
		log.Warn().Err(err).Str("protocolo_id", protocolo.ID).Msg("failed to load protocol history")
	}
	return pages.ProtocoloDetailData{
		Protocolo:     protocolo,
		Transitions:   pages.TransitionOptions(protocolo),
		ConsultaURL:   services.ConsultaURL(getConfig(c).AppURL, protocolo),
		History:       history,
		EscrituraForm: escrituraInput(protocolo.DadosEscritura),
	}
}

func renderProtocoloDetail(c echo.Context, status int, data pages.ProtocoloDetailData) error {
	return render(c, status, pages.ProtocoloDetail(newPage(c, "Protocolo "+data.Protocolo.NumeroProtocolo), data))
}

// ProtocoloDetailHandler renders a protocol with its deed, properties, files and comments
func ProtocoloDetailHandler(c echo.Context) error {
	protocolo, err := loadProtocolo(c)
	if err != nil {
		return err
	}
	return renderProtocoloDetail(c, http.StatusOK, detailData(c, protocolo))
}

// protocoloInputFrom fills the edit form from a stored protocol
func protocoloInputFrom(p *models.Protocolo) services.ProtocoloInput {
	input := services.ProtocoloInput{
		Tipo:                   p.Tipo,
		TipoAtoID:              p.TipoAtoID,
		HorarioAgendamento:     deref(p.HorarioAgendamento),
		ResponsavelID:          deref(p.ResponsavelID),
		Observacoes:            deref(p.Observacoes),
		ObservacoesAtoNotarial: deref(p.ObservacoesAtoNotarial),
		Documentos:             append([]string(nil), p.ListaDocumentos...),
		Clientes:               pessoaRows(p.Clientes),
		TemAdvogado:            len(p.Advogados) > 0,
		Advogados:              pessoaRows(p.Advogados),
	}
	if p.DataAgendamento != nil {
		input.DataAgendamento = p.DataAgendamento.Format(services.DateLayout)
	}
	if !p.DepositoPrevio.IsZero() {
		input.DepositoPrevio = p.DepositoPrevio.StringFixed(2)
	}
	return input
}

func pessoaRows(clientes []models.Cliente) []services.PessoaInput {
	rows := make([]services.PessoaInput, 0, len(clientes))
	for i := range clientes {
		c := &clientes[i]
		rows = append(rows, services.PessoaInput{
			ID:        c.ID,
			Documento: services.FormatClienteDocumento(c),
			Nome:      c.Nome,
			Telefone:  deref(c.Telefone),
			Email:     deref(c.Email),
			Endereco:  deref(c.Endereco),
		})
	}
	return rows
}

func editFormData(p *models.Protocolo, input services.ProtocoloInput, errs services.FieldErrors) pages.ProtocoloFormData {
	return pages.ProtocoloFormData{
		Action:  "/protocolos/" + p.ID + "/editar",
		Tipo:    p.Tipo,
		Editing: true,
		Numero:  p.NumeroProtocolo,
		Form:    input,
		Errors:  errs,
	}
}

func refuseFinal(c echo.Context, p *models.Protocolo) error {
	setFlash(c, "error", "Protocolos "+strings.ToLower(models.StatusDisplayName(p.Status))+"s não podem ser alterados.")
	return redirectTo(c, "/protocolos/"+p.ID)
}

// ProtocoloEditHandler renders the edit form of an open protocol
func ProtocoloEditHandler(c echo.Context) error {
	protocolo, err := loadProtocolo(c)
	if err != nil {
		return err
	}
	if protocolo.IsFinal() {
		return refuseFinal(c, protocolo)
	}
	return renderProtocoloForm(c, http.StatusOK, "Editar protocolo", editFormData(protocolo, protocoloInputFrom(protocolo), nil))
}

// ProtocoloUpdateHandler saves the edit form, replacing the client and lawyer lists
func ProtocoloUpdateHandler(c echo.Context) error {
	protocolo, err := loadProtocolo(c)
	if err != nil {
		return err
	}
	if protocolo.IsFinal() {
		return refuseFinal(c, protocolo)
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseProtocoloForm(form)
	input.Tipo = protocolo.Tipo

	actor := middleware.GetCurrentUser(c)
	updated, errs, err := services.UpdateProtocolo(db.DB, actor, protocolo.ID, input)
	if err != nil {
		log.Error().Err(err).Str("protocolo_id", protocolo.ID).Msg("failed to update protocol")
		data := editFormData(protocolo, input, nil)
		data.ErrorGeral = "Não foi possível salvar o protocolo. Nenhuma alteração foi gravada; tente novamente."
		return renderProtocoloForm(c, http.StatusInternalServerError, "Editar protocolo", data)
	}
	if errs.Any() {
		return renderProtocoloForm(c, http.StatusUnprocessableEntity, "Editar protocolo", editFormData(protocolo, input, errs))
	}

	logAudit(c, models.AuditActionUpdate, auditResourceProtocolo, updated.ID, protocolo.NumeroProtocolo, "Protocolo atualizado", protocolo, updated)
	setFlash(c, "success", "Protocolo "+protocolo.NumeroProtocolo+" atualizado.")
	return redirectTo(c, "/protocolos/"+protocolo.ID)
}

// ProtocoloStatusHandler moves a protocol along the workflow
func ProtocoloStatusHandler(c echo.Context) error {
	id := c.Param("id")
	to := c.FormValue("status")

	protocolo, err := services.ChangeStatus(db.DB, id, to)
	switch {
	case errors.Is(err, services.ErrProtocoloNotFound):
		return notFound("Protocolo")
	case errors.Is(err, services.ErrInvalidStatusTransition):
		setFlash(c, "error", "Esta mudança de status não é permitida.")
		return redirectTo(c, "/protocolos/"+id)
	case err != nil:
		return serverError(c, err, "failed to change protocol status")
	}

	logAudit(c, models.AuditActionStatusChange, auditResourceProtocolo, protocolo.ID, protocolo.NumeroProtocolo,
		"Status alterado para "+models.StatusDisplayName(to), nil, map[string]string{"status": to})
	setFlash(c, "success", "Status alterado para "+models.StatusDisplayName(to)+".")
	return redirectTo(c, "/protocolos/"+protocolo.ID)
}

// ProtocoloCancelHandler cancels a protocol with its one-time justification
func ProtocoloCancelHandler(c echo.Context) error {
	id := c.Param("id")
	actor := middleware.GetCurrentUser(c)

	protocolo, errs, err := services.CancelProtocolo(db.DB, actor, id, c.FormValue("motivo"))
	switch {
	case errors.Is(err, services.ErrProtocoloNotFound):
		return notFound("Protocolo")
	case errors.Is(err, services.ErrAlreadyCancelled):
		setFlash(c, "error", "Este protocolo já foi cancelado.")
		return redirectTo(c, "/protocolos/"+id)
	case errors.Is(err, services.ErrInvalidStatusTransition):
		setFlash(c, "error", "Protocolos concluídos não podem ser cancelados.")
		return redirectTo(c, "/protocolos/"+id)
	case err != nil:
		return serverError(c, err, "failed to cancel protocol")
	}
	if errs.Any() {
		return rerenderDetail(c, errs, nil)
	}

	logAudit(c, models.AuditActionStatusChange, auditResourceProtocolo, protocolo.ID, protocolo.NumeroProtocolo,
		"Protocolo cancelado", nil, map[string]string{"status": models.StatusCancelado, "motivo": protocolo.JustificativaCancelamento.Motivo})
	setFlash(c, "success", "Protocolo "+protocolo.NumeroProtocolo+" cancelado.")
	return redirectTo(c, "/protocolos/"+protocolo.ID)
}

// rerenderDetail shows the detail page again with the errors of one of its forms
func rerenderDetail(c echo.Context, errs services.FieldErrors, adjust func(*pages.ProtocoloDetailData)) error {
	protocolo, err := loadProtocolo(c)
	if err != nil {
		return err
	}
	data := detailData(c, protocolo)
	data.Errors = errs
	if adjust != nil {
		adjust(&data)
	}
	return renderProtocoloDetail(c, http.StatusUnprocessableEntity, data)
}

// ProtocoloComentarioHandler appends an internal comment
func ProtocoloComentarioHandler(c echo.Context) error {
	id := c.Param("id")
	actor := middleware.GetCurrentUser(c)

	comentario, err := services.AddComentario(db.DB, actor, id, c.FormValue("texto"))
	var fieldErrs services.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		return rerenderDetail(c, fieldErrs, nil)
	case errors.Is(err, services.ErrProtocoloNotFound):
		return notFound("Protocolo")
	case err != nil:
		return serverError(c, err, "failed to add comment")
	}

	logAudit(c, models.AuditActionCreate, "ComentarioInterno", comentario.ID, "", "Comentário adicionado ao protocolo "+id, nil, nil)
	return redirectTo(c, "/protocolos/"+id+"#comentarios")
}

// ProtocoloEscrituraHandler creates or updates the deed details of a notarial act
func ProtocoloEscrituraHandler(c echo.Context) error {
	id := c.Param("id")
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Formulário inválido.")
	}
	input := services.ParseDadosEscrituraForm(form)

	dados, errs, err := services.SaveDadosEscritura(db.DB, id, input)
	switch {
	case errors.Is(err, services.ErrProtocoloNotFound):
		return notFound("Protocolo")
	case errors.Is(err, services.ErrNotAtoNotarial):
		setFlash(c, "error", "Dados de escritura só se aplicam a atos notariais.")
		return redirectTo(c, "/protocolos/"+id)
	case err != nil:
		return serverError(c, err, "failed to save deed details")
	}
	if errs.Any() {
		return rerenderDetail(c, errs, func(d *pages.ProtocoloDetailData) { d.EscrituraForm = input })
	}

	logAudit(c, models.AuditActionUpdate, auditResourceProtocolo, id, "", "Dados da escritura salvos", nil, dados)
	if dados.Finalizado {
		setFlash(c, "success", "Escritura salva e marcada como finalizada.")
	} else {
		setFlash(c, "success", "Dados da escritura salvos.")
	}
	return redirectTo(c, "/protocolos/"+id+"#escritura")
}

// ProtocoloImovelAddHandler attaches a property to the protocol
func ProtocoloImovelAddHandler(c echo.Context) error {
	id := c.Param("id")
	input := services.ImovelInput{
		CadastroMunicipal: c.FormValue("cadastro_municipal"),
		ValorVenal:        c.FormValue("valor_venal"),
		ValorNegocio:      c.FormValue("valor_negocio"),
		Descricao:         c.FormValue("descricao"),
	}

	imovel, errs, err := services.AddImovel(db.DB, id, input)
	switch {
	case errors.Is(err, services.ErrProtocoloNotFound):
		return notFound("Protocolo")
	case err != nil:
		return serverError(c, err, "failed to add property")
	}
	if errs.Any() {
		return rerenderDetail(c, errs, func(d *pages.ProtocoloDetailData) { d.ImovelForm = input })
	}

	logAudit(c, models.AuditActionCreate, "Imovel", imovel.ID, imovel.CadastroMunicipal, "Imóvel adicionado ao protocolo "+id, nil, imovel)
	return redirectTo(c, "/protocolos/"+id+"#imoveis")
}

// ProtocoloImovelDeleteHandler removes a property from the protocol
func ProtocoloImovelDeleteHandler(c echo.Context) error {
	id := c.Param("id")
	imovelID := c.Param("imovelId")

	err := services.RemoveImovel(db.DB, id, imovelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("Imóvel")
	}
	if err != nil {
		return serverError(c, err, "failed to remove property")
	}

	logAudit(c, models.AuditActionDelete, "Imovel", imovelID, "", "Imóvel removido do protocolo "+id, nil, nil)
	return redirectTo(c, "/protocolos/"+id+"#imoveis")
}

// ProtocoloArquivoUploadHandler stores a digitized document of the protocol
func ProtocoloArquivoUploadHandler(c echo.Context) error {
	id := c.Param("id")
	fileHeader, err := c.FormFile("arquivo")
	if err != nil {
		return rerenderDetail(c, services.FieldErrors{"arquivo": "Selecione um arquivo."}, nil)
	}

	actor := middleware.GetCurrentUser(c)
	arquivo, err := services.SaveArquivo(c.Request().Context(), db.DB, services.Storage, actor, id, fileHeader)
	switch {
	case errors.Is(err, services.ErrArquivoInvalido):
		return rerenderDetail(c, services.FieldErrors{"arquivo": err.Error()}, nil)
	case errors.Is(err, services.ErrProtocoloNotFound):
		return notFound("Protocolo")
	case err != nil:
		return serverError(c, err, "failed to upload file")
	}

	logAudit(c, models.AuditActionCreate, "ArquivoDigitalizado", arquivo.ID, arquivo.NomeOriginal, "Arquivo enviado ao protocolo "+id, nil, arquivo)
	setFlash(c, "success", "Arquivo "+arquivo.NomeOriginal+" enviado.")
	return redirectTo(c, "/protocolos/"+id+"#arquivos")
}

// ProtocoloArquivoDownloadHandler streams a stored document
func ProtocoloArquivoDownloadHandler(c echo.Context) error {
	arquivo, err := services.GetArquivo(db.DB, c.Param("id"), c.Param("arquivoId"))
	if errors.Is(err, services.ErrArquivoNotFound) {
		return notFound("Arquivo")
	}
	if err != nil {
		return serverError(c, err, "failed to load file")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), arquivo.StorageKey)
	if err != nil {
		return serverError(c, err, "failed to read stored file")
	}
	defer reader.Close()

	if arquivo.MimeType != "" {
		contentType = arquivo.MimeType
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+arquivo.NomeOriginal+`"`)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response().Writer, reader)
	return err
}

// ProtocoloArquivoDeleteHandler removes a stored document
func ProtocoloArquivoDeleteHandler(c echo.Context) error {
	id := c.Param("id")
	arquivo, err := services.DeleteArquivo(c.Request().Context(), db.DB, services.Storage, id, c.Param("arquivoId"))
	if errors.Is(err, services.ErrArquivoNotFound) {
		return notFound("Arquivo")
	}
	if err != nil {
		return serverError(c, err, "failed to delete file")
	}

	logAudit(c, models.AuditActionDelete, "ArquivoDigitalizado", arquivo.ID, arquivo.NomeOriginal, "Arquivo excluído do protocolo "+id, arquivo, nil)
	setFlash(c, "success", "Arquivo "+arquivo.NomeOriginal+" excluído.")
	return redirectTo(c, "/protocolos/"+id+"#arquivos")
}

// ProtocoloComprovanteHandler prints the protocol receipt as PDF
func ProtocoloComprovanteHandler(c echo.Context) error {
	protocolo, err := loadProtocolo(c)
	if err != nil {
		return err
	}
	tabelionato, err := services.GetTabelionato(db.DB)
	if err != nil {
		return serverError(c, err, "failed to load office settings")
	}

	cfg := getConfig(c)
	data := services.NewComprovanteData(tabelionato, protocolo, cfg.AppURL, time.Now())
	pdf, err := services.GenerateComprovantePDF(c.Request().Context(), data, services.DefaultPDFOptions(cfg.ChromePath))
	if err != nil {
		return serverError(c, err, "failed to generate receipt")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="protocolo-`+protocolo.NumeroProtocolo+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ProtocoloDeleteHandler removes a protocol with everything it owns
func ProtocoloDeleteHandler(c echo.Context) error {
	protocolo, keys, err := services.DeleteProtocolo(db.DB, c.Param("id"))
	if errors.Is(err, services.ErrProtocoloNotFound) {
		return notFound("Protocolo")
	}
	if err != nil {
		return serverError(c, err, "failed to delete protocol")
	}
	services.DeleteStoredFiles(c.Request().Context(), services.Storage, keys)

	logAudit(c, models.AuditActionDelete, auditResourceProtocolo, protocolo.ID, protocolo.NumeroProtocolo, "Protocolo excluído", protocolo, nil)
	setFlash(c, "success", "Protocolo "+protocolo.NumeroProtocolo+" excluído.")
	return redirectTo(c, "/protocolos")
}

// ConsultaHandler is the public status page reached through the receipt link
func ConsultaHandler(c echo.Context) error {
	protocolo, err := services.GetProtocoloByHash(db.DB, c.Param("hash"))
	if errors.Is(err, services.ErrProtocoloNotFound) {
		return notFound("Protocolo")
	}
	if err != nil {
		return serverError(c, err, "failed to load protocol")
	}
	tabelionato, err := services.GetTabelionato(db.DB)
	if err != nil {
		return serverError(c, err, "failed to load office settings")
	}
	return render(c, http.StatusOK, pages.Consulta(newPage(c, "Consulta de protocolo"), protocolo, tabelionato))
}
