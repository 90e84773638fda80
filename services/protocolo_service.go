package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"tabelionato_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrProtocoloNotFound is returned when the protocol does not exist
	ErrProtocoloNotFound = errors.New("protocolo não encontrado")
	// ErrInvalidStatusTransition is returned for a status change the workflow does not allow
	ErrInvalidStatusTransition = errors.New("transição de status não permitida")
	// ErrAlreadyCancelled is returned when a cancellation justification already exists
	ErrAlreadyCancelled = errors.New("protocolo já cancelado")
	// ErrNotAtoNotarial is returned when deed data is sent for a certificate
	ErrNotAtoNotarial = errors.New("dados de escritura só se aplicam a atos notariais")
)

// ProtocoloInput is the submitted protocol form
type ProtocoloInput struct {
	Tipo                   string
	TipoAtoID              string
	DataAgendamento        string
	HorarioAgendamento     string
	ResponsavelID          string
	DepositoPrevio         string
	Observacoes            string
	ObservacoesAtoNotarial string
	Documentos             []string
	Clientes               []PessoaInput
	TemAdvogado            bool
	Advogados              []PessoaInput
}

// ParseProtocoloForm reads the protocol form, including the repeated
// person rows and the documento_item[] checklist
func ParseProtocoloForm(form url.Values) ProtocoloInput {
	documentos := form["documento_item[]"]
	if documentos == nil {
		documentos = form["documento_item"]
	}
	return ProtocoloInput{
		Tipo:                   strings.TrimSpace(form.Get("tipo")),
		TipoAtoID:              strings.TrimSpace(form.Get("tipo_ato")),
		DataAgendamento:        strings.TrimSpace(form.Get("data_agendamento")),
		HorarioAgendamento:     strings.TrimSpace(form.Get("horario_agendamento")),
		ResponsavelID:          strings.TrimSpace(form.Get("responsavel")),
		DepositoPrevio:         strings.TrimSpace(form.Get("deposito_previo")),
		Observacoes:            form.Get("observacoes"),
		ObservacoesAtoNotarial: form.Get("observacoes_ato_notarial"),
		Documentos:             documentos,
		Clientes:               ParsePessoaRows(form, PapelCliente),
		TemAdvogado:            isChecked(form.Get("tem_advogado")),
		Advogados:              ParsePessoaRows(form, PapelAdvogado),
	}
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "sim":
		return true
	}
	return false
}

// protocoloFields are the validated scalar fields
type protocoloFields struct {
	TipoAtoID              string
	DataAgendamento        *time.Time
	HorarioAgendamento     *string
	ResponsavelID          *string
	DepositoPrevio         decimal.Decimal
	Observacoes            *string
	ObservacoesAtoNotarial *string
	Documentos             models.StringList
}

// ValidateProtocoloInput checks the scalar fields without writing anything
func ValidateProtocoloInput(db *gorm.DB, input ProtocoloInput) FieldErrors {
	_, errs := validateProtocolo(db, input, "")
	return errs
}

// validateProtocolo also accepts an inactive act type when it is the one
// the protocol already uses
func validateProtocolo(db *gorm.DB, input ProtocoloInput, currentTipoAtoID string) (*protocoloFields, FieldErrors) {
	errs := FieldErrors{}
	fields := &protocoloFields{
		Observacoes:            optionalText(input.Observacoes),
		ObservacoesAtoNotarial: optionalText(input.ObservacoesAtoNotarial),
		Documentos:             BuildListaDocumentos(input.Documentos),
	}

	if input.Tipo != "" && !models.IsValidTipoProtocolo(input.Tipo) {
		errs.Add("tipo", "Tipo de protocolo inválido.")
	}

	if input.TipoAtoID == "" {
		errs.Add("tipo_ato", "Selecione o tipo de ato.")
	} else {
		var tipoAto models.TipoAto
		if err := db.First(&tipoAto, "id = ?", input.TipoAtoID).Error; err != nil {
			errs.Add("tipo_ato", "Tipo de ato não encontrado.")
		} else if !tipoAto.Ativo && tipoAto.ID != currentTipoAtoID {
			errs.Add("tipo_ato", "Este tipo de ato está inativo.")
		} else {
			fields.TipoAtoID = tipoAto.ID
		}
	}

	if input.DataAgendamento != "" {
		d, err := ParseDate(input.DataAgendamento)
		if err != nil {
			errs.Add("data_agendamento", "Informe uma data válida (AAAA-MM-DD).")
		} else {
			fields.DataAgendamento = &d
		}
	}

	if input.HorarioAgendamento != "" {
		h, err := ParseClock(input.HorarioAgendamento)
		if err != nil {
			errs.Add("horario_agendamento", "Informe um horário válido (HH:MM).")
		} else {
			fields.HorarioAgendamento = &h
		}
	}

	if input.ResponsavelID != "" {
		var responsavel models.User
		if err := db.First(&responsavel, "id = ?", input.ResponsavelID).Error; err != nil {
			errs.Add("responsavel", "Usuário responsável não encontrado.")
		} else {
			fields.ResponsavelID = &responsavel.ID
		}
	}

	deposito, err := ParseMoney(input.DepositoPrevio)
	if err != nil {
		errs.Add("deposito_previo", "Informe um valor válido.")
	} else if deposito.IsNegative() {
		errs.Add("deposito_previo", "O depósito não pode ser negativo.")
	} else {
		fields.DepositoPrevio = deposito
	}

	if errs.Any() {
		return nil, errs
	}
	return fields, nil
}

// BuildListaDocumentos keeps the trimmed, non-empty items in submitted order
func BuildListaDocumentos(items []string) models.StringList {
	lista := make(models.StringList, 0, len(items))
	for _, item := range items {
		if clean := SanitizeText(item); clean != "" {
			lista = append(lista, clean)
		}
	}
	return lista
}

// CreateProtocolo validates and persists a new protocol together with its
// people and checklist in a single transaction
func CreateProtocolo(db *gorm.DB, actor *models.User, input ProtocoloInput) (*models.Protocolo, FieldErrors, error) {
	fields, errs := validateProtocolo(db, input, "")
	if errs.Any() {
		return nil, errs, nil
	}

	tipo := input.Tipo
	if tipo == "" {
		tipo = models.TipoProtocoloCertidao
	}

	protocolo := &models.Protocolo{
		Tipo:        tipo,
		Status:      models.StatusEmAndamento,
		CriadoPorID: actor.ID,
	}
	applyProtocoloFields(protocolo, fields)
	if protocolo.ResponsavelID == nil {
		protocolo.ResponsavelID = &actor.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Clientes", "Advogados").Create(protocolo).Error; err != nil {
			return fmt.Errorf("failed to create protocol: %w", err)
		}
		return attachPessoas(tx, protocolo, input)
	})
	if err != nil {
		return nil, nil, err
	}

	return protocolo, nil, nil
}

// UpdateProtocolo validates and saves the edited protocol; the submitted
// client and lawyer lists replace the stored association sets
func UpdateProtocolo(db *gorm.DB, actor *models.User, protocoloID string, input ProtocoloInput) (*models.Protocolo, FieldErrors, error) {
	var protocolo models.Protocolo
	if err := db.First(&protocolo, "id = ?", protocoloID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProtocoloNotFound
		}
		return nil, nil, fmt.Errorf("failed to load protocol: %w", err)
	}

	fields, errs := validateProtocolo(db, input, protocolo.TipoAtoID)
	if errs.Any() {
		return nil, errs, nil
	}

	responsavelAtual := protocolo.ResponsavelID
	applyProtocoloFields(&protocolo, fields)
	if protocolo.ResponsavelID == nil {
		protocolo.ResponsavelID = responsavelAtual
	}
	if protocolo.ResponsavelID == nil {
		protocolo.ResponsavelID = &actor.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Clientes", "Advogados", "CriadoPorID", "Tipo", "NumeroProtocolo", "HashAcessoPublico").
			Save(&protocolo).Error; err != nil {
			return fmt.Errorf("failed to update protocol: %w", err)
		}
		return attachPessoas(tx, &protocolo, input)
	})
	if err != nil {
		return nil, nil, err
	}

	return &protocolo, nil, nil
}

func applyProtocoloFields(p *models.Protocolo, f *protocoloFields) {
	p.TipoAtoID = f.TipoAtoID
	p.DataAgendamento = f.DataAgendamento
	p.HorarioAgendamento = f.HorarioAgendamento
	p.ResponsavelID = f.ResponsavelID
	p.DepositoPrevio = f.DepositoPrevio
	p.Observacoes = f.Observacoes
	p.ObservacoesAtoNotarial = f.ObservacoesAtoNotarial
	p.ListaDocumentos = f.Documentos
}

// attachPessoas reconciles both person lists and replaces the associations.
// Without tem_advogado the lawyer set is cleared.
func attachPessoas(tx *gorm.DB, p *models.Protocolo, input ProtocoloInput) error {
	clientes, err := ReconcilePessoas(tx, input.Clientes, false)
	if err != nil {
		return fmt.Errorf("clientes: %w", err)
	}
	if err := replaceAssociation(tx, p, "Clientes", clientes); err != nil {
		return err
	}
	p.Clientes = clientes

	if !input.TemAdvogado {
		if err := tx.Model(p).Association("Advogados").Clear(); err != nil {
			return fmt.Errorf("failed to clear lawyers: %w", err)
		}
		p.Advogados = nil
		return nil
	}

	advogados, err := ReconcilePessoas(tx, input.Advogados, true)
	if err != nil {
		return fmt.Errorf("advogados: %w", err)
	}
	if err := replaceAssociation(tx, p, "Advogados", advogados); err != nil {
		return err
	}
	p.Advogados = advogados
	return nil
}

func replaceAssociation(tx *gorm.DB, p *models.Protocolo, name string, pessoas []models.Cliente) error {
	assoc := tx.Model(p).Association(name)
	var err error
	if len(pessoas) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(pessoas)
	}
	if err != nil {
		return fmt.Errorf("failed to attach %s: %w", strings.ToLower(name), err)
	}
	return nil
}

// GetProtocolo loads a protocol with everything the detail page shows
func GetProtocolo(db *gorm.DB, id string) (*models.Protocolo, error) {
	var protocolo models.Protocolo
	err := db.Preload("TipoAto").
		Preload("CriadoPor").
		Preload("Responsavel").
		Preload("Clientes", func(db *gorm.DB) *gorm.DB { return db.Order("clientes.nome") }).
		Preload("Advogados", func(db *gorm.DB) *gorm.DB { return db.Order("clientes.nome") }).
		Preload("DadosEscritura").
		Preload("Imoveis", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Comentarios", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comentarios.Usuario").
		Preload("JustificativaCancelamento.CanceladoPor").
		Preload("Arquivos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Arquivos.EnviadoPor").
		First(&protocolo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProtocoloNotFound
		}
		return nil, fmt.Errorf("failed to load protocol: %w", err)
	}
	return &protocolo, nil
}

// GetProtocoloByHash loads a protocol by its public access token
func GetProtocoloByHash(db *gorm.DB, hash string) (*models.Protocolo, error) {
	var protocolo models.Protocolo
	if err := db.Preload("TipoAto").First(&protocolo, "hash_acesso_publico = ?", hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProtocoloNotFound
		}
		return nil, fmt.Errorf("failed to load protocol: %w", err)
	}
	return &protocolo, nil
}

// ProtocoloFilters contains filter options for the protocol list
type ProtocoloFilters struct {
	Status string
	Tipo   string
	Search string
}

// ListProtocolos returns a page of protocols, newest first
func ListProtocolos(db *gorm.DB, filters ProtocoloFilters, page, limit int) ([]models.Protocolo, int64, error) {
	if page < 1 {
		page = 1
	}
	query := db.Model(&models.Protocolo{})

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Tipo != "" {
		query = query.Where("tipo = ?", filters.Tipo)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		docPattern := "%" + NormalizeDocumento(search) + "%"
		if NormalizeDocumento(search) == "" {
			docPattern = pattern
		}
		query = query.Where(
			"numero_protocolo LIKE ? OR id IN (SELECT pc.protocolo_id FROM protocolo_clientes pc JOIN clientes c ON c.id = pc.cliente_id WHERE c.nome LIKE ? OR c.cpf LIKE ? OR c.cnpj LIKE ?)",
			pattern, pattern, docPattern, docPattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count protocols: %w", err)
	}

	var protocolos []models.Protocolo
	err := query.Preload("TipoAto").Preload("Responsavel").Preload("Clientes").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&protocolos).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list protocols: %w", err)
	}
	return protocolos, total, nil
}

// allowedTransitions lists the status changes the workflow accepts
// (cancellation goes through CancelProtocolo)
var allowedTransitions = map[string][]string{
	models.StatusEmAndamento:         {models.StatusEscrituraFinalizada, models.StatusConcluido},
	models.StatusEscrituraFinalizada: {models.StatusConcluido},
}

// CanTransition reports whether a protocol may move to the given status
func CanTransition(p *models.Protocolo, to string) bool {
	for _, s := range allowedTransitions[p.Status] {
		if s == to {
			if to == models.StatusEscrituraFinalizada {
				return p.IsAtoNotarial() && p.DadosEscritura != nil && p.DadosEscritura.Finalizado
			}
			return true
		}
	}
	return false
}

// ChangeStatus moves a protocol along the workflow
func ChangeStatus(db *gorm.DB, protocoloID, to string) (*models.Protocolo, error) {
	var protocolo models.Protocolo
	if err := db.Preload("DadosEscritura").First(&protocolo, "id = ?", protocoloID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProtocoloNotFound
		}
		return nil, fmt.Errorf("failed to load protocol: %w", err)
	}
	if !models.IsValidProtocoloStatus(to) || !CanTransition(&protocolo, to) {
		return nil, ErrInvalidStatusTransition
	}

	if err := db.Model(&protocolo).Update("status", to).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	protocolo.Status = to
	return &protocolo, nil
}

// CancelProtocolo cancels a protocol and records the one-time justification
func CancelProtocolo(db *gorm.DB, actor *models.User, protocoloID, motivo string) (*models.Protocolo, FieldErrors, error) {
	motivo = SanitizeText(motivo)
	if motivo == "" {
		return nil, FieldErrors{"motivo": "Informe o motivo do cancelamento."}, nil
	}

	var protocolo models.Protocolo
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("JustificativaCancelamento").First(&protocolo, "id = ?", protocoloID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProtocoloNotFound
			}
			return err
		}
		if protocolo.JustificativaCancelamento != nil || protocolo.Status == models.StatusCancelado {
			return ErrAlreadyCancelled
		}
		if protocolo.Status == models.StatusConcluido {
			return ErrInvalidStatusTransition
		}

		justificativa := &models.JustificativaCancelamento{
			ProtocoloID:    protocolo.ID,
			Motivo:         motivo,
			CanceladoPorID: actor.ID,
		}
		if err := tx.Create(justificativa).Error; err != nil {
			return fmt.Errorf("failed to record cancellation: %w", err)
		}
		if err := tx.Model(&protocolo).Update("status", models.StatusCancelado).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		protocolo.Status = models.StatusCancelado
		protocolo.JustificativaCancelamento = justificativa
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &protocolo, nil, nil
}

// AddComentario appends an internal comment
func AddComentario(db *gorm.DB, actor *models.User, protocoloID, texto string) (*models.ComentarioInterno, error) {
	texto = SanitizeText(texto)
	if texto == "" {
		return nil, FieldErrors{"texto": "O comentário não pode ficar vazio."}
	}
	if err := ensureProtocolo(db, protocoloID); err != nil {
		return nil, err
	}
	comentario := &models.ComentarioInterno{
		ProtocoloID: protocoloID,
		UsuarioID:   actor.ID,
		Texto:       texto,
	}
	if err := db.Create(comentario).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comentario, nil
}

// DadosEscrituraInput is the submitted deed form
type DadosEscrituraInput struct {
	Livro                   string
	Folha                   string
	DataEscritura           string
	ComunicacaoCOAF         bool
	RelatorioCOAF           string
	DataComunicacaoCOAF     string
	NumeroComunicacaoCOAF   string
	DocumentosDigitalizados bool
	Emolumentos             string
	Finalizado              bool
}

// ParseDadosEscrituraForm reads the deed form
func ParseDadosEscrituraForm(form url.Values) DadosEscrituraInput {
	return DadosEscrituraInput{
		Livro:                   strings.TrimSpace(form.Get("livro")),
		Folha:                   strings.TrimSpace(form.Get("folha")),
		DataEscritura:           strings.TrimSpace(form.Get("data_escritura")),
		ComunicacaoCOAF:         isChecked(form.Get("comunicacao_coaf")),
		RelatorioCOAF:           form.Get("relatorio_coaf"),
		DataComunicacaoCOAF:     strings.TrimSpace(form.Get("data_comunicacao_coaf")),
		NumeroComunicacaoCOAF:   strings.TrimSpace(form.Get("numero_comunicacao_coaf")),
		DocumentosDigitalizados: isChecked(form.Get("documentos_digitalizados")),
		Emolumentos:             strings.TrimSpace(form.Get("emolumentos")),
		Finalizado:              isChecked(form.Get("finalizado")),
	}
}

// SaveDadosEscritura creates or updates the deed details of a notarial act.
// Marking the deed finalized moves an in-progress protocol to
// ESCRITURA_FINALIZADA.
func SaveDadosEscritura(db *gorm.DB, protocoloID string, input DadosEscrituraInput) (*models.DadosEscritura, FieldErrors, error) {
	var protocolo models.Protocolo
	if err := db.Preload("DadosEscritura").First(&protocolo, "id = ?", protocoloID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProtocoloNotFound
		}
		return nil, nil, fmt.Errorf("failed to load protocol: %w", err)
	}
	if !protocolo.IsAtoNotarial() {
		return nil, nil, ErrNotAtoNotarial
	}

	errs := FieldErrors{}
	if input.Livro == "" {
		errs.Add("livro", "Informe o livro.")
	}
	if input.Folha == "" {
		errs.Add("folha", "Informe a folha.")
	}
	dataEscritura, err := ParseDate(input.DataEscritura)
	if err != nil {
		errs.Add("data_escritura", "Informe uma data válida (AAAA-MM-DD).")
	}
	var dataCOAF *time.Time
	if input.DataComunicacaoCOAF != "" {
		d, err := ParseDate(input.DataComunicacaoCOAF)
		if err != nil {
			errs.Add("data_comunicacao_coaf", "Informe uma data válida (AAAA-MM-DD).")
		} else {
			dataCOAF = &d
		}
	}
	emolumentos, err := ParseMoney(input.Emolumentos)
	if err != nil || input.Emolumentos == "" {
		errs.Add("emolumentos", "Informe o valor dos emolumentos.")
	}
	if errs.Any() {
		return nil, errs, nil
	}

	dados := protocolo.DadosEscritura
	if dados == nil {
		dados = &models.DadosEscritura{ProtocoloID: protocolo.ID}
	}
	dados.Livro = input.Livro
	dados.Folha = input.Folha
	dados.DataEscritura = dataEscritura
	dados.ComunicacaoCOAF = input.ComunicacaoCOAF
	dados.RelatorioCOAF = optionalText(input.RelatorioCOAF)
	dados.DataComunicacaoCOAF = dataCOAF
	dados.NumeroComunicacaoCOAF = ptrIfNotEmpty(input.NumeroComunicacaoCOAF)
	dados.DocumentosDigitalizados = dados.DocumentosDigitalizados || input.DocumentosDigitalizados
	dados.Emolumentos = emolumentos
	dados.Finalizado = input.Finalizado

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(dados).Error; err != nil {
			return fmt.Errorf("failed to save deed details: %w", err)
		}
		if dados.Finalizado && protocolo.Status == models.StatusEmAndamento {
			if err := tx.Model(&protocolo).Update("status", models.StatusEscrituraFinalizada).Error; err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return dados, nil, nil
}

// ImovelInput is the submitted property form
type ImovelInput struct {
	CadastroMunicipal string
	ValorVenal        string
	ValorNegocio      string
	Descricao         string
}

// AddImovel attaches a property to a protocol
func AddImovel(db *gorm.DB, protocoloID string, input ImovelInput) (*models.Imovel, FieldErrors, error) {
	if err := ensureProtocolo(db, protocoloID); err != nil {
		return nil, nil, err
	}

	errs := FieldErrors{}
	cadastro := strings.TrimSpace(input.CadastroMunicipal)
	if cadastro == "" {
		errs.Add("cadastro_municipal", "Informe o cadastro municipal.")
	}
	valorVenal, err := ParseMoney(input.ValorVenal)
	if err != nil || strings.TrimSpace(input.ValorVenal) == "" {
		errs.Add("valor_venal", "Informe o valor venal.")
	}
	valorNegocio, err := ParseMoney(input.ValorNegocio)
	if err != nil || strings.TrimSpace(input.ValorNegocio) == "" {
		errs.Add("valor_negocio", "Informe o valor do negócio.")
	}
	descricao := SanitizeText(input.Descricao)
	if descricao == "" {
		errs.Add("descricao", "Descreva o imóvel.")
	}
	if errs.Any() {
		return nil, errs, nil
	}

	imovel := &models.Imovel{
		ProtocoloID:       protocoloID,
		CadastroMunicipal: cadastro,
		ValorVenal:        valorVenal,
		ValorNegocio:      valorNegocio,
		Descricao:         descricao,
	}
	if err := db.Create(imovel).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to add property: %w", err)
	}
	return imovel, nil, nil
}

// RemoveImovel deletes a property of the protocol
func RemoveImovel(db *gorm.DB, protocoloID, imovelID string) error {
	result := db.Where("id = ? AND protocolo_id = ?", imovelID, protocoloID).Delete(&models.Imovel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProtocolo removes a protocol and everything it owns. Clients and
// users are only unlinked. Returns the storage keys of removed files.
func DeleteProtocolo(db *gorm.DB, protocoloID string) (*models.Protocolo, []string, error) {
	var protocolo models.Protocolo
	var keys []string

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Arquivos").First(&protocolo, "id = ?", protocoloID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProtocoloNotFound
			}
			return err
		}
		for _, a := range protocolo.Arquivos {
			keys = append(keys, a.StorageKey)
		}

		owned := []interface{}{
			&models.DadosEscritura{},
			&models.Imovel{},
			&models.ComentarioInterno{},
			&models.JustificativaCancelamento{},
			&models.ArquivoDigitalizado{},
		}
		for _, m := range owned {
			if err := tx.Where("protocolo_id = ?", protocolo.ID).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to delete %T: %w", m, err)
			}
		}
		if err := tx.Model(&protocolo).Association("Clientes").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&protocolo).Association("Advogados").Clear(); err != nil {
			return err
		}
		return tx.Delete(&protocolo).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &protocolo, keys, nil
}

func ensureProtocolo(db *gorm.DB, protocoloID string) error {
	var count int64
	if err := db.Model(&models.Protocolo{}).Where("id = ?", protocoloID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load protocol: %w", err)
	}
	if count == 0 {
		return ErrProtocoloNotFound
	}
	return nil
}
