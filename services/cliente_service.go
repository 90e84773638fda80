package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tabelionato_app_go/models"

	"gorm.io/gorm"
)

// ErrClienteNotFound is returned when the client does not exist
var ErrClienteNotFound = errors.New("cliente não encontrado")

// ClienteInput is the submitted client registry form
type ClienteInput struct {
	Nome       string
	TipoPessoa string
	CPF        string
	CNPJ       string
	Telefone   string
	Email      string
	Endereco   string
}

// ParseClienteForm reads the client registry form
func ParseClienteForm(form url.Values) ClienteInput {
	return ClienteInput{
		Nome:       form.Get("nome"),
		TipoPessoa: strings.TrimSpace(form.Get("tipo_pessoa")),
		CPF:        form.Get("cpf"),
		CNPJ:       form.Get("cnpj"),
		Telefone:   form.Get("telefone"),
		Email:      form.Get("email"),
		Endereco:   form.Get("endereco"),
	}
}

// SaveCliente validates and creates or updates a client from the registry
// form. Pass a nil cliente to create.
func SaveCliente(db *gorm.DB, cliente *models.Cliente, input ClienteInput) (*models.Cliente, FieldErrors, error) {
	errs := FieldErrors{}

	nome := SanitizeText(input.Nome)
	if nome == "" {
		errs.Add("nome", "Informe o nome.")
	}
	if !models.IsValidTipoPessoa(input.TipoPessoa) {
		errs.Add("tipo_pessoa", "Selecione o tipo de pessoa.")
	}

	cpf := NormalizeDocumento(input.CPF)
	cnpj := NormalizeDocumento(input.CNPJ)
	switch input.TipoPessoa {
	case models.TipoPessoaFisica:
		if cnpj != "" {
			errs.Add("cnpj", "Pessoa física não deve ter CNPJ preenchido.")
		}
		if cpf == "" {
			errs.Add("cpf", "CPF é obrigatório para pessoa física.")
		} else if len(cpf) != CPFLength {
			errs.Add("cpf", "CPF deve ter 11 dígitos.")
		}
	case models.TipoPessoaJuridica:
		if cpf != "" {
			errs.Add("cpf", "Pessoa jurídica não deve ter CPF preenchido.")
		}
		if cnpj == "" {
			errs.Add("cnpj", "CNPJ é obrigatório para pessoa jurídica.")
		} else if len(cnpj) != CNPJLength {
			errs.Add("cnpj", "CNPJ deve ter 14 dígitos.")
		}
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != "" && !IsValidEmail(email) {
		errs.Add("email", "Informe um e-mail válido.")
	}

	var currentID string
	if cliente != nil {
		currentID = cliente.ID
	}
	if cpf != "" && !errs.Has("cpf") {
		if taken, err := documentoEmUso(db, "cpf", cpf, currentID); err != nil {
			return nil, nil, err
		} else if taken {
			errs.Add("cpf", "Já existe um cliente com este CPF.")
		}
	}
	if cnpj != "" && !errs.Has("cnpj") {
		if taken, err := documentoEmUso(db, "cnpj", cnpj, currentID); err != nil {
			return nil, nil, err
		} else if taken {
			errs.Add("cnpj", "Já existe um cliente com este CNPJ.")
		}
	}

	if errs.Any() {
		return nil, errs, nil
	}

	if cliente == nil {
		cliente = &models.Cliente{}
	}
	cliente.Nome = nome
	cliente.TipoPessoa = input.TipoPessoa
	cliente.CPF = ptrIfNotEmpty(cpf)
	cliente.CNPJ = ptrIfNotEmpty(cnpj)
	cliente.Telefone = ptrIfNotEmpty(strings.TrimSpace(input.Telefone))
	cliente.Email = ptrIfNotEmpty(email)
	cliente.Endereco = optionalText(input.Endereco)

	if err := db.Save(cliente).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save client: %w", err)
	}
	return cliente, nil, nil
}

func documentoEmUso(db *gorm.DB, column, documento, excludeID string) (bool, error) {
	query := db.Model(&models.Cliente{}).Where(column+" = ?", documento)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return count > 0, nil
}

// GetClienteByID fetches a single client
func GetClienteByID(db *gorm.DB, id string) (*models.Cliente, error) {
	var cliente models.Cliente
	if err := db.First(&cliente, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClienteNotFound
		}
		return nil, err
	}
	return &cliente, nil
}

// ListClientes returns a page of clients matching the search on name or
// document, ordered by name
func ListClientes(db *gorm.DB, search string, page, limit int) ([]models.Cliente, int64, error) {
	if page < 1 {
		page = 1
	}
	query := clienteSearch(db, search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	var clientes []models.Cliente
	err := query.Order("nome asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&clientes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	return clientes, total, nil
}

// AllClientes returns every client matching the search, for exports
func AllClientes(db *gorm.DB, search string) ([]models.Cliente, error) {
	var clientes []models.Cliente
	err := clienteSearch(db, search).Order("nome asc").Find(&clientes).Error
	return clientes, err
}

func clienteSearch(db *gorm.DB, search string) *gorm.DB {
	query := db.Model(&models.Cliente{})
	search = strings.TrimSpace(search)
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	if digits := NormalizeDocumento(search); digits != "" {
		docPattern := "%" + digits + "%"
		return query.Where("nome LIKE ? OR cpf LIKE ? OR cnpj LIKE ?", pattern, docPattern, docPattern)
	}
	return query.Where("nome LIKE ? OR email LIKE ?", pattern, pattern)
}

// GetClienteProtocolos returns the protocols a client takes part in, as
// client or as lawyer, newest first
func GetClienteProtocolos(db *gorm.DB, clienteID string) ([]models.Protocolo, error) {
	var protocolos []models.Protocolo
	err := db.Preload("TipoAto").
		Where("id IN (SELECT protocolo_id FROM protocolo_clientes WHERE cliente_id = ?) OR id IN (SELECT protocolo_id FROM protocolo_advogados WHERE cliente_id = ?)", clienteID, clienteID).
		Order("created_at DESC").
		Find(&protocolos).Error
	return protocolos, err
}

// LookupClienteByDocumento finds a client by CPF or CNPJ, in any formatting.
// Returns nil without error when there is no match.
func LookupClienteByDocumento(db *gorm.DB, documento string) (*models.Cliente, error) {
	digits := NormalizeDocumento(documento)
	if digits == "" {
		return nil, nil
	}

	var cliente models.Cliente
	err := db.Where("cpf = ? OR cnpj = ?", digits, digits).First(&cliente).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	return &cliente, nil
}

// DeleteCliente removes a client and its protocol links. The protocols stay.
func DeleteCliente(db *gorm.DB, id string) (*models.Cliente, error) {
	cliente, err := GetClienteByID(db, id)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM protocolo_clientes WHERE cliente_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM protocolo_advogados WHERE cliente_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(cliente).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}
	return cliente, nil
}
