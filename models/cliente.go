package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person classification
const (
	TipoPessoaFisica   = "FISICA"
	TipoPessoaJuridica = "JURIDICA"
)

var (
	// ErrFisicaComCNPJ is returned when an individual carries a company document
	ErrFisicaComCNPJ = errors.New("pessoa física não deve ter CNPJ preenchido")
	// ErrJuridicaComCPF is returned when a company carries an individual document
	ErrJuridicaComCPF = errors.New("pessoa jurídica não deve ter CPF preenchido")
	// ErrJuridicaSemCNPJ is returned when a company has no company document
	ErrJuridicaSemCNPJ = errors.New("CNPJ é obrigatório para pessoa jurídica")
	// ErrTipoPessoaInvalido is returned for an unknown classification
	ErrTipoPessoaInvalido = errors.New("tipo de pessoa inválido")
)

// Cliente is an individual or a company known to the office.
// CPF and CNPJ are stored digits-only; nil means absent.
type Cliente struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nome       string  `gorm:"size:255;not null" json:"nome"`
	TipoPessoa string  `gorm:"size:10;not null;default:FISICA" json:"tipo_pessoa"`
	CPF        *string `gorm:"size:14;uniqueIndex" json:"cpf,omitempty"`
	CNPJ       *string `gorm:"size:18;uniqueIndex" json:"cnpj,omitempty"`
	Telefone   *string `gorm:"size:20" json:"telefone,omitempty"`
	Email      *string `json:"email,omitempty"`
	Endereco   *string `gorm:"type:text" json:"endereco,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Cliente) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave enforces the document invariants on every write
func (c *Cliente) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}

// Validate checks the cross-field document rules.
// A company always needs a CNPJ; an individual without CPF is allowed here
// because reconciled rows may have no usable document. The registry form
// requires the CPF for individuals.
func (c *Cliente) Validate() error {
	switch c.TipoPessoa {
	case TipoPessoaFisica:
		if hasValue(c.CNPJ) {
			return ErrFisicaComCNPJ
		}
	case TipoPessoaJuridica:
		if hasValue(c.CPF) {
			return ErrJuridicaComCPF
		}
		if !hasValue(c.CNPJ) {
			return ErrJuridicaSemCNPJ
		}
	default:
		return ErrTipoPessoaInvalido
	}
	return nil
}

// Documento returns the document number matching the classification
func (c *Cliente) Documento() string {
	if c.TipoPessoa == TipoPessoaJuridica {
		return deref(c.CNPJ)
	}
	return deref(c.CPF)
}

// TipoPessoaDisplayName returns the human-readable classification
func (c *Cliente) TipoPessoaDisplayName() string {
	if c.TipoPessoa == TipoPessoaJuridica {
		return "Pessoa Jurídica"
	}
	return "Pessoa Física"
}

// IsValidTipoPessoa checks if the classification is valid
func IsValidTipoPessoa(tipo string) bool {
	return tipo == TipoPessoaFisica || tipo == TipoPessoaJuridica
}

// TableName specifies the table name for Cliente model
func (Cliente) TableName() string {
	return "clientes"
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
