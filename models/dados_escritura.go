package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DadosEscritura extends a notarial-act protocol with the deed references
type DadosEscritura struct {
	ProtocoloID string    `gorm:"type:uuid;primarykey" json:"protocolo_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Livro         string    `gorm:"size:20;not null" json:"livro"`
	Folha         string    `gorm:"size:20;not null" json:"folha"`
	DataEscritura time.Time `gorm:"type:date;not null" json:"data_escritura"`

	// COAF (financial intelligence unit) reporting
	ComunicacaoCOAF       bool       `gorm:"not null;default:false" json:"comunicacao_coaf"`
	RelatorioCOAF         *string    `gorm:"type:text" json:"relatorio_coaf,omitempty"`
	DataComunicacaoCOAF   *time.Time `gorm:"type:date" json:"data_comunicacao_coaf,omitempty"`
	NumeroComunicacaoCOAF *string    `gorm:"size:50" json:"numero_comunicacao_coaf,omitempty"`

	DocumentosDigitalizados bool            `gorm:"not null;default:false" json:"documentos_digitalizados"`
	Emolumentos             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"emolumentos"`
	Finalizado              bool            `gorm:"not null;default:false" json:"finalizado"`
}

// TableName specifies the table name for DadosEscritura model
func (DadosEscritura) TableName() string {
	return "dados_escritura"
}
