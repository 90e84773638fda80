package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Imovel is a piece of real estate involved in a protocol
type Imovel struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProtocoloID string `gorm:"type:uuid;not null;index" json:"protocolo_id"`

	CadastroMunicipal string          `gorm:"size:50;not null" json:"cadastro_municipal"` // IPTU registration
	ValorVenal        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor_venal"`
	ValorNegocio      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor_negocio"`
	Descricao         string          `gorm:"type:text;not null" json:"descricao"`
}

// BeforeCreate hook to generate UUID
func (i *Imovel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Imovel model
func (Imovel) TableName() string {
	return "imoveis"
}
