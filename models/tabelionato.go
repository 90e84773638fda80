package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTabelionatoSingleton is returned when a second office settings record is created
var ErrTabelionatoSingleton = errors.New("apenas um registro de Tabelionato é permitido")

// tabelionatoSingletonKey is the only value the unique SingletonKey column may take
const tabelionatoSingletonKey = 1

// Tabelionato holds the office settings. At most one row exists.
type Tabelionato struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SingletonKey int `gorm:"uniqueIndex;not null;default:1" json:"-"`

	Denominacao string  `gorm:"size:255;not null" json:"denominacao"`
	CNPJ        string  `gorm:"size:18;not null" json:"cnpj"` // digits only
	Endereco    string  `gorm:"size:255;not null" json:"endereco"`
	Telefone    string  `gorm:"size:20;not null" json:"telefone"`
	Email       string  `gorm:"not null" json:"email"`
	Site        *string `json:"site,omitempty"`
}

// BeforeCreate rejects a second record before the unique index does
func (t *Tabelionato) BeforeCreate(tx *gorm.DB) error {
	var count int64
	if err := tx.Session(&gorm.Session{NewDB: true}).Model(&Tabelionato{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTabelionatoSingleton
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.SingletonKey = tabelionatoSingletonKey
	return nil
}

// TableName specifies the table name for Tabelionato model
func (Tabelionato) TableName() string {
	return "tabelionatos"
}
