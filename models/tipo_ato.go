package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoAto is a configurable kind of notarial act
type TipoAto struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nome  string `gorm:"size:100;uniqueIndex;not null" json:"nome"`
	Ativo bool   `gorm:"not null;default:true" json:"ativo"`
	// Lead time before an open protocol of this type raises an alert
	TempoAlerta *time.Duration `json:"tempo_alerta,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *TipoAto) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TempoAlertaDias returns the alert lead time in whole days (0 when unset)
func (t *TipoAto) TempoAlertaDias() int {
	if t.TempoAlerta == nil {
		return 0
	}
	return int(*t.TempoAlerta / (24 * time.Hour))
}

// TableName specifies the table name for TipoAto model
func (TipoAto) TableName() string {
	return "tipos_ato"
}
