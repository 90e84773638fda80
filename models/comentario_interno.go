package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComentarioInterno is an append-only internal note on a protocol
type ComentarioInterno struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ProtocoloID string `gorm:"type:uuid;not null;index" json:"protocolo_id"`
	UsuarioID   string `gorm:"type:uuid;not null;index" json:"usuario_id"`
	Usuario     *User  `gorm:"foreignKey:UsuarioID;constraint:OnDelete:RESTRICT" json:"usuario,omitempty"`
	Texto       string `gorm:"type:text;not null" json:"texto"`
}

// BeforeCreate hook to generate UUID
func (c *ComentarioInterno) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate keeps comments append-only
func (c *ComentarioInterno) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name for ComentarioInterno model
func (ComentarioInterno) TableName() string {
	return "comentarios_internos"
}

// JustificativaCancelamento records why and by whom a protocol was cancelled.
// Each protocol has at most one.
type JustificativaCancelamento struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"data_cancelamento"`

	ProtocoloID    string `gorm:"type:uuid;not null;uniqueIndex" json:"protocolo_id"`
	Motivo         string `gorm:"type:text;not null" json:"motivo"`
	CanceladoPorID string `gorm:"type:uuid;not null" json:"cancelado_por_id"`
	CanceladoPor   *User  `gorm:"foreignKey:CanceladoPorID;constraint:OnDelete:RESTRICT" json:"cancelado_por,omitempty"`
}

// BeforeCreate hook to generate UUID
func (j *JustificativaCancelamento) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for JustificativaCancelamento model
func (JustificativaCancelamento) TableName() string {
	return "justificativas_cancelamento"
}
