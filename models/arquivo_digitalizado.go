package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArquivoDigitalizado is a scanned document attached to a protocol
type ArquivoDigitalizado struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProtocoloID  string `gorm:"type:uuid;not null;index" json:"protocolo_id"`
	StorageKey   string `gorm:"not null" json:"-"`
	NomeOriginal string `gorm:"not null" json:"nome_original"`
	Tamanho      int64  `json:"tamanho"`
	MimeType     string `json:"mime_type"`

	EnviadoPorID *string `gorm:"type:uuid" json:"enviado_por_id,omitempty"`
	EnviadoPor   *User   `gorm:"foreignKey:EnviadoPorID;constraint:OnDelete:SET NULL" json:"enviado_por,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *ArquivoDigitalizado) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ArquivoDigitalizado model
func (ArquivoDigitalizado) TableName() string {
	return "arquivos_digitalizados"
}
