package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Protocol types
const (
	TipoProtocoloAtoNotarial = "ATO_NOTARIAL"
	TipoProtocoloCertidao    = "CERTIDAO"
)

// Protocol statuses
const (
	StatusEmAndamento         = "EM_ANDAMENTO"
	StatusEscrituraFinalizada = "ESCRITURA_FINALIZADA"
	StatusConcluido           = "CONCLUIDO"
	StatusCancelado           = "CANCELADO"
)

// Protocolo tracks a notarial act or a certificate request through to completion
type Protocolo struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	NumeroProtocolo   string `gorm:"size:50;uniqueIndex;not null" json:"numero_protocolo"`
	HashAcessoPublico string `gorm:"type:uuid;uniqueIndex;not null" json:"-"`

	Tipo      string   `gorm:"size:20;not null;default:ATO_NOTARIAL;index" json:"tipo"`
	Status    string   `gorm:"size:25;not null;default:EM_ANDAMENTO;index" json:"status"`
	TipoAtoID string   `gorm:"type:uuid;not null;index" json:"tipo_ato_id"`
	TipoAto   *TipoAto `gorm:"foreignKey:TipoAtoID;constraint:OnDelete:RESTRICT" json:"tipo_ato,omitempty"`

	DataAgendamento    *time.Time      `gorm:"type:date;index" json:"data_agendamento,omitempty"`
	HorarioAgendamento *string         `gorm:"size:5" json:"horario_agendamento,omitempty"` // HH:MM
	DepositoPrevio     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"deposito_previo"`

	Observacoes            *string    `gorm:"type:text" json:"observacoes,omitempty"`
	ObservacoesAtoNotarial *string    `gorm:"type:text" json:"observacoes_ato_notarial,omitempty"`
	ListaDocumentos        StringList `json:"lista_documentos"`

	CriadoPorID   string  `gorm:"type:uuid;not null;index" json:"criado_por_id"`
	CriadoPor     *User   `gorm:"foreignKey:CriadoPorID;constraint:OnDelete:RESTRICT" json:"criado_por,omitempty"`
	ResponsavelID *string `gorm:"type:uuid;index" json:"responsavel_id,omitempty"`
	Responsavel   *User   `gorm:"foreignKey:ResponsavelID;constraint:OnDelete:SET NULL" json:"responsavel,omitempty"`

	Clientes  []Cliente `gorm:"many2many:protocolo_clientes;constraint:OnDelete:CASCADE" json:"clientes,omitempty"`
	Advogados []Cliente `gorm:"many2many:protocolo_advogados;constraint:OnDelete:CASCADE" json:"advogados,omitempty"`

	AlertaEnviadoEm *time.Time `json:"-"`

	DadosEscritura            *DadosEscritura            `gorm:"foreignKey:ProtocoloID;constraint:OnDelete:CASCADE" json:"dados_escritura,omitempty"`
	Imoveis                   []Imovel                   `gorm:"foreignKey:ProtocoloID;constraint:OnDelete:CASCADE" json:"imoveis,omitempty"`
	Comentarios               []ComentarioInterno        `gorm:"foreignKey:ProtocoloID;constraint:OnDelete:CASCADE" json:"comentarios,omitempty"`
	JustificativaCancelamento *JustificativaCancelamento `gorm:"foreignKey:ProtocoloID;constraint:OnDelete:CASCADE" json:"justificativa_cancelamento,omitempty"`
	Arquivos                  []ArquivoDigitalizado      `gorm:"foreignKey:ProtocoloID;constraint:OnDelete:CASCADE" json:"arquivos,omitempty"`
}

// BeforeCreate assigns the identifiers, the public token and the protocol number
func (p *Protocolo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.HashAcessoPublico == "" {
		p.HashAcessoPublico = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = StatusEmAndamento
	}
	if p.ListaDocumentos == nil {
		p.ListaDocumentos = StringList{}
	}
	if p.NumeroProtocolo == "" {
		numero, err := nextNumeroProtocolo(tx, time.Now().Year())
		if err != nil {
			return err
		}
		p.NumeroProtocolo = numero
	}
	return nil
}

// nextNumeroProtocolo returns the next number of the year.
// Format: {YEAR}-{SEQUENCE}, e.g. 2026-000042
func nextNumeroProtocolo(tx *gorm.DB, year int) (string, error) {
	var last Protocolo
	err := tx.Session(&gorm.Session{NewDB: true}).
		Select("numero_protocolo").
		Where("numero_protocolo LIKE ?", fmt.Sprintf("%d-%%", year)).
		Order("numero_protocolo DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return "", fmt.Errorf("failed to query last protocol number: %w", err)
	}

	sequence := 1
	if last.NumeroProtocolo != "" {
		var parsed int
		if _, scanErr := fmt.Sscanf(last.NumeroProtocolo, fmt.Sprintf("%d-%%d", year), &parsed); scanErr == nil {
			sequence = parsed + 1
		}
	}
	return fmt.Sprintf("%d-%06d", year, sequence), nil
}

// IsAtoNotarial reports whether the protocol is a notarial deed act
func (p *Protocolo) IsAtoNotarial() bool {
	return p.Tipo == TipoProtocoloAtoNotarial
}

// IsFinal reports whether the protocol no longer accepts status changes
func (p *Protocolo) IsFinal() bool {
	return p.Status == StatusConcluido || p.Status == StatusCancelado
}

// TipoDisplayName returns the human-readable protocol type
func (p *Protocolo) TipoDisplayName() string {
	if p.Tipo == TipoProtocoloCertidao {
		return "Certidão"
	}
	return "Ato Notarial"
}

// StatusDisplayName returns the human-readable status
func (p *Protocolo) StatusDisplayName() string {
	return StatusDisplayName(p.Status)
}

func StatusDisplayName(status string) string {
	switch status {
	case StatusEmAndamento:
		return "Em Andamento"
	case StatusEscrituraFinalizada:
		return "Escritura Finalizada"
	case StatusConcluido:
		return "Concluído"
	case StatusCancelado:
		return "Cancelado"
	}
	return status
}

// IsValidProtocoloStatus checks if the status is valid
func IsValidProtocoloStatus(status string) bool {
	switch status {
	case StatusEmAndamento, StatusEscrituraFinalizada, StatusConcluido, StatusCancelado:
		return true
	}
	return false
}

// IsValidTipoProtocolo checks if the protocol type is valid
func IsValidTipoProtocolo(tipo string) bool {
	return tipo == TipoProtocoloAtoNotarial || tipo == TipoProtocoloCertidao
}

// TableName specifies the table name for Protocolo model
func (Protocolo) TableName() string {
	return "protocolos"
}
