package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tabelionato_app_go/models"

	"gorm.io/gorm"
)

// ErrTipoAtoEmUso is returned when deleting an act type still used by protocols
var ErrTipoAtoEmUso = errors.New("tipo de ato vinculado a protocolos")

// TipoAtoInput is the submitted act type form
type TipoAtoInput struct {
	Nome            string
	Ativo           bool
	TempoAlertaDias string
}

// GetTiposAto returns all act types ordered by name
func GetTiposAto(db *gorm.DB) ([]models.TipoAto, error) {
	var tipos []models.TipoAto
	err := db.Order("nome asc").Find(&tipos).Error
	return tipos, err
}

// GetActiveTiposAto returns only the act types offered on new protocols
func GetActiveTiposAto(db *gorm.DB) ([]models.TipoAto, error) {
	var tipos []models.TipoAto
	err := db.Where("ativo = ?", true).Order("nome asc").Find(&tipos).Error
	return tipos, err
}

// GetTipoAtoByID fetches a single act type
func GetTipoAtoByID(db *gorm.DB, id string) (*models.TipoAto, error) {
	var tipo models.TipoAto
	if err := db.First(&tipo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tipo, nil
}

// SaveTipoAto validates and creates or updates an act type.
// Pass a nil tipo to create.
func SaveTipoAto(db *gorm.DB, tipo *models.TipoAto, input TipoAtoInput) (*models.TipoAto, FieldErrors, error) {
	errs := FieldErrors{}

	nome := SanitizeText(input.Nome)
	if nome == "" {
		errs.Add("nome", "Informe o nome do tipo de ato.")
	}

	var tempoAlerta *time.Duration
	if dias := strings.TrimSpace(input.TempoAlertaDias); dias != "" {
		n, err := strconv.Atoi(dias)
		if err != nil || n < 0 {
			errs.Add("tempo_alerta", "Informe um número de dias válido.")
		} else if n > 0 {
			d := time.Duration(n) * 24 * time.Hour
			tempoAlerta = &d
		}
	}

	if nome != "" {
		query := db.Model(&models.TipoAto{}).Where("LOWER(nome) = LOWER(?)", nome)
		if tipo != nil {
			query = query.Where("id <> ?", tipo.ID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to check act type name: %w", err)
		}
		if count > 0 {
			errs.Add("nome", "Já existe um tipo de ato com este nome.")
		}
	}

	if errs.Any() {
		return nil, errs, nil
	}

	creating := tipo == nil
	if creating {
		tipo = &models.TipoAto{}
	}
	tipo.Nome = nome
	tipo.Ativo = input.Ativo
	tipo.TempoAlerta = tempoAlerta

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(tipo).Error; err != nil {
			return err
		}
		// a false Ativo is replaced by the column default on insert
		if creating && !input.Ativo {
			return tx.Model(tipo).Update("ativo", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save act type: %w", err)
	}
	return tipo, nil, nil
}

// ToggleTipoAto flips the active flag
func ToggleTipoAto(db *gorm.DB, id string) (*models.TipoAto, error) {
	tipo, err := GetTipoAtoByID(db, id)
	if err != nil {
		return nil, err
	}
	tipo.Ativo = !tipo.Ativo
	if err := db.Model(tipo).Update("ativo", tipo.Ativo).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle act type: %w", err)
	}
	return tipo, nil
}

// DeleteTipoAto removes an act type that no protocol references
func DeleteTipoAto(db *gorm.DB, id string) (*models.TipoAto, error) {
	tipo, err := GetTipoAtoByID(db, id)
	if err != nil {
		return nil, err
	}
	var count int64
	if err := db.Model(&models.Protocolo{}).Where("tipo_ato_id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check act type usage: %w", err)
	}
	if count > 0 {
		return nil, ErrTipoAtoEmUso
	}
	if err := db.Delete(tipo).Error; err != nil {
		return nil, fmt.Errorf("failed to delete act type: %w", err)
	}
	return tipo, nil
}
