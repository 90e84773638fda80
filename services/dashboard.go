package services

import (
	"fmt"
	"time"

	"tabelionato_app_go/models"

	"gorm.io/gorm"
)

// DashboardStats holds the home page counters
type DashboardStats struct {
	EmAndamento         int64
	EscrituraFinalizada int64
	Concluido           int64
	Cancelado           int64
	TotalClientes       int64
	AgendaHoje          []models.Protocolo
}

// AgendaHojeLimit is how many of today's appointments the home page lists
const AgendaHojeLimit = 5

// GetDashboardStats counts protocols per status and loads today's schedule
func GetDashboardStats(db *gorm.DB, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}

	type statusCount struct {
		Status string
		Total  int64
	}
	var counts []statusCount
	if err := db.Model(&models.Protocolo{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count protocols: %w", err)
	}
	for _, c := range counts {
		switch c.Status {
		case models.StatusEmAndamento:
			stats.EmAndamento = c.Total
		case models.StatusEscrituraFinalizada:
			stats.EscrituraFinalizada = c.Total
		case models.StatusConcluido:
			stats.Concluido = c.Total
		case models.StatusCancelado:
			stats.Cancelado = c.Total
		}
	}

	if err := db.Model(&models.Cliente{}).Count(&stats.TotalClientes).Error; err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	today := StartOfDay(now)
	if err := db.Preload("TipoAto").Preload("Clientes").
		Where("status = ?", models.StatusEmAndamento).
		Where("data_agendamento >= ? AND data_agendamento < ?", today, today.AddDate(0, 0, 1)).
		Order("horario_agendamento").
		Limit(AgendaHojeLimit).
		Find(&stats.AgendaHoje).Error; err != nil {
		return nil, fmt.Errorf("failed to load today's schedule: %w", err)
	}

	return stats, nil
}
