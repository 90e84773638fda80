package jobs

import (
	"sync"
	"time"

	"tabelionato_app_go/config"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// alertSendLimit caps concurrent calls to the e-mail provider
const alertSendLimit = 4

// DueAlertas returns the in-progress protocols whose act type alert lead
// time has elapsed since creation and that have not been alerted yet
func DueAlertas(database *gorm.DB, now time.Time) ([]models.Protocolo, error) {
	var candidates []models.Protocolo
	err := database.Preload("TipoAto").Preload("Responsavel").
		Joins("JOIN tipos_ato ON tipos_ato.id = protocolos.tipo_ato_id").
		Where("protocolos.status = ?", models.StatusEmAndamento).
		Where("protocolos.alerta_enviado_em IS NULL").
		Where("tipos_ato.tempo_alerta IS NOT NULL AND tipos_ato.tempo_alerta > 0").
		Order("protocolos.created_at").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	due := make([]models.Protocolo, 0, len(candidates))
	for _, p := range candidates {
		if p.TipoAto == nil || p.TipoAto.TempoAlerta == nil {
			continue
		}
		if now.Sub(p.CreatedAt) >= *p.TipoAto.TempoAlerta {
			due = append(due, p)
		}
	}
	return due, nil
}

// SendProtocoloAlerts e-mails the responsible clerk of every overdue
// protocol and stamps AlertaEnviadoEm so each protocol is alerted once
func SendProtocoloAlerts(database *gorm.DB, cfg *config.Config) {
	now := time.Now().UTC()
	protocolos, err := DueAlertas(database, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to load protocols for alerts")
		return
	}
	log.Info().Int("count", len(protocolos)).Msg("protocol alert job started")

	var (
		mu   sync.Mutex
		sent []models.Protocolo
		eg   errgroup.Group
	)
	eg.SetLimit(alertSendLimit)

	for _, p := range protocolos {
		if p.Responsavel == nil || p.Responsavel.Email == "" {
			log.Warn().Str("protocolo", p.NumeroProtocolo).Msg("alert skipped: responsible user has no e-mail")
			continue
		}

		eg.Go(func() error {
			email, err := services.BuildAlertaEmail(p.Responsavel.Email, services.AlertaEmailData{
				UserName: p.Responsavel.FullName(),
				Numero:   p.NumeroProtocolo,
				TipoAto:  p.TipoAto.Nome,
				Dias:     p.TipoAto.TempoAlertaDias(),
				Link:     cfg.AppURL + "/protocolos/" + p.ID,
			})
			if err != nil {
				log.Error().Err(err).Str("protocolo", p.NumeroProtocolo).Msg("failed to build alert email")
				return nil
			}
			if err := services.SendEmail(cfg, email); err != nil {
				log.Error().Err(err).Str("protocolo", p.NumeroProtocolo).Msg("failed to send alert")
				return nil
			}
			mu.Lock()
			sent = append(sent, p)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	// SQLite takes one writer at a time, so stamps are written after the sends
	for _, p := range sent {
		if err := database.Model(&models.Protocolo{}).Where("id = ?", p.ID).
			Update("alerta_enviado_em", now).Error; err != nil {
			log.Error().Err(err).Str("protocolo", p.NumeroProtocolo).Msg("failed to mark alert as sent")
			continue
		}
		log.Info().Str("protocolo", p.NumeroProtocolo).Msg("alert sent")
	}
}
