package jobs

import (
	"fmt"
	"time"

	"tabelionato_app_go/config"
	"tabelionato_app_go/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// cleanupSpec runs the expired session and login monitor sweep every hour
const cleanupSpec = "@hourly"

// StartScheduler registers the background jobs and starts the cron runner.
// The caller stops it on shutdown.
func StartScheduler(database *gorm.DB, cfg *config.Config) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(cfg.AlertCron, func() {
		SendProtocoloAlerts(database, cfg)
	}); err != nil {
		return nil, fmt.Errorf("invalid ALERT_CRON %q: %w", cfg.AlertCron, err)
	}

	if _, err := c.AddFunc(cleanupSpec, func() {
		if err := services.CleanupExpiredSessions(database); err != nil {
			log.Error().Err(err).Msg("session cleanup failed")
		}
		if services.Monitor != nil {
			services.Monitor.Cleanup()
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info().Str("alert_cron", cfg.AlertCron).Str("timezone", loc.String()).Msg("scheduler started")
	return c, nil
}
