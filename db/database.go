package db

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options selects the database backend. A non-empty TursoURL takes precedence
// over the local SQLite file.
type Options struct {
	Path        string
	TursoURL    string
	TursoToken  string
	Environment string
}

// Initialize sets up the database connection
func Initialize(opts Options) error {
	logLevel := logger.Info
	if opts.Environment == "production" {
		logLevel = logger.Warn
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var (
		dialector gorm.Dialector
		backend   string
	)
	if opts.TursoURL != "" {
		dsn := opts.TursoURL
		if opts.TursoToken != "" {
			dsn += "?authToken=" + opts.TursoToken
		}
		conn, err := sql.Open("libsql", dsn)
		if err != nil {
			return fmt.Errorf("failed to open libsql connection: %w", err)
		}
		dialector = sqlite.Dialector{Conn: conn}
		backend = "libsql"
	} else {
		// WAL for concurrent readers; foreign keys so SET NULL / CASCADE apply
		dialector = sqlite.Open(opts.Path + "?_journal_mode=WAL&_foreign_keys=on")
		backend = "sqlite"
	}

	var err error
	DB, err = gorm.Open(dialector, gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("backend", backend).Msg("Database connection established")
	return nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
