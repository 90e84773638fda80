package services

import (
	"fmt"
	"testing"

	"tabelionato_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServiceTestDB opens a private shared-cache in-memory database so that
// pooled connections and audit goroutines see the same schema
func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := HashPassword("segredo1")
	require.NoError(t, err)
	user := &models.User{
		Username:  username,
		FirstName: username,
		Password:  hash,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTipoAto(t *testing.T, db *gorm.DB, nome string) *models.TipoAto {
	t.Helper()
	tipo := &models.TipoAto{Nome: nome, Ativo: true}
	require.NoError(t, db.Create(tipo).Error)
	return tipo
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
