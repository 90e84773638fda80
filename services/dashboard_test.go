package services

import (
	"testing"
	"time"

	"tabelionato_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	db := setupServiceTestDB(t)
	user := createTestUser(t, db, "maria", models.RoleEscrevente)
	tipo := createTestTipoAto(t, db, "Escritura")

	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	hoje := StartOfDay(now)
	amanha := hoje.AddDate(0, 0, 1)

	create := func(status string, data *time.Time, horario string) *models.Protocolo {
		p := &models.Protocolo{
			Tipo:            models.TipoProtocoloAtoNotarial,
			Status:          status,
			TipoAtoID:       tipo.ID,
			CriadoPorID:     user.ID,
			DataAgendamento: data,
		}
		if horario != "" {
			p.HorarioAgendamento = &horario
		}
		require.NoError(t, db.Create(p).Error)
		return p
	}

	tarde := create(models.StatusEmAndamento, &hoje, "16:00")
	manha := create(models.StatusEmAndamento, &hoje, "09:30")
	create(models.StatusEmAndamento, &amanha, "10:00")
	create(models.StatusConcluido, &hoje, "11:00")
	create(models.StatusCancelado, nil, "")
	require.NoError(t, db.Create(&models.Cliente{Nome: "Ana", TipoPessoa: models.TipoPessoaFisica}).Error)

	stats, err := GetDashboardStats(db, now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.EmAndamento)
	assert.Equal(t, int64(0), stats.EscrituraFinalizada)
	assert.Equal(t, int64(1), stats.Concluido)
	assert.Equal(t, int64(1), stats.Cancelado)
	assert.Equal(t, int64(1), stats.TotalClientes)

	require.Len(t, stats.AgendaHoje, 2)
	assert.Equal(t, manha.ID, stats.AgendaHoje[0].ID)
	assert.Equal(t, tarde.ID, stats.AgendaHoje[1].ID)
	require.NotNil(t, stats.AgendaHoje[0].TipoAto)
	assert.Equal(t, "Escritura", stats.AgendaHoje[0].TipoAto.Nome)
}

func TestGetDashboardStatsAgendaLimit(t *testing.T) {
	db := setupServiceTestDB(t)
	user := createTestUser(t, db, "maria", models.RoleEscrevente)
	tipo := createTestTipoAto(t, db, "Procuração")

	now := time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)
	hoje := StartOfDay(now)
	for i := 0; i < AgendaHojeLimit+2; i++ {
		require.NoError(t, db.Create(&models.Protocolo{
			Tipo:            models.TipoProtocoloCertidao,
			Status:          models.StatusEmAndamento,
			TipoAtoID:       tipo.ID,
			CriadoPorID:     user.ID,
			DataAgendamento: &hoje,
		}).Error)
	}

	stats, err := GetDashboardStats(db, now)
	require.NoError(t, err)
	assert.Len(t, stats.AgendaHoje, AgendaHojeLimit)
	assert.Equal(t, int64(AgendaHojeLimit+2), stats.EmAndamento)
}
