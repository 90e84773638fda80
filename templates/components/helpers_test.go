package components

import (
	"testing"
	"time"

	"tabelionato_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", FormatFileSize(2*1024*1024))
}

func TestFormatRelativeTime(t *testing.T) {
	assert.Equal(t, "agora", FormatRelativeTime(time.Now()))
	assert.Equal(t, "há 5 minutos", FormatRelativeTime(time.Now().Add(-5*time.Minute-time.Second)))
	assert.Equal(t, "há 1 hora", FormatRelativeTime(time.Now().Add(-61*time.Minute)))
	assert.Equal(t, "há 2 dias", FormatRelativeTime(time.Now().Add(-49*time.Hour)))
	old := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "02/01/2025", FormatRelativeTime(old))
}

func TestTemplateHelpers(t *testing.T) {
	assert.Equal(t, "badge badge-success", StatusClass(models.StatusConcluido))
	assert.Equal(t, "badge", StatusClass("X"))

	d := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "10/05/2026", formatDate(d))
	assert.Equal(t, "10/05/2026", formatDate(&d))
	assert.Equal(t, "", formatDate(nil))
	assert.Equal(t, "2026-05-10", formatDateInput(&d))

	assert.Equal(t, "", formatMoneyInput(decimal.Zero))
	assert.Equal(t, "12.50", formatMoneyInput(decimal.RequireFromString("12.5")))

	assert.Equal(t, []int{1, 2, 3}, seq(3))
	assert.True(t, contains([]string{"a", "b"}, "b"))
	m, err := dict("Role", "cliente", "N", 1)
	assert.NoError(t, err)
	assert.Equal(t, "cliente", m["Role"])
	_, err = dict("x")
	assert.Error(t, err)
}
