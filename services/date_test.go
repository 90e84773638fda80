package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2026-01-27",
			expected: time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Brazilian format",
			input:   "27/01/2026",
			wantErr: true,
		},
		{
			name:    "Invalid day",
			input:   "2026-01-32",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	got, err = ParseClock("14:30:59")
	require.NoError(t, err)
	assert.Equal(t, "14:30", got)

	for _, bad := range []string{"", "24:00", "9h", "12:60"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestStartOfDayAndFormatDateBR(t *testing.T) {
	in := time.Date(2026, 3, 9, 18, 45, 0, 0, time.UTC)
	day := StartOfDay(in)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, "09/03/2026", FormatDateBR(&day))
	assert.Equal(t, "", FormatDateBR(nil))
	assert.Equal(t, "", FormatDateBR(&time.Time{}))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"1234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"R$ 1.234,5", "1234.5"},
		{"10", "10"},
		{"0,005", "0.01"},
		{"-3,00", "-3"},
	}
	for _, tt := range tests {
		got, err := ParseMoney(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%q -> %s", tt.input, got)
	}

	_, err := ParseMoney("doze reais")
	assert.Error(t, err)
}

func TestFormatMoneyBR(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatMoneyBR(decimal.Zero))
	assert.Equal(t, "R$ 1.234,50", FormatMoneyBR(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 1.000.000,00", FormatMoneyBR(decimal.NewFromInt(1000000)))
	assert.Equal(t, "R$ 999,99", FormatMoneyBR(decimal.RequireFromString("999.99")))
	assert.Equal(t, "-R$ 12,00", FormatMoneyBR(decimal.NewFromInt(-12)))
}
