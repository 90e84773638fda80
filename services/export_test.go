package services

import (
	"bytes"
	"testing"

	"tabelionato_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExportClientesXLSX(t *testing.T) {
	cpf := "11122233344"
	email := "ana@x.com"
	data, err := ExportClientesXLSX([]models.Cliente{
		{Nome: "Ana", TipoPessoa: models.TipoPessoaFisica, CPF: &cpf, Email: &email},
	})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Clientes")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Nome", rows[0][0])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "111.222.333-44", rows[1][2])
	assert.Equal(t, "ana@x.com", rows[1][4])
}

func TestExportProtocolosXLSX(t *testing.T) {
	db := setupServiceTestDB(t)
	actor := createTestUser(t, db, "maria", models.RoleEscrevente)
	tipo := createTestTipoAto(t, db, "Escritura")

	p, _, err := CreateProtocolo(db, actor, baseProtocoloInput(tipo.ID))
	require.NoError(t, err)
	other := baseProtocoloInput(tipo.ID)
	other.Tipo = models.TipoProtocoloAtoNotarial
	_, _, err = CreateProtocolo(db, actor, other)
	require.NoError(t, err)

	data, err := ExportProtocolosXLSX(db, ProtocoloFilters{Tipo: models.TipoProtocoloCertidao})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows("Protocolos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, p.NumeroProtocolo, rows[1][0])
	assert.Equal(t, "Certidão", rows[1][1])
	assert.Equal(t, "Escritura", rows[1][2])
	assert.Equal(t, "Em Andamento", rows[1][3])
	assert.Equal(t, "Ana", rows[1][4])
}
