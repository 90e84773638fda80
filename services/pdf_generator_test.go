package services

import (
	"context"
	"os"
	"testing"
	"time"

	"tabelionato_app_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions("/usr/bin/chromium")
	assert.Equal(t, "/usr/bin/chromium", opts.ChromePath)
	assert.InDelta(t, 8.27, opts.PaperWidth, 0.001)
	assert.InDelta(t, 11.69, opts.PaperHeight, 0.001)
	assert.Equal(t, 57, opts.MarginTop)
	assert.Equal(t, 30*time.Second, opts.Timeout)
}

func sampleComprovante() ComprovanteData {
	site := "https://cartorio.example.com"
	horario := "14:30"
	data := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	cpf := "11122233344"
	p := &models.Protocolo{
		NumeroProtocolo:    "2026-000042",
		HashAcessoPublico:  "abc-123",
		Tipo:               models.TipoProtocoloAtoNotarial,
		Status:             models.StatusEmAndamento,
		TipoAto:            &models.TipoAto{Nome: "Escritura de Compra e Venda"},
		DataAgendamento:    &data,
		HorarioAgendamento: &horario,
		DepositoPrevio:     decimal.RequireFromString("1500.5"),
		ListaDocumentos:    models.StringList{"RG", "Certidão de casamento"},
		Clientes:           []models.Cliente{{Nome: "Ana <b>Lima</b>", TipoPessoa: models.TipoPessoaFisica, CPF: &cpf}},
	}
	tab := &models.Tabelionato{
		Denominacao: "2º Tabelionato de Notas",
		CNPJ:        "12345678000199",
		Endereco:    "Rua A, 1",
		Telefone:    "1133334444",
		Email:       "contato@cartorio.example.com",
		Site:        &site,
	}
	return NewComprovanteData(tab, p, "https://app.example.com/", time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC))
}

func TestRenderComprovanteHTML(t *testing.T) {
	html, err := RenderComprovanteHTML(sampleComprovante())
	require.NoError(t, err)

	assert.Contains(t, html, "2026-000042")
	assert.Contains(t, html, "2º Tabelionato de Notas")
	assert.Contains(t, html, "12.345.678/0001-99")
	assert.Contains(t, html, "https://cartorio.example.com")
	assert.Contains(t, html, "Escritura de Compra e Venda")
	assert.Contains(t, html, "09/03/2026 às 14:30")
	assert.Contains(t, html, "R$ 1.500,50")
	assert.Contains(t, html, "111.222.333-44")
	assert.Contains(t, html, "Certidão de casamento")
	assert.Contains(t, html, "https://app.example.com/consulta/abc-123")
	assert.Contains(t, html, "01/03/2026 09:05")
	assert.NotContains(t, html, "<b>Lima</b>")
}

func TestRenderComprovanteWithoutTabelionato(t *testing.T) {
	data := sampleComprovante()
	data.Tabelionato = nil
	html, err := RenderComprovanteHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "Tabelionato de Notas")
}

func TestGenerateComprovantePDFSmoke(t *testing.T) {
	chromePath := os.Getenv("CHROME_PATH")
	if chromePath == "" {
		t.Skip("Skipping PDF generation test: CHROME_PATH not set")
	}

	pdf, err := GenerateComprovantePDF(context.Background(), sampleComprovante(), DefaultPDFOptions(chromePath))
	if err != nil {
		if os.IsNotExist(err) {
			t.Skipf("Skipping: Chrome not found at %s", chromePath)
		}
		t.Fatalf("GenerateComprovantePDF failed: %v", err)
	}
	require.NotEmpty(t, pdf)
	assert.Contains(t, string(pdf[:5]), "%PDF-")
}
