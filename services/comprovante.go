package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"tabelionato_app_go/models"
)

// ComprovanteData is what the protocol receipt prints
type ComprovanteData struct {
	Tabelionato     *models.Tabelionato
	Protocolo       *models.Protocolo
	Clientes        []ComprovantePessoa
	ConsultaURL     string
	EmitidoEm       string
	DataAgendamento string
	Deposito        string
}

// ComprovantePessoa is one client line of the receipt
type ComprovantePessoa struct {
	Nome      string
	Documento string
}

var comprovanteTemplate = template.Must(template.New("comprovante").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<style>
body { font-family: "Helvetica", "Arial", sans-serif; font-size: 11pt; color: #111; }
h1 { font-size: 15pt; margin: 0 0 4pt 0; }
.cabecalho { border-bottom: 1pt solid #333; padding-bottom: 8pt; margin-bottom: 12pt; }
.cabecalho p { margin: 0; font-size: 9pt; }
table { width: 100%; border-collapse: collapse; margin-top: 8pt; }
th, td { text-align: left; padding: 4pt; border-bottom: 0.5pt solid #ccc; }
.numero { font-size: 20pt; font-weight: bold; letter-spacing: 1pt; }
.rodape { margin-top: 24pt; font-size: 9pt; color: #555; }
</style>
</head>
<body>
<div class="cabecalho">
{{with .Tabelionato}}
<h1>{{.Denominacao}}</h1>
<p>CNPJ {{$.TabelionatoCNPJ}} · {{.Endereco}}</p>
<p>{{.Telefone}} · {{.Email}}{{with .Site}} · {{.}}{{end}}</p>
{{else}}
<h1>Tabelionato de Notas</h1>
{{end}}
</div>
<p>Comprovante de protocolo</p>
<p class="numero">{{.Protocolo.NumeroProtocolo}}</p>
<table>
<tr><th>Tipo</th><td>{{.Protocolo.TipoDisplayName}}{{with .Protocolo.TipoAto}} · {{.Nome}}{{end}}</td></tr>
<tr><th>Situação</th><td>{{.Protocolo.StatusDisplayName}}</td></tr>
{{if .DataAgendamento}}<tr><th>Agendamento</th><td>{{.DataAgendamento}}{{with .Protocolo.HorarioAgendamento}} às {{.}}{{end}}</td></tr>{{end}}
<tr><th>Depósito prévio</th><td>{{.Deposito}}</td></tr>
</table>
{{if .Clientes}}
<table>
<tr><th>Cliente</th><th>Documento</th></tr>
{{range .Clientes}}<tr><td>{{.Nome}}</td><td>{{.Documento}}</td></tr>{{end}}
</table>
{{end}}
{{if .Protocolo.ListaDocumentos}}
<p>Documentos solicitados:</p>
<ul>{{range .Protocolo.ListaDocumentos}}<li>{{.}}</li>{{end}}</ul>
{{end}}
<p class="rodape">Acompanhe o andamento em {{.ConsultaURL}}<br>Emitido em {{.EmitidoEm}}</p>
</body>
</html>`))

// TabelionatoCNPJ formats the office CNPJ for the header
func (d ComprovanteData) TabelionatoCNPJ() string {
	if d.Tabelionato == nil {
		return ""
	}
	return FormatCNPJ(d.Tabelionato.CNPJ)
}

// ConsultaURL builds the public status page address of a protocol
func ConsultaURL(appURL string, p *models.Protocolo) string {
	return strings.TrimRight(appURL, "/") + "/consulta/" + p.HashAcessoPublico
}

// NewComprovanteData assembles the receipt fields of a loaded protocol
func NewComprovanteData(tabelionato *models.Tabelionato, p *models.Protocolo, appURL string, now time.Time) ComprovanteData {
	clientes := make([]ComprovantePessoa, 0, len(p.Clientes))
	for i := range p.Clientes {
		clientes = append(clientes, ComprovantePessoa{
			Nome:      p.Clientes[i].Nome,
			Documento: FormatClienteDocumento(&p.Clientes[i]),
		})
	}
	return ComprovanteData{
		Tabelionato:     tabelionato,
		Protocolo:       p,
		Clientes:        clientes,
		ConsultaURL:     ConsultaURL(appURL, p),
		EmitidoEm:       now.Format("02/01/2006 15:04"),
		DataAgendamento: FormatDateBR(p.DataAgendamento),
		Deposito:        FormatMoneyBR(p.DepositoPrevio),
	}
}

// RenderComprovanteHTML renders the receipt page
func RenderComprovanteHTML(data ComprovanteData) (string, error) {
	var buf bytes.Buffer
	if err := comprovanteTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.String(), nil
}

// GenerateComprovantePDF renders the receipt and prints it with headless Chrome
func GenerateComprovantePDF(ctx context.Context, data ComprovanteData, options PDFOptions) ([]byte, error) {
	html, err := RenderComprovanteHTML(data)
	if err != nil {
		return nil, err
	}
	return GeneratePDF(ctx, html, options)
}
