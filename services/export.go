package services

import (
	"bytes"
	"fmt"
	"strings"

	"tabelionato_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// XLSXContentType is the MIME type of the exported spreadsheets
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxExportRows caps a single protocol export
const maxExportRows = 10000

func newSheet(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "A", lastCol, 22)
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetSheetRow(sheet, cell, &values)
}

func fileBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportClientesXLSX builds the client registry spreadsheet
func ExportClientesXLSX(clientes []models.Cliente) ([]byte, error) {
	const sheet = "Clientes"
	f, err := newSheet(sheet, []string{"Nome", "Tipo", "CPF/CNPJ", "Telefone", "E-mail", "Endereço", "Cadastrado em"})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := range clientes {
		c := &clientes[i]
		writeRow(f, sheet, i+2, []interface{}{
			c.Nome,
			c.TipoPessoaDisplayName(),
			FormatClienteDocumento(c),
			FormatTelefone(deref(c.Telefone)),
			deref(c.Email),
			deref(c.Endereco),
			c.CreatedAt.Format("02/01/2006"),
		})
	}
	return fileBytes(f)
}

// ExportProtocolosXLSX builds the spreadsheet of every protocol matching the filters
func ExportProtocolosXLSX(db *gorm.DB, filters ProtocoloFilters) ([]byte, error) {
	protocolos, _, err := ListProtocolos(db, filters, 1, maxExportRows)
	if err != nil {
		return nil, err
	}

	const sheet = "Protocolos"
	f, err := newSheet(sheet, []string{"Número", "Tipo", "Tipo de ato", "Situação", "Clientes", "Responsável", "Agendamento", "Horário", "Depósito prévio", "Criado em"})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := range protocolos {
		p := &protocolos[i]
		nomes := make([]string, 0, len(p.Clientes))
		for _, c := range p.Clientes {
			nomes = append(nomes, c.Nome)
		}
		tipoAto := ""
		if p.TipoAto != nil {
			tipoAto = p.TipoAto.Nome
		}
		responsavel := ""
		if p.Responsavel != nil {
			responsavel = p.Responsavel.FullName()
		}
		deposito, _ := p.DepositoPrevio.Float64()
		writeRow(f, sheet, i+2, []interface{}{
			p.NumeroProtocolo,
			p.TipoDisplayName(),
			tipoAto,
			p.StatusDisplayName(),
			strings.Join(nomes, "; "),
			responsavel,
			FormatDateBR(p.DataAgendamento),
			deref(p.HorarioAgendamento),
			deposito,
			p.CreatedAt.Format("02/01/2006 15:04"),
		})
	}
	return fileBytes(f)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
