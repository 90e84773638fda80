package services

import (
	"strings"

	"tabelionato_app_go/models"
)

// Document lengths after normalization
const (
	CPFLength  = 11
	CNPJLength = 14
)

// NormalizeDocumento strips every non-digit character, keeping digit order.
// "111.222.333-44" -> "11122233344"
func NormalizeDocumento(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// ClassifyDocumento maps a normalized document to a person type.
// ok is false when the length is neither a CPF nor a CNPJ.
func ClassifyDocumento(digits string) (tipoPessoa string, ok bool) {
	switch len(digits) {
	case CPFLength:
		return models.TipoPessoaFisica, true
	case CNPJLength:
		return models.TipoPessoaJuridica, true
	}
	return "", false
}

// FormatCPF formats 11 digits as 000.000.000-00.
// Anything else is returned unchanged.
func FormatCPF(value string) string {
	if value == "" {
		return ""
	}
	cpf := NormalizeDocumento(value)
	if len(cpf) != CPFLength {
		return value
	}
	return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:]
}

// FormatCNPJ formats 14 digits as 00.000.000/0000-00.
// Anything else is returned unchanged.
func FormatCNPJ(value string) string {
	if value == "" {
		return ""
	}
	cnpj := NormalizeDocumento(value)
	if len(cnpj) != CNPJLength {
		return value
	}
	return cnpj[:2] + "." + cnpj[2:5] + "." + cnpj[5:8] + "/" + cnpj[8:12] + "-" + cnpj[12:]
}

// FormatTelefone formats landlines (10 digits) as (00) 0000-0000 and
// mobiles (11 digits) as (00) 00000-0000.
func FormatTelefone(value string) string {
	if value == "" {
		return ""
	}
	tel := NormalizeDocumento(value)
	switch len(tel) {
	case 10:
		return "(" + tel[:2] + ") " + tel[2:6] + "-" + tel[6:]
	case 11:
		return "(" + tel[:2] + ") " + tel[2:7] + "-" + tel[7:]
	}
	return value
}

// FormatDocumento formats value as "cpf" or "cnpj"
func FormatDocumento(value, tipo string) string {
	switch strings.ToLower(tipo) {
	case "cpf":
		return FormatCPF(value)
	case "cnpj":
		return FormatCNPJ(value)
	}
	return value
}

// FormatClienteDocumento formats the document matching the client's classification
func FormatClienteDocumento(c *models.Cliente) string {
	if c.TipoPessoa == models.TipoPessoaJuridica {
		return FormatCNPJ(c.Documento())
	}
	return FormatCPF(c.Documento())
}
