package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tabelionato_app_go/models"

	"gorm.io/gorm"
)

// Person roles on the protocol form. Each role submits its rows as
// <role>_documento[], <role>_nome[], <role>_telefone[], <role>_email[],
// <role>_endereco[] and <role>_id[].
const (
	PapelCliente  = "cliente"
	PapelAdvogado = "advogado"
)

// PessoaInput is one submitted person row, as typed by the user
type PessoaInput struct {
	ID        string
	Documento string
	Nome      string
	Telefone  string
	Email     string
	Endereco  string
}

// ParsePessoaRows reads the repeated person fields of a role.
// Lists of different lengths are read up to the longest document/name
// list; missing cells are treated as blank.
func ParsePessoaRows(form url.Values, role string) []PessoaInput {
	field := func(name string) []string {
		if v, ok := form[role+"_"+name+"[]"]; ok {
			return v
		}
		return form[role+"_"+name]
	}
	documentos := field("documento")
	nomes := field("nome")
	telefones := field("telefone")
	emails := field("email")
	enderecos := field("endereco")
	ids := field("id")

	n := len(documentos)
	if len(nomes) > n {
		n = len(nomes)
	}

	rows := make([]PessoaInput, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, PessoaInput{
			ID:        at(ids, i),
			Documento: at(documentos, i),
			Nome:      at(nomes, i),
			Telefone:  at(telefones, i),
			Email:     at(emails, i),
			Endereco:  at(enderecos, i),
		})
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// pessoaKey is the reconciliation key of a row.
// Column is "cpf", "cnpj" or "" when the row has no usable document.
type pessoaKey struct {
	TipoPessoa string
	Column     string
	Documento  string
}

// resolvePessoaKey applies the key-selection policy, in order:
//  1. forced individual or 11 digits -> CPF (first 11 digits)
//  2. 14 digits -> CNPJ
//  3. any other non-empty digit count -> CPF with the digits as typed
//  4. no digits -> no key, the row is always created
func resolvePessoaKey(documento string, forceFisica bool) pessoaKey {
	if documento == "" {
		return pessoaKey{TipoPessoa: models.TipoPessoaFisica}
	}
	if forceFisica || len(documento) == CPFLength {
		if len(documento) > CPFLength {
			documento = documento[:CPFLength]
		}
		return pessoaKey{TipoPessoa: models.TipoPessoaFisica, Column: "cpf", Documento: documento}
	}
	if len(documento) == CNPJLength {
		return pessoaKey{TipoPessoa: models.TipoPessoaJuridica, Column: "cnpj", Documento: documento}
	}
	return pessoaKey{TipoPessoa: models.TipoPessoaFisica, Column: "cpf", Documento: documento}
}

// ReconcilePessoas upserts one client per submitted row, keyed by the
// normalized document, and returns the resulting records in submission
// order without duplicates. Blank optional fields never overwrite stored
// values. It must run inside the caller's transaction.
func ReconcilePessoas(tx *gorm.DB, rows []PessoaInput, forceFisica bool) ([]models.Cliente, error) {
	result := make([]models.Cliente, 0, len(rows))
	position := make(map[string]int, len(rows))

	for i, row := range rows {
		documento := NormalizeDocumento(row.Documento)
		nome := SanitizeText(row.Nome)
		// blank template rows and rows without a name carry nothing to store
		if nome == "" {
			continue
		}
		key := resolvePessoaKey(documento, forceFisica)

		cliente, err := upsertPessoa(tx, key, nome, row)
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", i+1, err)
		}
		// a repeated document keeps its first position with the latest values
		if idx, ok := position[cliente.ID]; ok {
			result[idx] = *cliente
			continue
		}
		position[cliente.ID] = len(result)
		result = append(result, *cliente)
	}

	return result, nil
}

func upsertPessoa(tx *gorm.DB, key pessoaKey, nome string, row PessoaInput) (*models.Cliente, error) {
	var cliente models.Cliente

	if key.Column != "" {
		err := tx.Where(key.Column+" = ?", key.Documento).First(&cliente).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up client: %w", err)
		}
		if err == nil {
			mergePessoa(&cliente, key, nome, row)
			if err := tx.Save(&cliente).Error; err != nil {
				return nil, fmt.Errorf("failed to update client: %w", err)
			}
			return &cliente, nil
		}
	}

	mergePessoa(&cliente, key, nome, row)
	switch key.Column {
	case "cpf":
		cliente.CPF = &key.Documento
	case "cnpj":
		cliente.CNPJ = &key.Documento
	}
	if err := tx.Create(&cliente).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &cliente, nil
}

// mergePessoa applies the update payload: name and classification always,
// optional contact fields only when submitted non-blank. An e-mail that
// does not parse is dropped.
func mergePessoa(c *models.Cliente, key pessoaKey, nome string, row PessoaInput) {
	c.Nome = nome
	c.TipoPessoa = key.TipoPessoa
	if v := strings.TrimSpace(row.Telefone); v != "" {
		c.Telefone = &v
	}
	if v := strings.ToLower(strings.TrimSpace(row.Email)); v != "" && IsValidEmail(v) {
		c.Email = &v
	}
	if v := strings.TrimSpace(row.Endereco); v != "" {
		c.Endereco = &v
	}
}
