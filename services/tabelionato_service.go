package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"tabelionato_app_go/models"

	"gorm.io/gorm"
)

// TabelionatoInput is the submitted office settings form
type TabelionatoInput struct {
	Denominacao string
	CNPJ        string
	Endereco    string
	Telefone    string
	Email       string
	Site        string
}

// ParseTabelionatoForm reads the office settings form
func ParseTabelionatoForm(form url.Values) TabelionatoInput {
	return TabelionatoInput{
		Denominacao: form.Get("denominacao"),
		CNPJ:        form.Get("cnpj"),
		Endereco:    form.Get("endereco"),
		Telefone:    form.Get("telefone"),
		Email:       strings.ToLower(strings.TrimSpace(form.Get("email"))),
		Site:        strings.TrimSpace(form.Get("site")),
	}
}

// GetTabelionato returns the office settings, or nil when not configured yet
func GetTabelionato(db *gorm.DB) (*models.Tabelionato, error) {
	var tabelionato models.Tabelionato
	if err := db.First(&tabelionato).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load office settings: %w", err)
	}
	return &tabelionato, nil
}

// SaveTabelionato creates the singleton on first save and updates it afterwards
func SaveTabelionato(db *gorm.DB, input TabelionatoInput) (*models.Tabelionato, FieldErrors, error) {
	errs := FieldErrors{}

	denominacao := SanitizeText(input.Denominacao)
	if denominacao == "" {
		errs.Add("denominacao", "Informe a denominação.")
	}
	cnpj := NormalizeDocumento(input.CNPJ)
	if len(cnpj) != CNPJLength {
		errs.Add("cnpj", "CNPJ deve ter 14 dígitos.")
	}
	endereco := SanitizeText(input.Endereco)
	if endereco == "" {
		errs.Add("endereco", "Informe o endereço.")
	}
	telefone := strings.TrimSpace(input.Telefone)
	if telefone == "" {
		errs.Add("telefone", "Informe o telefone.")
	}
	if input.Email == "" || !IsValidEmail(input.Email) {
		errs.Add("email", "Informe um e-mail válido.")
	}
	if input.Site != "" {
		if u, err := url.ParseRequestURI(input.Site); err != nil || u.Host == "" {
			errs.Add("site", "Informe uma URL válida.")
		}
	}
	if errs.Any() {
		return nil, errs, nil
	}

	tabelionato, err := GetTabelionato(db)
	if err != nil {
		return nil, nil, err
	}
	if tabelionato == nil {
		tabelionato = &models.Tabelionato{}
	}
	tabelionato.Denominacao = denominacao
	tabelionato.CNPJ = cnpj
	tabelionato.Endereco = endereco
	tabelionato.Telefone = telefone
	tabelionato.Email = input.Email
	tabelionato.Site = ptrIfNotEmpty(input.Site)

	if err := db.Save(tabelionato).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to save office settings: %w", err)
	}
	return tabelionato, nil, nil
}
