package pages

import (
	"bytes"
	"context"
	"net/url"
	"testing"
	"time"

	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func samplePage() Page {
	return Page{
		Title:       "Teste",
		CSRFToken:   "csrf-token",
		Nonce:       "nonce",
		User:        &models.User{ID: "u1", Username: "maria", FirstName: "Maria", LastName: "Silva", Role: models.RoleMaster},
		Flash:       &Flash{Kind: "success", Message: "Tudo certo."},
		Tabelionato: "1º Tabelionato de Notas",
		CSSURL:      "/static/css/app.css?v=1",
		JSURL:       "/static/js/app.js?v=1",
		Path:        "/",
	}
}

func sampleProtocolo() *models.Protocolo {
	cpf := "11122233344"
	horario := "14:30"
	hoje := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &models.Protocolo{
		ID:                 "p1",
		NumeroProtocolo:    "2026-000001",
		HashAcessoPublico:  "h1",
		Tipo:               models.TipoProtocoloAtoNotarial,
		Status:             models.StatusEmAndamento,
		TipoAto:            &models.TipoAto{ID: "t1", Nome: "Escritura de compra e venda", Ativo: true},
		DataAgendamento:    &hoje,
		HorarioAgendamento: &horario,
		DepositoPrevio:     decimal.RequireFromString("1500"),
		ListaDocumentos:    models.StringList{"RG", "Certidão de casamento"},
		CriadoPor:          &models.User{FirstName: "Maria", LastName: "Silva"},
		Clientes:           []models.Cliente{{ID: "c1", Nome: "Ana Souza", TipoPessoa: models.TipoPessoaFisica, CPF: &cpf}},
		CreatedAt:          hoje,
		UpdatedAt:          hoje,
	}
}

func TestPublicPages(t *testing.T) {
	page := samplePage()
	page.User = nil

	out := render(t, Login(page, "maria", "Usuário ou senha inválidos."))
	assert.Contains(t, out, `value="maria"`)
	assert.Contains(t, out, "Usuário ou senha inválidos.")
	assert.Contains(t, out, "csrf-token")

	out = render(t, Setup(page, services.UserInput{Username: "admin"}, services.FieldErrors{"password": "A senha é obrigatória."}))
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "A senha é obrigatória.")

	out = render(t, Error(page, 404, "Página não encontrada."))
	assert.Contains(t, out, "404")
	assert.Contains(t, out, "Página não encontrada.")
}

func TestLayoutShowsUserAndFlash(t *testing.T) {
	out := render(t, Home(samplePage(), &services.DashboardStats{EmAndamento: 3}))
	assert.Contains(t, out, "Maria Silva")
	assert.Contains(t, out, "Tudo certo.")
	assert.Contains(t, out, "Nenhum agendamento para hoje.")
}

func TestHomeAgenda(t *testing.T) {
	stats := &services.DashboardStats{AgendaHoje: []models.Protocolo{*sampleProtocolo()}}
	out := render(t, Home(samplePage(), stats))
	assert.Contains(t, out, "2026-000001")
	assert.Contains(t, out, "14:30")
}

func TestAdminPages(t *testing.T) {
	page := samplePage()
	dias := 15 * 24 * time.Hour

	out := render(t, UsersList(page, []models.User{{ID: "u2", Username: "joana", FirstName: "Joana", Role: models.RoleEscrevente, IsActive: true}}))
	assert.Contains(t, out, "joana")
	assert.Contains(t, out, "Escrevente")

	out = render(t, UserForm(page, "/usuarios/novo", false, services.UserInput{Username: "pedro"}, nil))
	assert.Contains(t, out, `action="/usuarios/novo"`)
	assert.Contains(t, out, "Administrativo")

	out = render(t, TabelionatoForm(page, services.TabelionatoInput{Denominacao: "1º Tabelionato"}, services.FieldErrors{"cnpj": "CNPJ inválido."}))
	assert.Contains(t, out, "CNPJ inválido.")

	out = render(t, TiposAtoList(page, []models.TipoAto{{ID: "t1", Nome: "Inventário", Ativo: true, TempoAlerta: &dias}}))
	assert.Contains(t, out, "Inventário")

	out = render(t, TipoAtoForm(page, "/tipos-ato/novo", services.TipoAtoInput{Nome: "Testamento"}, nil))
	assert.Contains(t, out, "Testamento")
}

func TestClientePages(t *testing.T) {
	page := samplePage()
	protocolo := sampleProtocolo()
	cliente := protocolo.Clientes[0]

	out := render(t, ClientesList(page, []models.Cliente{cliente}, "ana", NewPagination(1, 20, 1, url.Values{"q": {"ana"}})))
	assert.Contains(t, out, "Ana Souza")
	assert.Contains(t, out, "111.222.333-44")

	out = render(t, ClienteForm(page, "/clientes/novo", services.ClienteInput{Nome: "Ana"}, services.FieldErrors{"cpf": "CPF já cadastrado."}))
	assert.Contains(t, out, "CPF já cadastrado.")

	out = render(t, ClienteDetail(page, &cliente, []models.Protocolo{*protocolo}))
	assert.Contains(t, out, "2026-000001")
}

func TestProtocoloPages(t *testing.T) {
	page := samplePage()
	protocolo := sampleProtocolo()

	out := render(t, ProtocolosList(page, []models.Protocolo{*protocolo}, services.ProtocoloFilters{Status: models.StatusEmAndamento}, NewPagination(1, 20, 1, nil)))
	assert.Contains(t, out, "2026-000001")
	assert.Contains(t, out, "Escritura de compra e venda")

	out = render(t, ProtocoloForm(page, ProtocoloFormData{
		Action:   "/protocolos/ato/novo",
		Tipo:     models.TipoProtocoloAtoNotarial,
		Form:     services.ProtocoloInput{Documentos: []string{"RG"}, Clientes: []services.PessoaInput{{Documento: "111.222.333-44", Nome: "Ana Souza"}}},
		Errors:   services.FieldErrors{"tipo_ato": "Selecione o tipo de ato."},
		TiposAto: []models.TipoAto{*protocolo.TipoAto},
		Usuarios: []models.User{*page.User},
	}))
	assert.Contains(t, out, "Selecione o tipo de ato.")
	assert.Contains(t, out, "Ana Souza")

	out = render(t, ProtocoloDetail(page, ProtocoloDetailData{
		Protocolo:   protocolo,
		Transitions: TransitionOptions(protocolo),
		ConsultaURL: "http://tabelionato.test/consulta/h1",
	}))
	assert.Contains(t, out, "http://tabelionato.test/consulta/h1")
	assert.Contains(t, out, "Maria Silva")

	tab := &models.Tabelionato{Denominacao: "1º Tabelionato de Notas", Telefone: "1133334444"}
	out = render(t, Consulta(Page{Title: "Consulta"}, protocolo, tab))
	assert.Contains(t, out, "1º Tabelionato de Notas")
	assert.Contains(t, out, "Em Andamento")
	assert.NotContains(t, out, "Ana Souza")
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45, url.Values{"q": {"ana"}})
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, "&q=ana", string(p.Query))

	empty := NewPagination(1, 20, 0, nil)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasPrev())
	assert.False(t, empty.HasNext())
	assert.Empty(t, empty.Query)
}

func TestTransitionOptions(t *testing.T) {
	p := sampleProtocolo()
	opts := TransitionOptions(p)
	require.Len(t, opts, 1)
	assert.Equal(t, models.StatusConcluido, opts[0].Value)

	p.DadosEscritura = &models.DadosEscritura{Finalizado: true}
	assert.Len(t, TransitionOptions(p), 2)

	p.Status = models.StatusCancelado
	assert.Empty(t, TransitionOptions(p))
}
