package pages

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"tabelionato_app_go/models"
	"tabelionato_app_go/services"
	"tabelionato_app_go/templates/components"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var files embed.FS

// views holds one template set per page, each layered over the shared layout
var views = mustParseViews()

func mustParseViews() map[string]*template.Template {
	base := template.Must(template.New("").Funcs(components.FuncMap()).
		ParseFS(files, "html/layout.html", "html/partials.html"))

	names, err := fs.Glob(files, "html/*.html")
	if err != nil {
		panic(err)
	}

	sets := make(map[string]*template.Template, len(names))
	for _, name := range names {
		key := strings.TrimSuffix(path.Base(name), ".html")
		if key == "layout" || key == "partials" {
			continue
		}
		t := template.Must(base.Clone())
		sets[key] = template.Must(t.ParseFS(files, name))
	}
	return sets
}

func view(name string, data interface{}) templ.Component {
	t, ok := views[name]
	if !ok {
		panic("unknown page " + name)
	}
	return templ.FromGoHTML(t.Lookup("layout"), data)
}

// Flash is a one-shot message shown above the page content
type Flash struct {
	Kind    string // success, error, info
	Message string
}

// Page carries what every page needs
type Page struct {
	Title       string
	CSRFToken   string
	Nonce       string
	User        *models.User
	Flash       *Flash
	Tabelionato string
	CSSURL      string
	JSURL       string
	Path        string
}

// IsMaster reports whether the signed-in user manages the office
func (p Page) IsMaster() bool {
	return p.User != nil && p.User.IsMaster()
}

// Pagination describes the page links under a list
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
	Query      template.URL // extra query string, e.g. "&q=ana"
}

// NewPagination computes the page count. query carries the other list
// parameters and is appended to the page links.
func NewPagination(page, limit int, total int64, query url.Values) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	var extra template.URL
	if encoded := query.Encode(); encoded != "" {
		extra = template.URL("&" + encoded)
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages, Query: extra}
}

// HasPrev reports whether a previous page exists
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// Option is an entry of a select box
type Option struct {
	Value string
	Label string
}

// Setup renders the first-run master account form
func Setup(page Page, form services.UserInput, errs services.FieldErrors) templ.Component {
	return view("setup", struct {
		Page
		Form   services.UserInput
		Errors services.FieldErrors
	}{page, form, errs})
}

// Login renders the sign-in form
func Login(page Page, username, errMsg string) templ.Component {
	return view("login", struct {
		Page
		Username string
		Error    string
	}{page, username, errMsg})
}

// Home renders the dashboard
func Home(page Page, stats *services.DashboardStats) templ.Component {
	return view("home", struct {
		Page
		Stats *services.DashboardStats
	}{page, stats})
}

// UsersList renders the user management table
func UsersList(page Page, users []models.User) templ.Component {
	return view("users_list", struct {
		Page
		Users []models.User
	}{page, users})
}

// UserForm renders the create or edit user form
func UserForm(page Page, action string, editing bool, form services.UserInput, errs services.FieldErrors) templ.Component {
	return view("user_form", struct {
		Page
		Action  string
		Editing bool
		Form    services.UserInput
		Errors  services.FieldErrors
		Roles   []Option
	}{page, action, editing, form, errs, roleOptions()})
}

func roleOptions() []Option {
	roles := []string{models.RoleMaster, models.RoleAdministrativo, models.RoleEscrevente}
	opts := make([]Option, 0, len(roles))
	for _, r := range roles {
		opts = append(opts, Option{Value: r, Label: models.RoleDisplayName(r)})
	}
	return opts
}

// TabelionatoForm renders the office settings form
func TabelionatoForm(page Page, form services.TabelionatoInput, errs services.FieldErrors) templ.Component {
	return view("tabelionato_form", struct {
		Page
		Form   services.TabelionatoInput
		Errors services.FieldErrors
	}{page, form, errs})
}

// TiposAtoList renders the act type table
func TiposAtoList(page Page, tipos []models.TipoAto) templ.Component {
	return view("tipos_ato_list", struct {
		Page
		Tipos []models.TipoAto
	}{page, tipos})
}

// TipoAtoForm renders the create or edit act type form
func TipoAtoForm(page Page, action string, form services.TipoAtoInput, errs services.FieldErrors) templ.Component {
	return view("tipo_ato_form", struct {
		Page
		Action string
		Form   services.TipoAtoInput
		Errors services.FieldErrors
	}{page, action, form, errs})
}

// ClientesList renders the client registry
func ClientesList(page Page, clientes []models.Cliente, search string, pagination Pagination) templ.Component {
	return view("clientes_list", struct {
		Page
		Clientes   []models.Cliente
		Search     string
		Pagination Pagination
	}{page, clientes, search, pagination})
}

// ClienteForm renders the create or edit client form
func ClienteForm(page Page, action string, form services.ClienteInput, errs services.FieldErrors) templ.Component {
	return view("cliente_form", struct {
		Page
		Action string
		Form   services.ClienteInput
		Errors services.FieldErrors
	}{page, action, form, errs})
}

// ClienteDetail renders a client with the protocols it takes part in
func ClienteDetail(page Page, cliente *models.Cliente, protocolos []models.Protocolo) templ.Component {
	return view("cliente_detail", struct {
		Page
		Cliente    *models.Cliente
		Protocolos []models.Protocolo
	}{page, cliente, protocolos})
}

// ProtocolosList renders the protocol list with its filters
func ProtocolosList(page Page, protocolos []models.Protocolo, filters services.ProtocoloFilters, pagination Pagination) templ.Component {
	return view("protocolos_list", struct {
		Page
		Protocolos []models.Protocolo
		Filters    services.ProtocoloFilters
		Pagination Pagination
		Statuses   []Option
	}{page, protocolos, filters, pagination, statusOptions()})
}

func statusOptions() []Option {
	statuses := []string{models.StatusEmAndamento, models.StatusEscrituraFinalizada, models.StatusConcluido, models.StatusCancelado}
	opts := make([]Option, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, Option{Value: s, Label: models.StatusDisplayName(s)})
	}
	return opts
}

// ProtocoloFormData is what the protocol form needs besides the page
type ProtocoloFormData struct {
	Action     string
	Tipo       string
	Editing    bool
	Numero     string
	Form       services.ProtocoloInput
	Errors     services.FieldErrors
	TiposAto   []models.TipoAto
	Usuarios   []models.User
	ErrorGeral string
}

// IsAtoNotarial reports whether the form edits a notarial act
func (d ProtocoloFormData) IsAtoNotarial() bool {
	return d.Tipo == models.TipoProtocoloAtoNotarial
}

// ProtocoloForm renders the create or edit protocol form
func ProtocoloForm(page Page, data ProtocoloFormData) templ.Component {
	return view("protocolo_form", struct {
		Page
		ProtocoloFormData
	}{page, data})
}

// ProtocoloDetailData is what the protocol page needs besides the page
type ProtocoloDetailData struct {
	Protocolo     *models.Protocolo
	Transitions   []Option
	ConsultaURL   string
	History       []models.AuditLog
	EscrituraForm services.DadosEscrituraInput
	ImovelForm    services.ImovelInput
	Errors        services.FieldErrors
}

// ProtocoloDetail renders a protocol with its deed, properties, files and comments
func ProtocoloDetail(page Page, data ProtocoloDetailData) templ.Component {
	return view("protocolo_detail", struct {
		Page
		ProtocoloDetailData
	}{page, data})
}

// TransitionOptions lists the statuses a protocol may move to
func TransitionOptions(p *models.Protocolo) []Option {
	var opts []Option
	for _, s := range []string{models.StatusEmAndamento, models.StatusEscrituraFinalizada, models.StatusConcluido} {
		if s != p.Status && services.CanTransition(p, s) {
			opts = append(opts, Option{Value: s, Label: models.StatusDisplayName(s)})
		}
	}
	return opts
}

// Consulta renders the public status page of a protocol
func Consulta(page Page, protocolo *models.Protocolo, tabelionato *models.Tabelionato) templ.Component {
	return view("consulta", struct {
		Page
		Protocolo      *models.Protocolo
		TabelionatoRef *models.Tabelionato
	}{page, protocolo, tabelionato})
}

// Error renders an error page
func Error(page Page, code int, message string) templ.Component {
	return view("error", struct {
		Page
		Code    int
		Message string
	}{page, code, message})
}
