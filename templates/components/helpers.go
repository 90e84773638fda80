package components

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/shopspring/decimal"
)

// FuncMap is shared by every page template
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date":         formatDate,
		"dateInput":    formatDateInput,
		"dateTime":     formatDateTime,
		"money":        services.FormatMoneyBR,
		"moneyInput":   formatMoneyInput,
		"cpf":          services.FormatCPF,
		"cnpj":         services.FormatCNPJ,
		"telefone":     services.FormatTelefone,
		"documento":    services.FormatClienteDocumento,
		"deref":        deref,
		"fileSize":     FormatFileSize,
		"relativeTime": FormatRelativeTime,
		"statusClass":  StatusClass,
		"statusName":   models.StatusDisplayName,
		"roleName":     models.RoleDisplayName,
		"join":         strings.Join,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"seq":          seq,
		"contains":     contains,
		"dict":         dict,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return services.FormatDateBR(&t)
	case *time.Time:
		return services.FormatDateBR(t)
	}
	return ""
}

func formatDateInput(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(services.DateLayout)
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04")
}

func formatMoneyInput(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

// FormatFileSize renders a byte count for humans
func FormatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatRelativeTime renders how long ago t happened, in Portuguese
func FormatRelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "agora"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minuto", "minutos")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hora", "horas")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "dia", "dias")
	}
	return t.Format("02/01/2006")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "há 1 " + one
	}
	return fmt.Sprintf("há %d %s", n, many)
}

// StatusClass maps a protocol status to its badge style
func StatusClass(status string) string {
	switch status {
	case models.StatusEmAndamento:
		return "badge badge-info"
	case models.StatusEscrituraFinalizada:
		return "badge badge-warning"
	case models.StatusConcluido:
		return "badge badge-success"
	case models.StatusCancelado:
		return "badge badge-muted"
	}
	return "badge"
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// dict builds a map from alternating keys and values, for passing
// several arguments to a nested template
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
