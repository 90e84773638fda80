package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"tabelionato_app_go/config"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// emailTemplate pairs the HTML and plain text bodies of one message
type emailTemplate struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func newEmailTemplate(name, html, text string) emailTemplate {
	return emailTemplate{
		html: htmltemplate.Must(htmltemplate.New(name + ".html").Parse(html)),
		text: texttemplate.Must(texttemplate.New(name + ".txt").Parse(text)),
	}
}

func (t emailTemplate) render(to, subject string, data interface{}) (*Email, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := t.html.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", t.html.Name(), err)
	}
	if err := t.text.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", t.text.Name(), err)
	}
	return &Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: htmlBuf.String(),
		TextBody: textBuf.String(),
	}, nil
}

var welcomeTemplate = newEmailTemplate("welcome",
	`<p>Olá, {{.UserName}}!</p>
<p>Sua conta no sistema do {{.Tabelionato}} foi criada.</p>
<p>Usuário: <strong>{{.Username}}</strong></p>
<p><a href="{{.LoginURL}}">Acessar o sistema</a></p>`,
	`Olá, {{.UserName}}!

Sua conta no sistema do {{.Tabelionato}} foi criada.
Usuário: {{.Username}}

Acesse: {{.LoginURL}}
`)

var alertaTemplate = newEmailTemplate("alerta_protocolo",
	`<p>Olá, {{.UserName}}.</p>
<p>O protocolo <strong>{{.Numero}}</strong> ({{.TipoAto}}) está em andamento há mais de {{.Dias}} dia(s).</p>
<p><a href="{{.Link}}">Abrir protocolo</a></p>`,
	`Olá, {{.UserName}}.

O protocolo {{.Numero}} ({{.TipoAto}}) está em andamento há mais de {{.Dias}} dia(s).

{{.Link}}
`)

// WelcomeEmailData contains data for the welcome email template
type WelcomeEmailData struct {
	UserName    string
	Username    string
	Tabelionato string
	LoginURL    string
}

// BuildWelcomeEmail creates a welcome email for new users
func BuildWelcomeEmail(userEmail string, data WelcomeEmailData) (*Email, error) {
	if data.Tabelionato == "" {
		data.Tabelionato = "Tabelionato"
	}
	return welcomeTemplate.render(userEmail, "Bem-vindo(a) ao "+data.Tabelionato, data)
}

// AlertaEmailData contains data for the act type alert email
type AlertaEmailData struct {
	UserName string
	Numero   string
	TipoAto  string
	Dias     int
	Link     string
}

// BuildAlertaEmail creates the overdue protocol alert sent to the responsible clerk
func BuildAlertaEmail(userEmail string, data AlertaEmailData) (*Email, error) {
	return alertaTemplate.render(userEmail, "Alerta: protocolo "+data.Numero+" em andamento", data)
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Info().Str("id", sent.Id).Strs("to", email.To).Msg("email sent")
	return nil
}

// logEmailToConsole logs email details in development mode
func logEmailToConsole(email *Email) {
	log.Info().
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("text", email.TextBody).
		Str("html", truncate(email.HTMLBody, 500)).
		Msg("email logged (test mode, not sent)")
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email asynchronously using a goroutine
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Error().Err(err).Strs("to", emailCopy.To).Msg("failed to send async email")
		}
	}()
}

// loginURL joins the application base URL and the login path
func loginURL(appURL string) string {
	return strings.TrimRight(appURL, "/") + "/login"
}

// SendWelcomeEmail notifies a newly created user, when they have an e-mail address
func SendWelcomeEmail(cfg *config.Config, tabelionato string, username, name, email string) {
	if email == "" {
		return
	}
	msg, err := BuildWelcomeEmail(email, WelcomeEmailData{
		UserName:    name,
		Username:    username,
		Tabelionato: tabelionato,
		LoginURL:    loginURL(cfg.AppURL),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to build welcome email")
		return
	}
	SendEmailAsync(cfg, msg)
}
