// Package notification despacha las notificaciones por email (SMTP) con
// plantillas HTML embebidas y adjuntos.
package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/commerce-invoicing/internal/application/billing"
	"github.com/jhoicas/commerce-invoicing/internal/domain/entity"
	"github.com/jhoicas/commerce-invoicing/pkg/config"
)

//go:embed templates/*.html
var templateFiles embed.FS

// subjects asunto por plantilla; el texto admite el marcador del número de orden.
var subjects = map[string]string{
	billing.TemplateOrderPlaced: "Order confirmation #%v",
}

// MailSender abstrae el envío SMTP (*gomail.Dialer lo implementa).
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Dispatcher implementa billing.Notifier sobre SMTP.
type Dispatcher struct {
	sender    MailSender
	from      string
	templates *template.Template
	log       zerolog.Logger
}

var _ billing.Notifier = (*Dispatcher)(nil)

// NewSMTPDialer construye el dialer de gomail a partir de la configuración.
func NewSMTPDialer(cfg config.SMTPConfig) *gomail.Dialer {
	return gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
}

// NewDispatcher construye el dispatcher y parsea las plantillas embebidas.
func NewDispatcher(sender MailSender, from string, log zerolog.Logger) (*Dispatcher, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("notification: parsear plantillas: %w", err)
	}
	return &Dispatcher{sender: sender, from: from, templates: tpl, log: log}, nil
}

// Send renderiza y envía las notificaciones en una sola conexión SMTP.
func (d *Dispatcher) Send(ctx context.Context, notifications []entity.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msgs := make([]*gomail.Message, 0, len(notifications))
	for _, n := range notifications {
		if n.Channel != "" && n.Channel != entity.ChannelEmail {
			return fmt.Errorf("notification: canal %q no soportado", n.Channel)
		}
		m, err := d.buildMessage(n)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := d.sender.DialAndSend(msgs...); err != nil {
		return fmt.Errorf("notification: smtp: %w", err)
	}
	d.log.Debug().Int("messages", len(msgs)).Msg("notification: emails enviados")
	return nil
}

func (d *Dispatcher) buildMessage(n entity.Notification) (*gomail.Message, error) {
	tpl := d.templates.Lookup(n.Template + ".html")
	if tpl == nil {
		return nil, fmt.Errorf("notification: plantilla %q no existe", n.Template)
	}
	var body bytes.Buffer
	if err := tpl.Execute(&body, n.Data); err != nil {
		return nil, fmt.Errorf("notification: renderizar %s: %w", n.Template, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", subject(n))
	m.SetBody("text/html", body.String())

	for _, a := range n.Attachments {
		content := a.Content
		disposition := a.Disposition
		if disposition == "" {
			disposition = "attachment"
		}
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type":        {a.ContentType},
				"Content-Disposition": {fmt.Sprintf(`%s; filename="%s"`, disposition, a.Filename)},
			}),
		}
		if disposition == "inline" {
			m.Embed(a.Filename, settings...)
		} else {
			m.Attach(a.Filename, settings...)
		}
	}
	return m, nil
}

func subject(n entity.Notification) string {
	format, ok := subjects[n.Template]
	if !ok {
		return n.Template
	}
	return fmt.Sprintf(format, n.Data["order_id"])
}
