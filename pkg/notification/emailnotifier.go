package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds mail server settings for the email notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      bool
	NoTLS    bool
}

// EmailNotifier delivers notices as email over SMTP.
type EmailNotifier struct {
	config SMTPConfig
}

// NewEmailNotifier creates an email notifier with the given SMTP settings.
func NewEmailNotifier(config SMTPConfig) (*EmailNotifier, error) {
	if config.Host == "" || config.Port == 0 {
		return nil, fmt.Errorf("invalid SMTP configuration: host and port are required")
	}
	if config.From == "" {
		return nil, fmt.Errorf("invalid SMTP configuration: from address is required")
	}
	return &EmailNotifier{config: config}, nil
}

func (e *EmailNotifier) Send(noticeType NoticeType, notification NotificationData, noticeTemplate NoticeTemplate) error {
	subject := noticeTemplate.Subject
	if notification.Subject != "" {
		subject = notification.Subject
	}

	msg := mail.NewMsg()
	if err := msg.From(e.config.From); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(notification.To); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(subject)

	if noticeTemplate.Text != "" {
		body, err := renderTemplate(noticeTemplate.Text, notification.Data)
		if err != nil {
			return fmt.Errorf("failed to render text body: %w", err)
		}
		msg.SetBodyString(mail.TypeTextPlain, body)
	}
	if noticeTemplate.Html != "" {
		body, err := renderTemplate(noticeTemplate.Html, notification.Data)
		if err != nil {
			return fmt.Errorf("failed to render html body: %w", err)
		}
		if noticeTemplate.Text != "" {
			msg.AddAlternativeString(mail.TypeTextHTML, body)
		} else {
			msg.SetBodyString(mail.TypeTextHTML, body)
		}
	}

	opts := []mail.Option{
		mail.WithPort(e.config.Port),
	}
	if e.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.config.Username),
			mail.WithPassword(e.config.Password),
		)
	}
	switch {
	case e.config.NoTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case e.config.TLS:
		opts = append(opts, mail.WithSSL())
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(e.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Sent email notification", "type", noticeType, "to", notification.To)
	return nil
}

func renderTemplate(source string, data map[string]string) (string, error) {
	tmpl, err := template.New("notice").Parse(source)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
