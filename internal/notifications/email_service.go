package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	htmltemplate "html/template"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"classbook/internal/shared/config"
	"classbook/pkg/logger"
)

// EmailService delivers a notification to its recipient
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

type emailTemplate struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func mustTemplate(name, html, text string) emailTemplate {
	return emailTemplate{
		html: htmltemplate.Must(htmltemplate.New(name).Parse(html)),
		text: texttemplate.Must(texttemplate.New(name).Parse(text)),
	}
}

var templates = map[NotificationType]emailTemplate{
	NotificationTypeBookingConfirmed: mustTemplate("booking_confirmed",
		`<p>Your {{.group_type}} class on <strong>{{.weekday}}, {{.class_date}}</strong> from {{.start_time}} to {{.end_time}} is booked.</p><p>Booking reference: {{.booking_ref}}</p>`,
		"Your {{.group_type}} class on {{.weekday}}, {{.class_date}} from {{.start_time}} to {{.end_time}} is booked.\nBooking reference: {{.booking_ref}}\n"),
	NotificationTypeBookingCancelled: mustTemplate("booking_cancelled",
		`<p>Your {{.group_type}} class on <strong>{{.weekday}}, {{.class_date}}</strong> at {{.start_time}} was cancelled.</p><p>Booking reference: {{.booking_ref}}</p>`,
		"Your {{.group_type}} class on {{.weekday}}, {{.class_date}} at {{.start_time}} was cancelled.\nBooking reference: {{.booking_ref}}\n"),
	NotificationTypeSignupConfirmation: mustTemplate("signup_confirmation",
		`<p>Welcome to Classbook.</p><p><a href="{{.link}}">Confirm your email address</a> to finish signing up.</p>`,
		"Welcome to Classbook.\nConfirm your email address to finish signing up:\n{{.link}}\n"),
}

// RenderContent returns the HTML and plain-text bodies of a notification
func RenderContent(notification *EmailNotification) (string, string, error) {
	tmpl, ok := templates[notification.Type]
	if !ok {
		return "", "", fmt.Errorf("no template for notification type %s", notification.Type)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := tmpl.html.Execute(&htmlBuf, notification.TemplateData); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := tmpl.text.Execute(&textBuf, notification.TemplateData); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func SMTPConfigFrom(cfg config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}
}

func (c SMTPConfig) validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("SMTP host is required")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	case c.FromEmail == "":
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SMTPEmailService sends multipart emails over STARTTLS
type SMTPEmailService struct {
	config SMTPConfig
	logger *logger.Logger
}

func NewSMTPEmailService(cfg SMTPConfig) (*SMTPEmailService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: cfg, logger: logger.GetDefault()}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := RenderContent(notification)
	if err != nil {
		return err
	}

	message := BuildMessage(s.config, notification.RecipientEmail, notification.Subject, htmlBody, textBody, time.Now())
	if err := s.send(ctx, notification.RecipientEmail, message); err != nil {
		return err
	}

	s.logger.Info("email sent", "type", notification.Type, "notification_id", notification.ID.String())
	return nil
}

func (s *SMTPEmailService) send(ctx context.Context, to string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}
	return client.Quit()
}

// BuildMessage assembles a multipart/alternative message with a text and an HTML part
func BuildMessage(cfg SMTPConfig, to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := "classbook_" + strconv.FormatInt(now.UnixNano(), 36)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogEmailService renders notifications and logs them instead of sending,
// for environments without SMTP
type LogEmailService struct {
	logger *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{logger: logger.GetDefault()}
}

func (s *LogEmailService) SendNotification(_ context.Context, notification *EmailNotification) error {
	_, text, err := RenderContent(notification)
	if err != nil {
		return err
	}
	s.logger.Info("email (not sent, SMTP disabled)",
		"type", notification.Type,
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"body", text,
	)
	return nil
}
