package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/atelierlibre/paroisse-api/internal/config"
	"github.com/atelierlibre/paroisse-api/internal/logger"
)

// Message is a single outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers a single message. Implementations must be safe for
// sequential reuse; the Notifier never calls Send concurrently.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	addr     string
	host     string
	user     string
	password string
	from     string
	fromName string
	log      *log.Logger
}

// NewSMTPSender builds a sender from the SMTP section of the configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		addr:     cfg.GetSMTPAddr(),
		host:     cfg.SMTP.Host,
		user:     cfg.SMTP.User,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
		fromName: cfg.SMTP.FromName,
		log:      logger.Mailer(),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("message recipient cannot be empty")
	}

	s.log.Debug("Sending email", "to", msg.To, "subject", msg.Subject)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	payload := s.buildPayload(msg)
	if err := smtp.SendMail(s.addr, auth, s.from, []string{msg.To}, payload); err != nil {
		s.log.Error("Failed to send email", "to", msg.To, "error", err)
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	s.log.Info("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// buildPayload assembles the RFC 5322 message with HTML MIME headers.
func (s *SMTPSender) buildPayload(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.fromName + " <" + s.from + ">\r\n")
	if msg.ToName != "" {
		b.WriteString("To: " + msg.ToName + " <" + msg.To + ">\r\n")
	} else {
		b.WriteString("To: " + msg.To + "\r\n")
	}
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
