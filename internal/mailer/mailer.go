package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
)

// Message is one outbound email, already rendered.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers rendered emails. Sending is separated from rendering so
// the render path stays pure and the delivery mode can be swapped by
// configuration.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// New picks the delivery mode from configuration: a real SMTP sender when
// host and from-address are set, otherwise the simulated log-only sender.
func New(cfg config.Config) Mailer {
	if cfg.SMTPConfigured() {
		return &SMTPMailer{
			Addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
			Host: cfg.SMTPHost,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		}
	}
	log.Printf("mailer: SMTP not configured, running in simulated mode")
	return &LogMailer{}
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	Addr string // host:port
	Host string
	User string
	Pass string
	From string
}

// Send delivers the message. Auth is only attempted when a user is
// configured, so unauthenticated relays on trusted networks keep working.
func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTML)
	if err := smtp.SendMail(s.Addr, auth, s.From, []string{m.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// LogMailer is the simulated delivery mode: it records what would have been
// sent and succeeds. Used whenever SMTP is unconfigured, e.g. local
// development and tests.
type LogMailer struct{}

func (l *LogMailer) Send(_ context.Context, m Message) error {
	log.Printf("mailer (simulated): to=%s subject=%q bytes=%d", m.To, m.Subject, len(m.HTML))
	return nil
}
