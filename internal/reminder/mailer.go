package reminder

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/annamworks/caterbook/config"
)

// Message is a rendered reminder ready for dispatch.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport dispatches a rendered message.
type Transport interface {
	Send(msg Message) error
}

// NewTransport picks the SMTP transport when mail is configured, and
// the log transport otherwise (messages are logged and reported sent).
func NewTransport(cfg config.EmailConfig) Transport {
	if cfg.Enabled && cfg.Host != "" {
		return NewSMTPTransport(cfg)
	}
	return &LogTransport{}
}

type SMTPTransport struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPTransport(cfg config.EmailConfig) *SMTPTransport {
	return &SMTPTransport{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Passwd),
		from:     cfg.User,
		fromName: cfg.FromName,
	}
}

func (t *SMTPTransport) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.from, t.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	return t.dialer.DialAndSend(m)
}

// LogTransport logs messages instead of transmitting them. Used in
// non-production configuration.
type LogTransport struct{}

func (t *LogTransport) Send(msg Message) error {
	zap.L().Info("email (not sent, mail transport disabled)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
