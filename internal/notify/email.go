package notify

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"
)

// RecipientSource yields the recruiter addresses currently on file.
type RecipientSource interface {
	ListEmails(ctx context.Context) ([]string, error)
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailChannel sends the event as a plain-text mail to every recruiter.
type EmailChannel struct {
	cfg        SMTPConfig
	recipients RecipientSource

	// sendFn is swappable in tests; defaults to a real SMTP dial.
	sendFn func(m *gomail.Message) error
}

func NewEmailChannel(cfg SMTPConfig, recipients RecipientSource) *EmailChannel {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &EmailChannel{
		cfg:        cfg,
		recipients: recipients,
		sendFn: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, ev Event) error {
	if c.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}

	to, err := c.recipients.ListEmails(ctx)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		return errors.New("no recruiter addresses on file")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", ev.Title)
	m.SetBody("text/plain", ev.Message)

	return c.sendFn(m)
}

var _ Channel = (*EmailChannel)(nil)
