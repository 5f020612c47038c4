package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/studio-automations/internal/config"
)

type smtpDialer interface {
	Dial() (gomail.SendCloser, error)
}

type SMTPSender struct {
	dialer   smtpDialer
	from     string
	fromName string
}

func NewSMTPSender(cfg config.SMTPConfig, from, fromName string) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	conn, err := s.dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer conn.Close()

	// The server answered; a refusal here is about this message.
	if err := gomail.Send(conn, m); err != nil {
		return failed(err.Error()), nil
	}
	return &Result{Success: true}, nil
}
