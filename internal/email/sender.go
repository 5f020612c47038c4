package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/studio-automations/internal/config"
)

// Message is one rendered email ready for delivery.
type Message struct {
	To      string `json:"to"`
	ToName  string `json:"-"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Result reports the provider's verdict. A nil error with Success false
// means the provider refused the message.
type Result struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// Sender delivers email. A returned error means the provider could not be
// reached or did not answer.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Result, error)
}

// NewSender builds the sender selected by cfg.Provider. It returns nil, nil
// when email delivery is disabled.
func NewSender(ctx context.Context, cfg config.EmailConfig) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "smtp":
		return NewSMTPSender(cfg.SMTP, cfg.From, cfg.FromName), nil
	case "ses":
		sender, err := NewSESSender(ctx, cfg.SES, cfg.From, cfg.FromName)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case "function":
		sender, err := NewFunctionSender(cfg.Function, nil)
		if err != nil {
			return nil, err
		}
		return sender, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func failed(reason string) *Result {
	return &Result{Success: false, Error: reason}
}

func formatAddress(email, name string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%q <%s>", name, email)
}
