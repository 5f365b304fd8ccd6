package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ErrNoRecipients is returned before any provider call when a message has no To.
var ErrNoRecipients = errors.New("email has no recipients")

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds a sender with a default From address.
// PRE: apiKey is a Resend API key
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// Send submits msg to Resend, tagged as a registration notice.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	req := &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Tags:    []resend.Tag{{Name: "category", Value: "registration"}},
	}
	if msg.From != "" {
		req.From = msg.From
	}

	sent, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	slog.Info("email_sent", "id", sent.Id, "to", msg.To)
	return sent.Id, nil
}
