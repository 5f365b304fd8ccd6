package email

import "context"

// Message is one outgoing email. HTML is sent as-is; callers escape user input.
type Message struct {
	To      []string
	From    string // empty uses the sender's default
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
