package email

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	sent atomic.Int64
}

// NewLogSender returns a sender for setups without a provider key.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the recipients and subject.
// POST: returns id "log-N" where N counts messages sent by s
func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	id := "log-" + strconv.FormatInt(s.sent.Add(1), 10)
	slog.Info("email_logged", "id", id, "to", msg.To, "subject", msg.Subject)
	return id, nil
}
