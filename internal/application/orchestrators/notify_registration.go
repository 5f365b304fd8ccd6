package orchestrators

import (
	"context"
	"fmt"
	"html"
	"strings"

	emailAdapter "radioclub/internal/adapters/email"
	"radioclub/internal/domain/export"
	"radioclub/internal/domain/registration"
)

// EmailNotifier mails the club admins when a new registration arrives.
type EmailNotifier struct {
	Sender emailAdapter.Sender
	From   string
	To     []string
}

// NotifyCreated sends one summary email for r.
// POST: No email is sent when To is empty
func (n EmailNotifier) NotifyCreated(ctx context.Context, r registration.Registration) error {
	if n.Sender == nil || len(n.To) == 0 {
		return nil
	}
	_, err := n.Sender.Send(ctx, emailAdapter.Message{
		To:      n.To,
		From:    n.From,
		Subject: fmt.Sprintf("New registration: %s (%s)", r.Name, r.StudentID),
		HTML:    registrationSummaryHTML(r),
	})
	return err
}

func registrationSummaryHTML(r registration.Registration) string {
	cells := export.Row(r)
	var b strings.Builder
	b.WriteString("<table>")
	for i, h := range export.Header {
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", html.EscapeString(h), html.EscapeString(cells[i]))
	}
	b.WriteString("</table>")
	return b.String()
}
