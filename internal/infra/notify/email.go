package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

// Sender matches *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email mails the care team when an alert is raised. The body carries the alert
// metadata and levels, never the journal text.
type Email struct {
	Sender Sender
	From   string
	To     string
}

// NewEmail builds an Email dispatcher backed by an SMTP dialer.
func NewEmail(host string, port int, user, password, from, to string) *Email {
	if from == "" {
		from = user
	}
	return &Email{
		Sender: gomail.NewDialer(host, port, user, password),
		From:   from,
		To:     to,
	}
}

// Dispatch sends one message. gomail has no context support, so the send runs on its
// own goroutine and Dispatch returns as soon as ctx is done.
func (e *Email) Dispatch(ctx context.Context, a *crisis.Alert, n *crisis.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", fmt.Sprintf("[journal-guard] %s alert for user %s", strings.ToUpper(string(n.Priority)), a.UserID))
	m.SetBody("text/plain", emailBody(a, n))

	errc := make(chan error, 1)
	go func() { errc <- e.Sender.DialAndSend(m) }()
	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("send care team email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send care team email: %w", ctx.Err())
	}
}

func emailBody(a *crisis.Alert, n *crisis.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alert:        %s\n", a.ID)
	fmt.Fprintf(&b, "User:         %s\n", a.UserID)
	fmt.Fprintf(&b, "Raised at:    %s\n", a.CreatedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Suicide risk: %d/10\n", a.Snapshot.SuicideRiskLevel)
	fmt.Fprintf(&b, "Depression:   %d/10\n", a.Snapshot.DepressionLevel)
	fmt.Fprintf(&b, "Urgency:      %s\n", a.Snapshot.Urgency)
	fmt.Fprintf(&b, "Source:       %s\n\n", a.Snapshot.Source)
	b.WriteString("Message shown to the user:\n")
	b.WriteString(n.Message)
	b.WriteString("\n")
	return b.String()
}
