package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

// Webhook posts a compact JSON summary of each alert to a chat webhook.
type Webhook struct {
	URL    string
	client *resty.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, client: resty.New().SetTimeout(10 * time.Second)}
}

type webhookPayload struct {
	Text      string    `json:"text"`
	AlertID   string    `json:"alert_id"`
	UserID    string    `json:"user_id"`
	RiskLevel int       `json:"risk_level"`
	Urgency   string    `json:"urgency"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *Webhook) Dispatch(ctx context.Context, a *crisis.Alert, n *crisis.Notification) error {
	payload := webhookPayload{
		Text:      fmt.Sprintf("Crisis alert for user %s: suicide risk %d/10, urgency %s", a.UserID, a.RiskLevel, a.Snapshot.Urgency),
		AlertID:   string(a.ID),
		UserID:    a.UserID,
		RiskLevel: a.RiskLevel,
		Urgency:   string(a.Snapshot.Urgency),
		Priority:  string(n.Priority),
		CreatedAt: a.CreatedAt,
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(w.URL)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
