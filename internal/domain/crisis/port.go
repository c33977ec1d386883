package crisis

import "context"

// AlertRepository port for persisting and querying crisis alerts
type AlertRepository interface {
	Append(ctx context.Context, a *Alert) error
	// ListByUser returns alerts from the last days, newest first.
	ListByUser(ctx context.Context, userID string, days int) ([]*Alert, error)
}

// NotificationRepository port for persisting and querying notifications
type NotificationRepository interface {
	Append(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Notification, error)
}

// Dispatcher delivers a notification outside the service (email, chat webhook, ...).
type Dispatcher interface {
	Dispatch(ctx context.Context, a *Alert, n *Notification) error
}
