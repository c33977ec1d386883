package analysis

import "context"

// Repository port for historical analysis records
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	// Window returns the user's records from the last days, oldest first.
	Window(ctx context.Context, userID string, days int) ([]*Record, error)
}
