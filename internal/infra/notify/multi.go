package notify

import (
	"context"
	"errors"

	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

// Multi fans an alert out to every dispatcher and joins their errors.
type Multi []crisis.Dispatcher

func (m Multi) Dispatch(ctx context.Context, a *crisis.Alert, n *crisis.Notification) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, a, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
