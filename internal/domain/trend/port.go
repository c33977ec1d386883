package trend

import "context"

// Archive stores exported reports and returns where they can be fetched from.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
