package ai

import (
	"context"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// Classifier scores a journal entry with a remote generative model.
type Classifier interface {
	Classify(ctx context.Context, text string) (analysis.Result, error)
}

// Prober checks connectivity with the remote model.
type Prober interface {
	Ping(ctx context.Context) error
}
