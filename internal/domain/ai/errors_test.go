package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "configuration", Kind(ErrConfiguration))
	assert.Equal(t, "quota", Kind(fmt.Errorf("%w: %w", ErrTransport, ErrQuotaExceeded)))
	assert.Equal(t, "transport", Kind(fmt.Errorf("dial: %w", ErrTransport)))
	assert.Equal(t, "response_format", Kind(fmt.Errorf("%w: not json", ErrResponseFormat)))
	assert.Equal(t, "content_blocked", Kind(ErrContentBlocked))
	assert.Equal(t, "unknown", Kind(errors.New("other")))
}
