package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
)

// MockProber is a mock implementation of ai.Prober
type MockProber struct {
	mock.Mock
}

func (m *MockProber) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestService_RunOnce(t *testing.T) {
	logger, hook := test.NewNullLogger()
	prober := &MockProber{}
	quota := fmt.Errorf("%w: %w", ai.ErrTransport, ai.ErrQuotaExceeded)
	prober.On("Ping", mock.Anything).Return(nil).Once()
	prober.On("Ping", mock.Anything).Return(quota).Once()

	svc := NewService(prober, "", time.Second, logrus.NewEntry(logger))
	assert.ErrorIs(t, svc.Check(context.Background()), ErrNotProbed)

	st := svc.RunOnce(context.Background())
	assert.NoError(t, st.Err)
	assert.NoError(t, svc.Check(context.Background()))

	st = svc.RunOnce(context.Background())
	assert.ErrorIs(t, st.Err, ai.ErrQuotaExceeded)
	assert.ErrorIs(t, svc.Check(context.Background()), ai.ErrTransport)

	last, ok := svc.Last()
	require.True(t, ok)
	assert.False(t, last.CheckedAt.IsZero())
	assert.Equal(t, "quota", hook.LastEntry().Data["kind"])
	prober.AssertExpectations(t)
}

func TestService_StartRejectsBadSchedule(t *testing.T) {
	svc := NewService(&MockProber{}, "not a cron line", time.Second, nil)
	assert.Error(t, svc.Start())
}

func TestService_StartProbesImmediately(t *testing.T) {
	prober := &MockProber{}
	prober.On("Ping", mock.Anything).Return(errors.New("refused"))

	svc := NewService(prober, "0 0 0 1 1 *", time.Second, nil)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.Eventually(t, func() bool {
		_, ok := svc.Last()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.EqualError(t, svc.Check(context.Background()), "refused")
}
