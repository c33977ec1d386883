package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
)

// DefaultProbeSchedule runs the classifier probe every five minutes.
const DefaultProbeSchedule = "0 */5 * * * *"

// ErrNotProbed is reported until the first probe completes.
var ErrNotProbed = errors.New("classifier not probed yet")

// ProbeStatus is the outcome of the latest probe.
type ProbeStatus struct {
	CheckedAt time.Time
	Latency   time.Duration
	Err       error
}

// Service periodically checks that the remote classifier answers.
type Service struct {
	prober   ai.Prober
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	log      *logrus.Entry

	mu   sync.RWMutex
	last *ProbeStatus
}

// NewService creates a probe scheduler. An empty schedule uses DefaultProbeSchedule.
func NewService(prober ai.Prober, schedule string, timeout time.Duration, log *logrus.Entry) *Service {
	if schedule == "" {
		schedule = DefaultProbeSchedule
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.WithField("component", "probe")
	}
	return &Service{
		prober:   prober,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithSeconds()),
		log:      log,
	}
}

// Start registers the probe and starts the cron loop. The first probe runs in the
// background right away.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("probe schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	go s.RunOnce(context.Background())
	s.log.Infof("Classifier probe scheduled with %q", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running probe.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.log.Info("Classifier probe stopped")
	}
}

// RunOnce probes the classifier and records the outcome.
func (s *Service) RunOnce(ctx context.Context) ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.prober.Ping(ctx)
	st := ProbeStatus{CheckedAt: start, Latency: time.Since(start), Err: err}

	if err != nil {
		s.log.WithError(err).WithField("kind", ai.Kind(err)).Warn("Classifier probe failed")
	} else {
		s.log.WithField("latency_ms", st.Latency.Milliseconds()).Debug("Classifier probe ok")
	}

	s.mu.Lock()
	s.last = &st
	s.mu.Unlock()
	return st
}

// Last returns the latest probe outcome, if any.
func (s *Service) Last() (ProbeStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return ProbeStatus{}, false
	}
	return *s.last, true
}

// Check reports the latest probe outcome without calling the classifier.
func (s *Service) Check(context.Context) error {
	st, ok := s.Last()
	if !ok {
		return ErrNotProbed
	}
	return st.Err
}
