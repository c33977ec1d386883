package crisis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/journal-guard/internal/application"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	domain "github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

const (
	defaultPersistTimeout  = 5 * time.Second
	defaultDispatchTimeout = 15 * time.Second
)

// Config is the policy configuration injected at construction.
type Config struct {
	SuicideRiskThreshold int
	Hotline              string
}

// DefaultConfig returns the stock threshold and hotline.
func DefaultConfig() Config {
	return Config{SuicideRiskThreshold: domain.DefaultSuicideRiskThreshold, Hotline: domain.DefaultHotline}
}

// AlertObserver is notified for every alert raised.
type AlertObserver interface {
	ObserveAlert()
}

// Service is the crisis policy engine. It does not deduplicate: callers raise at most
// once per analysis result.
type Service struct {
	Config          Config
	Alerts          domain.AlertRepository
	Notifications   domain.NotificationRepository
	Dispatcher      domain.Dispatcher // optional
	Clock           application.Clock
	Metrics         AlertObserver
	PersistTimeout  time.Duration
	DispatchTimeout time.Duration
	Log             *logrus.Entry

	inflight sync.WaitGroup
}

// RequiresIntervention is true when the suicide-risk level reaches the threshold or the
// urgency is high or critical.
func (s *Service) RequiresIntervention(res analysis.Result) bool {
	return res.SuicideRiskLevel >= s.Config.SuicideRiskThreshold ||
		res.Urgency.AtLeast(analysis.UrgencyHigh)
}

// Raise creates the alert and its notification and persists them best-effort.
// Delivery to the Dispatcher happens in the background. Storage or delivery
// failures are logged and never returned.
func (s *Service) Raise(ctx context.Context, userID string, res analysis.Result) (*domain.Alert, *domain.Notification) {
	now := s.now()
	alert := &domain.Alert{
		ID:        domain.AlertID(uuid.New().String()),
		UserID:    userID,
		AlertType: domain.AlertTypeMentalHealth,
		RiskLevel: res.SuicideRiskLevel,
		Snapshot:  res.Clone(),
		Status:    domain.StatusActive,
		CreatedAt: now,
	}
	note := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		AlertID:   alert.ID,
		Message:   domain.BuildMessage(res, s.Config.SuicideRiskThreshold, s.Config.Hotline),
		Type:      domain.TypeCrisis,
		Priority:  domain.PriorityUrgent,
		CreatedAt: now,
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout())
	defer cancel()

	log := s.log().WithFields(logrus.Fields{"user_id": userID, "alert_id": alert.ID, "risk_level": alert.RiskLevel})
	if err := s.Alerts.Append(ctx, alert); err != nil {
		log.WithError(err).Error("failed to create crisis alert")
	}
	if err := s.Notifications.Append(ctx, note); err != nil {
		log.WithError(err).Error("failed to save crisis notification")
	}
	if s.Dispatcher != nil {
		s.dispatch(ctx, log, *alert, *note)
	}
	if s.Metrics != nil {
		s.Metrics.ObserveAlert()
	}
	log.WithField("urgency", res.Urgency).Warn("crisis alert raised")
	return alert, note
}

// dispatch delivers copies of the alert and notification on a goroutine bounded by
// DispatchTimeout.
func (s *Service) dispatch(parent context.Context, log *logrus.Entry, a domain.Alert, n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.dispatchTimeout())
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("crisis dispatch panicked")
			}
		}()
		if err := s.Dispatcher.Dispatch(ctx, &a, &n); err != nil {
			log.WithError(err).Warn("failed to deliver crisis notification")
		}
	}()
}

// Wait blocks until background deliveries finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AlertsFor lists the user's alerts from the last days.
func (s *Service) AlertsFor(ctx context.Context, userID string, days int) ([]*domain.Alert, error) {
	return s.Alerts.ListByUser(ctx, userID, days)
}

// NotificationsFor lists the user's most recent notifications.
func (s *Service) NotificationsFor(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	return s.Notifications.ListByUser(ctx, userID, limit)
}

func (s *Service) persistTimeout() time.Duration {
	if s.PersistTimeout > 0 {
		return s.PersistTimeout
	}
	return defaultPersistTimeout
}

func (s *Service) dispatchTimeout() time.Duration {
	if s.DispatchTimeout > 0 {
		return s.DispatchTimeout
	}
	return defaultDispatchTimeout
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) log() *logrus.Entry {
	if s.Log == nil {
		return logrus.WithField("component", "crisis")
	}
	return s.Log
}
