package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/journal-guard/internal/application"
	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	domain "github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

const defaultPersistTimeout = 5 * time.Second

// Scorer is the local strategy used whenever the remote classifier cannot be used.
type Scorer interface {
	Analyze(text string) domain.Result
}

// Policy decides on and raises crisis interventions.
type Policy interface {
	RequiresIntervention(res domain.Result) bool
	Raise(ctx context.Context, userID string, res domain.Result) (*crisis.Alert, *crisis.Notification)
}

// Recorder receives analysis outcomes for metrics.
type Recorder interface {
	ObserveAnalysis(source domain.Source, failureKind string)
}

// Service orchestrates one analysis: remote classifier first, heuristic fallback,
// persistence and intervention. It holds no per-request state and is safe for concurrent use.
type Service struct {
	Classifier     ai.Classifier // nil when no credential is configured
	Fallback       Scorer
	Records        domain.Repository
	Policy         Policy
	Clock          application.Clock
	Metrics        Recorder
	PersistTimeout time.Duration
	Log            *logrus.Entry
}

// Analyze classifies text for userID. The only error it returns is domain.ErrInvalidInput.
func (s *Service) Analyze(ctx context.Context, text, userID string) (domain.Result, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Result{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(userID) == "" {
		return domain.Result{}, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	res, failure := s.classify(ctx, text, userID)
	if s.Metrics != nil {
		s.Metrics.ObserveAnalysis(res.Source, failure)
	}

	s.persist(ctx, userID, res)
	s.intervene(ctx, userID, res)
	return res, nil
}

// classify selects the strategy. It returns the failure kind when the remote branch was
// attempted and abandoned.
func (s *Service) classify(ctx context.Context, text, userID string) (domain.Result, string) {
	if s.Classifier == nil {
		return s.heuristic(text), ""
	}

	res, err := s.Classifier.Classify(ctx, text)
	if err != nil {
		kind := ai.Kind(err)
		s.log().WithFields(logrus.Fields{"user_id": userID, "kind": kind, "error": err}).
			Warn("remote classification failed, using heuristic fallback")
		return s.heuristic(text), kind
	}
	res.Source = domain.SourceRemoteModel
	return res.Normalize(), ""
}

func (s *Service) heuristic(text string) domain.Result {
	res := s.Fallback.Analyze(text)
	res.Source = domain.SourceHeuristicFallback
	return res.Normalize()
}

// persist appends the record with its own deadline; caller cancellation does not abort it.
func (s *Service) persist(ctx context.Context, userID string, res domain.Result) {
	if s.Records == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout())
	defer cancel()

	rec := &domain.Record{
		ID:        domain.RecordID(uuid.New().String()),
		UserID:    userID,
		Result:    res.Clone(),
		CreatedAt: s.now(),
	}
	if err := s.Records.Append(ctx, rec); err != nil {
		s.log().WithFields(logrus.Fields{"user_id": userID, "error": err}).
			Error("failed to save mental health record")
	}
}

// intervene raises at most one alert for res. Failures inside alerting never reach the caller.
func (s *Service) intervene(ctx context.Context, userID string, res domain.Result) {
	if s.Policy == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log().WithFields(logrus.Fields{"user_id": userID, "panic": r}).
				Error("crisis intervention failed")
		}
	}()
	if !s.Policy.RequiresIntervention(res) {
		return
	}
	s.Policy.Raise(ctx, userID, res.Clone())
}

func (s *Service) persistTimeout() time.Duration {
	if s.PersistTimeout > 0 {
		return s.PersistTimeout
	}
	return defaultPersistTimeout
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) log() *logrus.Entry {
	if s.Log == nil {
		return logrus.WithField("component", "analysis")
	}
	return s.Log
}
