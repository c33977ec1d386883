package trend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bryanwahyu/journal-guard/internal/application"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
	domain "github.com/bryanwahyu/journal-guard/internal/domain/trend"
)

// DefaultWindowDays is used when the caller passes no window.
const DefaultWindowDays = 30

// ErrArchiveDisabled is returned by Export when no archive is configured.
var ErrArchiveDisabled = errors.New("report archive not configured")

// Service builds trend reports from stored records.
type Service struct {
	Records analysis.Repository
	Alerts  crisis.AlertRepository // optional
	Archive domain.Archive         // optional
	Clock   application.Clock
	// Hotline is named in the resource recommendation; empty means crisis.DefaultHotline.
	Hotline string
}

// Report reads the user's window and derives statistics, trend labels, the daily series
// and recommendations.
func (s *Service) Report(ctx context.Context, userID string, days int) (*domain.Report, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}
	records, err := s.Records.Window(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	alertCount := 0
	if s.Alerts != nil {
		alerts, err := s.Alerts.ListByUser(ctx, userID, days)
		if err != nil {
			return nil, fmt.Errorf("reading alerts: %w", err)
		}
		alertCount = len(alerts)
	}

	stats := domain.Summarize(records, days)
	labels := domain.Detect(records)
	return &domain.Report{
		UserID:          userID,
		GeneratedAt:     s.now(),
		Statistics:      stats,
		Trend:           labels,
		Daily:           domain.Daily(records),
		AlertCount:      alertCount,
		Recommendations: domain.Recommend(stats, labels, alertCount, s.Hotline),
	}, nil
}

// Export builds the report and stores it as JSON in the archive, returning its location.
func (s *Service) Export(ctx context.Context, userID string, days int) (string, error) {
	if s.Archive == nil {
		return "", ErrArchiveDisabled
	}
	rep, err := s.Report(ctx, userID, days)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	key := fmt.Sprintf("%s/reports/%s.json", userID, rep.GeneratedAt.UTC().Format("20060102T150405Z"))
	return s.Archive.Put(ctx, key, data, "application/json")
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
