package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Append(ctx context.Context, a *domain.Alert) error {
	const q = `
INSERT INTO crisis_alerts
  (id, user_id, alert_type, risk_level, analysis_json, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	snap, err := json.Marshal(a.Snapshot)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		string(a.ID), a.UserID, stringOrDash(a.AlertType), a.RiskLevel,
		string(snap), stringOrDash(string(a.Status)), timeOrNow(a.CreatedAt),
	)
	return err
}

// ListByUser returns alerts raised in the last days, newest first
func (r *AlertRepository) ListByUser(ctx context.Context, userID string, days int) ([]*domain.Alert, error) {
	const q = `
SELECT id, user_id, alert_type, risk_level, analysis_json, status, created_at
FROM crisis_alerts
WHERE user_id=$1 AND created_at >= $2
ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, windowStart(days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Alert
	for rows.Next() {
		var (
			a       domain.Alert
			snap    []byte
			created time.Time
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.AlertType, &a.RiskLevel, &snap, &a.Status, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(snap, &a.Snapshot); err != nil {
			return nil, err
		}
		a.CreatedAt = created.UTC()
		out = append(out, &a)
	}
	return out, rows.Err()
}
