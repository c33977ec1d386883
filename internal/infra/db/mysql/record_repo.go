package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Append inserts one analysis record
func (r *RecordRepository) Append(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO mental_health_records
  (id, user_id, depression_level, suicide_risk_level, urgency, source, analysis_json, created_at)
VALUES (?,?,?,?,?,?,?,?)`
	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		string(rec.ID), rec.UserID,
		rec.Result.DepressionLevel, rec.Result.SuicideRiskLevel,
		string(rec.Result.Urgency), stringOrDash(string(rec.Result.Source)),
		string(payload), timeOrNow(rec.CreatedAt),
	)
	return err
}

// Window returns the user's records from the last days, oldest first
func (r *RecordRepository) Window(ctx context.Context, userID string, days int) ([]*domain.Record, error) {
	const q = `
SELECT id, user_id, analysis_json, created_at
FROM mental_health_records
WHERE user_id=? AND created_at >= ?
ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID, windowStart(days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var (
			rec     domain.Record
			payload []byte
			created time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &payload, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &rec.Result); err != nil {
			return nil, err
		}
		rec.Result = rec.Result.Normalize()
		rec.CreatedAt = created.UTC()
		out = append(out, &rec)
	}
	return out, rows.Err()
}
