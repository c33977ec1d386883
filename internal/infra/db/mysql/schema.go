package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS mental_health_records (
  id VARCHAR(64) NOT NULL PRIMARY KEY,
  user_id VARCHAR(128) NOT NULL,
  depression_level TINYINT NOT NULL,
  suicide_risk_level TINYINT NOT NULL,
  urgency VARCHAR(16) NOT NULL,
  source VARCHAR(32) NOT NULL,
  analysis_json JSON NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_records_user_created (user_id, created_at)
)`,
	`CREATE TABLE IF NOT EXISTS crisis_alerts (
  id VARCHAR(64) NOT NULL PRIMARY KEY,
  user_id VARCHAR(128) NOT NULL,
  alert_type VARCHAR(32) NOT NULL,
  risk_level TINYINT NOT NULL,
  analysis_json JSON NOT NULL,
  status VARCHAR(16) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_alerts_user_created (user_id, created_at)
)`,
	`CREATE TABLE IF NOT EXISTS notifications (
  id VARCHAR(64) NOT NULL PRIMARY KEY,
  user_id VARCHAR(128) NOT NULL,
  alert_id VARCHAR(64) NOT NULL,
  message TEXT NOT NULL,
  type VARCHAR(32) NOT NULL,
  priority VARCHAR(16) NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_notifications_user_created (user_id, created_at)
)`,
}

// EnsureSchema creates the tables used by the repositories when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql schema: %w", err)
		}
	}
	return nil
}
