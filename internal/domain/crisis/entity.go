package crisis

import (
	"time"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// AlertID identifier type
type AlertID string

// AlertStatus enum
type AlertStatus string

const (
	StatusActive   AlertStatus = "active"
	StatusResolved AlertStatus = "resolved"
)

// AlertTypeMentalHealth is the only alert type raised by the policy engine.
const AlertTypeMentalHealth = "mental_health"

// Alert is raised when an analysis crosses the intervention thresholds.
// It is never modified after creation; resolution happens outside this service.
type Alert struct {
	ID        AlertID         `json:"id"`
	UserID    string          `json:"user_id"`
	AlertType string          `json:"alert_type"`
	RiskLevel int             `json:"risk_level"`
	Snapshot  analysis.Result `json:"analysis_snapshot"`
	Status    AlertStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotificationType enum
type NotificationType string

const TypeCrisis NotificationType = "crisis"

// Priority enum
type Priority string

const PriorityUrgent Priority = "urgent"

// Notification is the supportive message created alongside each Alert.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	AlertID   AlertID          `json:"alert_id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Priority  Priority         `json:"priority"`
	CreatedAt time.Time        `json:"created_at"`
}
