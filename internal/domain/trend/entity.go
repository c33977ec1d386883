package trend

import "time"

// Direction is a per-axis or overall trend label
type Direction string

const (
	Improving        Direction = "improving"
	Stable           Direction = "stable"
	Worsening        Direction = "worsening"
	Concerning       Direction = "concerning"
	InsufficientData Direction = "insufficient_data"
)

// Statistics aggregates a window of historical records
type Statistics struct {
	WindowDays     int     `json:"window_days"`
	TotalEntries   int     `json:"total_entries"`
	AvgDepression  float64 `json:"avg_depression"`
	AvgSuicideRisk float64 `json:"avg_suicide_risk"`
	MaxDepression  int     `json:"max_depression"`
	MaxSuicideRisk int     `json:"max_suicide_risk"`
	RiskDays       int     `json:"risk_days"`
	SafeDays       int     `json:"safe_days"`
}

// Labels holds the trend direction per axis plus the overall label
type Labels struct {
	Depression  Direction `json:"depression_trend"`
	SuicideRisk Direction `json:"suicide_risk_trend"`
	Overall     Direction `json:"overall_trend"`
}

// DailyPoint is one calendar day of averaged levels, used for charting
type DailyPoint struct {
	Date           string  `json:"date"`
	Entries        int     `json:"entries"`
	AvgDepression  float64 `json:"avg_depression"`
	AvgSuicideRisk float64 `json:"avg_suicide_risk"`
	PeakUrgency    string  `json:"peak_urgency"`
}

// Recommendation priorities
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityInfo   = "info"
)

// Recommendation is a prioritized suggestion derived from a report
type Recommendation struct {
	Priority string `json:"priority"`
	Text     string `json:"text"`
}

// Report is a transient view over a window of records; it is never persisted.
type Report struct {
	UserID          string           `json:"user_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Statistics      Statistics       `json:"statistics"`
	Trend           Labels           `json:"trend"`
	Daily           []DailyPoint     `json:"daily"`
	AlertCount      int              `json:"alert_count"`
	Recommendations []Recommendation `json:"recommendations"`
}
