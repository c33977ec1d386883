package analysis

import (
	"strings"
	"time"
)

// Level bounds for both risk axes
const (
	MinLevel = 0
	MaxLevel = 10
)

// Urgency ordinal classification derived from the numeric levels
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyModerate Urgency = "moderate"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency maps untrusted input onto the four known values, defaulting to low.
func ParseUrgency(s string) Urgency {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(s))); u {
	case UrgencyLow, UrgencyModerate, UrgencyHigh, UrgencyCritical:
		return u
	default:
		return UrgencyLow
	}
}

// Rank orders urgencies low < moderate < high < critical.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyModerate:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether u ranks at or above o.
func (u Urgency) AtLeast(o Urgency) bool { return u.Rank() >= o.Rank() }

// Source records which scoring strategy produced a result
type Source string

const (
	SourceRemoteModel       Source = "remote_model"
	SourceHeuristicFallback Source = "heuristic_fallback"
)

const defaultReasoning = "No reasoning was provided for this assessment."

// Result is the canonical analysis of a single journal entry
type Result struct {
	DepressionLevel      int      `json:"depression_level"`
	SuicideRiskLevel     int      `json:"suicide_risk_level"`
	Urgency              Urgency  `json:"urgency"`
	EmotionalState       string   `json:"emotional_state"`
	DepressionIndicators []string `json:"depression_indicators"`
	SuicideIndicators    []string `json:"suicide_indicators"`
	PositiveIndicators   []string `json:"positive_indicators"`
	Recommendations      []string `json:"recommendations"`
	Reasoning            string   `json:"reasoning"`
	Source               Source   `json:"source"`
}

// ClampLevel bounds v into [MinLevel, MaxLevel].
func ClampLevel(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}

// Normalize enforces the result invariants regardless of where the value came from.
func (r Result) Normalize() Result {
	r.DepressionLevel = ClampLevel(r.DepressionLevel)
	r.SuicideRiskLevel = ClampLevel(r.SuicideRiskLevel)
	r.Urgency = ParseUrgency(string(r.Urgency))
	r.DepressionIndicators = nonNil(r.DepressionIndicators)
	r.SuicideIndicators = nonNil(r.SuicideIndicators)
	r.PositiveIndicators = nonNil(r.PositiveIndicators)
	r.Recommendations = nonNil(r.Recommendations)
	if strings.TrimSpace(r.Reasoning) == "" {
		r.Reasoning = defaultReasoning
	}
	if r.Source != SourceRemoteModel {
		r.Source = SourceHeuristicFallback
	}
	return r
}

// Clone returns a deep copy so snapshots cannot be mutated through shared slices.
func (r Result) Clone() Result {
	r.DepressionIndicators = append([]string{}, r.DepressionIndicators...)
	r.SuicideIndicators = append([]string{}, r.SuicideIndicators...)
	r.PositiveIndicators = append([]string{}, r.PositiveIndicators...)
	r.Recommendations = append([]string{}, r.Recommendations...)
	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// RecordID identifier type
type RecordID string

// Record is the persisted, append-only form of a Result
type Record struct {
	ID        RecordID  `json:"id"`
	UserID    string    `json:"user_id"`
	Result    Result    `json:"analysis"`
	CreatedAt time.Time `json:"created_at"`
}
