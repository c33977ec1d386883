package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// StripFences removes surrounding markdown code fences (```json ... ```) from a model reply.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		// drop the language tag line, e.g. "json"
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseReply validates an untrusted model reply field by field and returns a canonical
// remote_model result. Any reply that is not a JSON object carrying both levels is an
// ai.ErrResponseFormat.
func ParseReply(raw string) (analysis.Result, error) {
	body := StripFences(raw)
	if body == "" {
		return analysis.Result{}, fmt.Errorf("%w: empty reply", ai.ErrResponseFormat)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return analysis.Result{}, fmt.Errorf("%w: %v", ai.ErrResponseFormat, err)
	}

	dep, err := levelField(doc, "depression_level")
	if err != nil {
		return analysis.Result{}, err
	}
	sui, err := levelField(doc, "suicide_risk_level")
	if err != nil {
		return analysis.Result{}, err
	}

	res := analysis.Result{
		DepressionLevel:      dep,
		SuicideRiskLevel:     sui,
		Urgency:              analysis.ParseUrgency(stringField(doc, "urgency")),
		EmotionalState:       stringField(doc, "emotional_state"),
		DepressionIndicators: listField(doc, "depression_indicators"),
		SuicideIndicators:    listField(doc, "suicide_indicators"),
		PositiveIndicators:   listField(doc, "positive_indicators"),
		Recommendations:      listField(doc, "recommendations"),
		Reasoning:            stringField(doc, "reasoning"),
		Source:               analysis.SourceRemoteModel,
	}
	return res.Normalize(), nil
}

func levelField(doc map[string]any, key string) (int, error) {
	v, ok := doc[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: missing %s", ai.ErrResponseFormat, key)
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not numeric", ai.ErrResponseFormat, key)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ai.ErrResponseFormat, key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is not finite", ai.ErrResponseFormat, key)
	}
	// clamp before converting so huge values cannot overflow int
	f = math.Max(analysis.MinLevel, math.Min(analysis.MaxLevel, f))
	return int(f), nil
}

func stringField(doc map[string]any, key string) string {
	switch t := doc[key].(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	case float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

func listField(doc map[string]any, key string) []string {
	out := []string{}
	switch t := doc[key].(type) {
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		if strings.TrimSpace(t) != "" {
			out = append(out, strings.TrimSpace(t))
		}
	}
	return out
}
