package heuristic

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// positiveAdjustment is subtracted from both raw totals when protective language is present.
const positiveAdjustment = 2

// Score is the raw outcome of keyword matching.
type Score struct {
	Depression        int
	SuicideRisk       int
	DepressionMatches []string
	SuicideMatches    []string
	PositiveMatches   []string
	HasPositive       bool
	// CriticalMatch is set when any phrase of the critical suicide tier matched.
	CriticalMatch bool
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

func normalize(text string) string {
	return apostrophes.Replace(strings.ToLower(text))
}

// Options tunes matching beyond the plain lexicon rules. The zero value is the plain
// substring behavior.
type Options struct {
	// MaskRiskPhrases removes matched risk phrases before protective detection, so
	// "hopeless" no longer counts as "hope" and "better off dead" as "better".
	MaskRiskPhrases bool
}

// Evaluate scores text against the lexicon with default options. It is pure and deterministic.
func Evaluate(text string) Score { return EvaluateWith(text, Options{}) }

// EvaluateWith scores text against the lexicon using opts.
func EvaluateWith(text string, opts Options) Score {
	content := normalize(text)

	depRaw, depMatches, depPhrases := matchTiers(content, DepressionTiers)
	suiRaw, suiMatches, suiPhrases := matchTiers(content, SuicideTiers)

	protective := content
	if opts.MaskRiskPhrases {
		protective = mask(content, append(depPhrases, suiPhrases...))
	}
	var positives []string
	for _, p := range ProtectiveFactors {
		if strings.Contains(protective, p) {
			positives = append(positives, p)
		}
	}

	s := Score{
		DepressionMatches: depMatches,
		SuicideMatches:    suiMatches,
		PositiveMatches:   positives,
		HasPositive:       len(positives) > 0,
	}
	if s.HasPositive {
		depRaw = max(0, depRaw-positiveAdjustment)
		suiRaw = max(0, suiRaw-positiveAdjustment)
	}
	s.Depression = analysis.ClampLevel(depRaw)
	s.SuicideRisk = analysis.ClampLevel(suiRaw)

	for _, p := range SuicideTiers[0].Phrases {
		if strings.Contains(content, p) {
			s.CriticalMatch = true
			break
		}
	}
	return s
}

// matchTiers returns the raw weighted total, the labelled matches and the matched phrases.
// A phrase contributes at most once no matter how often it occurs.
func matchTiers(content string, tiers []Tier) (int, []string, []string) {
	total := 0
	labelled := []string{}
	var phrases []string
	seen := map[string]bool{}
	for _, t := range tiers {
		for _, p := range t.Phrases {
			if seen[p] || !strings.Contains(content, p) {
				continue
			}
			seen[p] = true
			total += t.Weight
			labelled = append(labelled, fmt.Sprintf("%s (%s)", p, t.Name))
			phrases = append(phrases, p)
		}
	}
	return total, labelled, phrases
}

func mask(content string, phrases []string) string {
	for _, p := range phrases {
		content = strings.ReplaceAll(content, p, " ")
	}
	return content
}

// UrgencyFor derives urgency from the levels; the first matching rule wins.
func UrgencyFor(depression, suicideRisk int) analysis.Urgency {
	switch {
	case suicideRisk >= 7 || depression >= 8:
		return analysis.UrgencyCritical
	case suicideRisk >= 5 || depression >= 6:
		return analysis.UrgencyHigh
	case suicideRisk >= 3 || depression >= 4:
		return analysis.UrgencyModerate
	default:
		return analysis.UrgencyLow
	}
}

// Urgency applies UrgencyFor and escalates any critical-tier match without protective
// language to critical.
func (s Score) Urgency() analysis.Urgency {
	if s.CriticalMatch && !s.HasPositive {
		return analysis.UrgencyCritical
	}
	return UrgencyFor(s.Depression, s.SuicideRisk)
}

var recommendations = map[analysis.Urgency][]string{
	analysis.UrgencyCritical: {
		"Seek immediate professional help or call crisis hotline",
		"Do not remain alone, reach out to trusted friends or family",
	},
	analysis.UrgencyHigh: {
		"Consider speaking with a mental health professional",
		"Reach out to supportive friends or family members",
	},
	analysis.UrgencyModerate: {
		"Consider self-care activities like exercise or meditation",
		"Connect with supportive people in your life",
	},
	analysis.UrgencyLow: {
		"Continue monitoring your mental health",
		"Maintain healthy habits and social connections",
	},
}

// Recommendations returns a copy of the fixed recommendation set for u.
func Recommendations(u analysis.Urgency) []string {
	return append([]string{}, recommendations[analysis.ParseUrgency(string(u))]...)
}

// Scorer adapts EvaluateWith to the canonical result shape.
type Scorer struct {
	Options Options
}

// Analyze scores text and wraps the outcome as a heuristic_fallback result.
func (sc Scorer) Analyze(text string) analysis.Result {
	s := EvaluateWith(text, sc.Options)
	u := s.Urgency()
	res := analysis.Result{
		DepressionLevel:      s.Depression,
		SuicideRiskLevel:     s.SuicideRisk,
		Urgency:              u,
		EmotionalState:       emotionalState(s),
		DepressionIndicators: s.DepressionMatches,
		SuicideIndicators:    s.SuicideMatches,
		PositiveIndicators:   append([]string{}, s.PositiveMatches...),
		Recommendations:      Recommendations(u),
		Reasoning:            fmt.Sprintf("Analysis performed using keyword-based fallback system (lexicon %s); remote model unavailable.", LexiconVersion),
		Source:               analysis.SourceHeuristicFallback,
	}
	return res.Normalize()
}

func emotionalState(s Score) string {
	risky := len(s.DepressionMatches)+len(s.SuicideMatches) > 0
	switch {
	case risky && s.HasPositive:
		return "mixed with positive elements"
	case risky:
		return "concerning"
	case s.HasPositive:
		return "positive"
	default:
		return "neutral"
	}
}
