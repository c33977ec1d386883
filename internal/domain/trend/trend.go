package trend

import (
	"math"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// changeThreshold is how far the second-half mean must move before an axis changes label.
const changeThreshold = 1.0

// Summarize computes window statistics. Records are expected to be pre-filtered to the window.
func Summarize(records []*analysis.Record, windowDays int) Statistics {
	st := Statistics{WindowDays: windowDays}
	if len(records) == 0 {
		return st
	}

	var depSum, suiSum int
	for _, r := range records {
		dep, sui := r.Result.DepressionLevel, r.Result.SuicideRiskLevel
		depSum += dep
		suiSum += sui
		if dep > st.MaxDepression {
			st.MaxDepression = dep
		}
		if sui > st.MaxSuicideRisk {
			st.MaxSuicideRisk = sui
		}
		if r.Result.Urgency.AtLeast(analysis.UrgencyHigh) {
			st.RiskDays++
		}
	}
	st.TotalEntries = len(records)
	st.SafeDays = st.TotalEntries - st.RiskDays
	st.AvgDepression = round2(float64(depSum) / float64(st.TotalEntries))
	st.AvgSuicideRisk = round2(float64(suiSum) / float64(st.TotalEntries))
	return st
}

// Detect labels the direction of both axes by comparing the first and second half of the
// chronologically ordered series. The first half takes the extra record when the count is odd.
func Detect(records []*analysis.Record) Labels {
	if len(records) < 2 {
		return Labels{Depression: InsufficientData, SuicideRisk: InsufficientData, Overall: InsufficientData}
	}

	split := (len(records) + 1) / 2
	first, second := records[:split], records[split:]

	depFirst, suiFirst := means(first)
	depSecond, suiSecond := means(second)

	l := Labels{
		Depression:  direction(depFirst, depSecond),
		SuicideRisk: direction(suiFirst, suiSecond),
		Overall:     Stable,
	}
	switch {
	case l.Depression == Worsening || l.SuicideRisk == Worsening:
		l.Overall = Concerning
	case l.Depression == Improving && l.SuicideRisk == Improving:
		l.Overall = Improving
	}
	return l
}

func direction(first, second float64) Direction {
	switch {
	case second > first+changeThreshold:
		return Worsening
	case second < first-changeThreshold:
		return Improving
	default:
		return Stable
	}
}

func means(records []*analysis.Record) (dep, sui float64) {
	for _, r := range records {
		dep += float64(r.Result.DepressionLevel)
		sui += float64(r.Result.SuicideRiskLevel)
	}
	n := float64(len(records))
	return dep / n, sui / n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
