package trend

import (
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

const dateLayout = "2006-01-02"

// Daily groups records by UTC calendar day, keeping chronological order.
func Daily(records []*analysis.Record) []DailyPoint {
	out := make([]DailyPoint, 0)
	index := map[string]int{}
	sums := make([][2]int, 0)

	for _, r := range records {
		day := r.CreatedAt.UTC().Format(dateLayout)
		i, ok := index[day]
		if !ok {
			i = len(out)
			index[day] = i
			out = append(out, DailyPoint{Date: day, PeakUrgency: string(analysis.UrgencyLow)})
			sums = append(sums, [2]int{})
		}
		out[i].Entries++
		sums[i][0] += r.Result.DepressionLevel
		sums[i][1] += r.Result.SuicideRiskLevel
		if u := r.Result.Urgency; u.Rank() > analysis.Urgency(out[i].PeakUrgency).Rank() {
			out[i].PeakUrgency = string(u)
		}
	}

	for i := range out {
		n := float64(out[i].Entries)
		out[i].AvgDepression = round2(float64(sums[i][0]) / n)
		out[i].AvgSuicideRisk = round2(float64(sums[i][1]) / n)
	}
	return out
}
