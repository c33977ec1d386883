package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

var day0 = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

func rec(offset time.Duration, dep, sui int, u analysis.Urgency) *analysis.Record {
	return &analysis.Record{
		UserID:    "u1",
		CreatedAt: day0.Add(offset),
		Result:    analysis.Result{DepressionLevel: dep, SuicideRiskLevel: sui, Urgency: u},
	}
}

func series(dep []int, sui []int) []*analysis.Record {
	out := make([]*analysis.Record, len(dep))
	for i := range dep {
		out[i] = rec(time.Duration(i)*24*time.Hour, dep[i], sui[i], analysis.UrgencyLow)
	}
	return out
}

func TestDetect_InsufficientData(t *testing.T) {
	want := Labels{Depression: InsufficientData, SuicideRisk: InsufficientData, Overall: InsufficientData}
	assert.Equal(t, want, Detect(nil))
	assert.Equal(t, want, Detect(series([]int{9}, []int{9})))
}

func TestDetect_Directions(t *testing.T) {
	tests := []struct {
		name string
		dep  []int
		sui  []int
		want Labels
	}{
		{
			name: "depression 2 to 5 worsens",
			dep:  []int{2, 2, 5, 5},
			sui:  []int{1, 1, 1, 1},
			want: Labels{Depression: Worsening, SuicideRisk: Stable, Overall: Concerning},
		},
		{
			name: "2 to 2.5 stays stable",
			dep:  []int{2, 2, 2, 3},
			sui:  []int{2, 2, 2, 3},
			want: Labels{Depression: Stable, SuicideRisk: Stable, Overall: Stable},
		},
		{
			name: "both improve",
			dep:  []int{8, 7, 3, 2},
			sui:  []int{6, 6, 1, 0},
			want: Labels{Depression: Improving, SuicideRisk: Improving, Overall: Improving},
		},
		{
			name: "one improves only",
			dep:  []int{8, 8, 2, 2},
			sui:  []int{1, 1, 1, 1},
			want: Labels{Depression: Improving, SuicideRisk: Stable, Overall: Stable},
		},
		{
			name: "suicide risk worsening dominates improvement",
			dep:  []int{8, 8, 2, 2},
			sui:  []int{0, 0, 4, 4},
			want: Labels{Depression: Improving, SuicideRisk: Worsening, Overall: Concerning},
		},
		{
			// odd count: first half is [2,2,2], second half [5,5]
			name: "odd count gives extra record to first half",
			dep:  []int{2, 2, 2, 5, 5},
			sui:  []int{0, 0, 0, 0, 0},
			want: Labels{Depression: Worsening, SuicideRisk: Stable, Overall: Concerning},
		},
		{
			name: "exactly one point is not a change",
			dep:  []int{2, 3},
			sui:  []int{5, 4},
			want: Labels{Depression: Stable, SuicideRisk: Stable, Overall: Stable},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(series(tc.dep, tc.sui)))
		})
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, Stable, direction(2, 2.5))
	assert.Equal(t, Worsening, direction(2, 5))
	assert.Equal(t, Improving, direction(5, 2))
	assert.Equal(t, Stable, direction(2, 3))
}

func TestSummarize(t *testing.T) {
	records := []*analysis.Record{
		rec(0, 2, 1, analysis.UrgencyLow),
		rec(time.Hour, 7, 5, analysis.UrgencyHigh),
		rec(24*time.Hour, 9, 7, analysis.UrgencyCritical),
	}
	st := Summarize(records, 30)

	assert.Equal(t, 30, st.WindowDays)
	assert.Equal(t, 3, st.TotalEntries)
	assert.Equal(t, 6.0, st.AvgDepression)
	assert.Equal(t, 4.33, st.AvgSuicideRisk)
	assert.Equal(t, 9, st.MaxDepression)
	assert.Equal(t, 7, st.MaxSuicideRisk)
	assert.Equal(t, 2, st.RiskDays)
	assert.Equal(t, 1, st.SafeDays)
}

func TestSummarize_Empty(t *testing.T) {
	st := Summarize(nil, 7)
	assert.Equal(t, Statistics{WindowDays: 7}, st)
}

func TestDaily(t *testing.T) {
	records := []*analysis.Record{
		rec(0, 2, 1, analysis.UrgencyLow),
		rec(2*time.Hour, 5, 2, analysis.UrgencyHigh),
		rec(26*time.Hour, 3, 0, analysis.UrgencyModerate),
	}
	points := Daily(records)
	require.Len(t, points, 2)

	assert.Equal(t, "2025-10-01", points[0].Date)
	assert.Equal(t, 2, points[0].Entries)
	assert.Equal(t, 3.5, points[0].AvgDepression)
	assert.Equal(t, 1.5, points[0].AvgSuicideRisk)
	assert.Equal(t, "high", points[0].PeakUrgency)

	assert.Equal(t, "2025-10-02", points[1].Date)
	assert.Equal(t, "moderate", points[1].PeakUrgency)
	assert.Empty(t, Daily(nil))
}

func TestRecommend(t *testing.T) {
	t.Run("quiet window only gets resources", func(t *testing.T) {
		recs := Recommend(Statistics{TotalEntries: 3, SafeDays: 3}, Labels{Overall: Stable}, 0, "")
		require.Len(t, recs, 1)
		assert.Equal(t, PriorityInfo, recs[0].Priority)
		assert.Contains(t, recs[0].Text, "Crisis Hotline: 988,")
	})

	t.Run("configured hotline", func(t *testing.T) {
		recs := Recommend(Statistics{TotalEntries: 1, SafeDays: 1}, Labels{Overall: Stable}, 0, "116 123")
		last := recs[len(recs)-1]
		assert.Contains(t, last.Text, "Crisis Hotline: 116 123,")
		assert.NotContains(t, last.Text, "988")
	})

	t.Run("alerts and concerning trend", func(t *testing.T) {
		st := Statistics{TotalEntries: 4, AvgDepression: 5, RiskDays: 3, SafeDays: 1}
		recs := Recommend(st, Labels{Overall: Concerning}, 2, "988")

		var priorities []string
		for _, r := range recs {
			priorities = append(priorities, r.Priority)
		}
		assert.Equal(t, []string{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityMedium, PriorityInfo}, priorities)
	})

	t.Run("improving", func(t *testing.T) {
		recs := Recommend(Statistics{TotalEntries: 4, SafeDays: 4}, Labels{Overall: Improving}, 0, "988")
		require.Len(t, recs, 2)
		assert.Equal(t, PriorityLow, recs[0].Priority)
	})
}
