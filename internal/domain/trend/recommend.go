package trend

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
)

// Recommend derives prioritized suggestions from the statistics, the trend labels and the
// number of crisis alerts raised in the same window. The resource line naming hotline is
// always last.
func Recommend(st Statistics, labels Labels, alertCount int, hotline string) []Recommendation {
	var out []Recommendation

	if st.AvgDepression >= 7 || st.AvgSuicideRisk >= 5 || alertCount > 0 {
		out = append(out, Recommendation{
			Priority: PriorityUrgent,
			Text:     "Seek immediate professional mental health support. Consider contacting a crisis hotline or visiting an emergency room if having thoughts of self-harm.",
		})
	}
	if labels.Overall == Concerning {
		out = append(out, Recommendation{
			Priority: PriorityHigh,
			Text:     "Your mental health indicators show concerning trends. Consider scheduling an appointment with a mental health professional.",
		})
	}
	if st.AvgDepression >= 4 {
		out = append(out, Recommendation{
			Priority: PriorityMedium,
			Text:     "Consider incorporating mood-boosting activities like exercise, meditation, or social connections into your daily routine.",
		})
	}
	if st.RiskDays > st.SafeDays {
		out = append(out, Recommendation{
			Priority: PriorityMedium,
			Text:     "You've had more high-risk days recently. Consider developing a safety plan and identifying trusted support contacts.",
		})
	}
	if labels.Overall == Improving {
		out = append(out, Recommendation{
			Priority: PriorityLow,
			Text:     "Great progress! Continue the positive practices that are helping improve your mental health.",
		})
	}

	if strings.TrimSpace(hotline) == "" {
		hotline = crisis.DefaultHotline
	}
	out = append(out, Recommendation{
		Priority: PriorityInfo,
		Text:     fmt.Sprintf("Remember: Crisis Hotline: %s, Crisis Text Line: Text HOME to 741741", strings.TrimSpace(hotline)),
	})
	return out
}
