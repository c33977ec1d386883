package crisis

import (
	"strings"

	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
)

// DefaultSuicideRiskThreshold is the suicide-risk level at which intervention starts.
const DefaultSuicideRiskThreshold = 5

// DefaultHotline is used when no crisis hotline is configured.
const DefaultHotline = "988"

// BuildMessage composes the notification text for res. The hotline sentence is only
// included when the suicide-risk level reaches threshold.
func BuildMessage(res analysis.Result, threshold int, hotline string) string {
	if strings.TrimSpace(hotline) == "" {
		hotline = DefaultHotline
	}
	var b strings.Builder
	b.WriteString("We noticed you might be going through a difficult time. ")
	if res.SuicideRiskLevel >= threshold {
		b.WriteString("If you're having thoughts of self-harm, please reach out for help immediately. ")
		b.WriteString("Crisis Hotline: " + hotline + ". ")
	}
	b.WriteString("Remember that support is available and you're not alone. ")
	b.WriteString("Consider reaching out to a mental health professional or trusted friend.")
	return b.String()
}
