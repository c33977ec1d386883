package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, UrgencyCritical, ParseUrgency(" Critical "))
	assert.Equal(t, UrgencyModerate, ParseUrgency("moderate"))
	assert.Equal(t, UrgencyLow, ParseUrgency("severe"))
	assert.Equal(t, UrgencyLow, ParseUrgency(""))
}

func TestUrgency_AtLeast(t *testing.T) {
	assert.True(t, UrgencyCritical.AtLeast(UrgencyHigh))
	assert.True(t, UrgencyHigh.AtLeast(UrgencyHigh))
	assert.False(t, UrgencyModerate.AtLeast(UrgencyHigh))
	assert.False(t, Urgency("bogus").AtLeast(UrgencyModerate))
}

func TestResult_Normalize(t *testing.T) {
	r := Result{DepressionLevel: 14, SuicideRiskLevel: -2, Urgency: "HIGH", Source: "something"}.Normalize()

	assert.Equal(t, MaxLevel, r.DepressionLevel)
	assert.Equal(t, MinLevel, r.SuicideRiskLevel)
	assert.Equal(t, UrgencyHigh, r.Urgency)
	assert.NotNil(t, r.DepressionIndicators)
	assert.NotNil(t, r.SuicideIndicators)
	assert.NotNil(t, r.PositiveIndicators)
	assert.NotNil(t, r.Recommendations)
	assert.NotEmpty(t, r.Reasoning)
	assert.Equal(t, SourceHeuristicFallback, r.Source)

	remote := Result{Source: SourceRemoteModel}.Normalize()
	assert.Equal(t, SourceRemoteModel, remote.Source)
}

func TestResult_CloneIsDeep(t *testing.T) {
	orig := Result{DepressionIndicators: []string{"sad (moderate)"}, Recommendations: []string{"rest"}}
	c := orig.Clone()
	c.DepressionIndicators[0] = "changed"
	c.Recommendations = append(c.Recommendations, "more")

	assert.Equal(t, "sad (moderate)", orig.DepressionIndicators[0])
	assert.Equal(t, []string{"rest"}, orig.Recommendations)
}
