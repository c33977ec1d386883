package heuristic

// LexiconVersion identifies the phrase tables below. Bump it whenever a phrase or weight changes.
const LexiconVersion = "2025.11"

// Tier is a group of phrases sharing one severity weight.
type Tier struct {
	Name    string
	Weight  int
	Phrases []string
}

// DepressionTiers are ordered from most to least severe.
var DepressionTiers = []Tier{
	{Name: "high", Weight: 3, Phrases: []string{
		"suicide", "kill myself", "end it all", "no point", "don't see the point",
		"hopeless", "worthless",
	}},
	{Name: "moderate", Weight: 2, Phrases: []string{
		"depressed", "sad", "empty", "alone", "tired", "exhausted", "meaningless",
	}},
	{Name: "low", Weight: 1, Phrases: []string{
		"down", "upset", "worried", "stressed", "anxious",
	}},
}

// SuicideTiers are ordered from most to least severe.
var SuicideTiers = []Tier{
	{Name: "critical", Weight: 4, Phrases: []string{
		"kill myself", "suicide", "end it all", "better off dead", "plan to die",
	}},
	{Name: "high", Weight: 3, Phrases: []string{
		"want to die", "no point living", "can't go on", "hopeless",
	}},
	{Name: "moderate", Weight: 2, Phrases: []string{
		"worthless", "burden", "everyone would be better without me",
	}},
	{Name: "low", Weight: 1, Phrases: []string{
		"tired of life", "what's the point",
	}},
}

// ProtectiveFactors signal positive or protective language.
var ProtectiveFactors = []string{
	"happy", "grateful", "thankful", "blessed", "love", "excited", "hope", "better", "improving",
}
