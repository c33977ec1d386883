package prompt

import (
	"fmt"
	"strconv"
)

// GetSystemPrompt provides strict directions and the schema for the JSON output.
func GetSystemPrompt() string {
	return `You are a mental health assessment tool. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- depression_level and suicide_risk_level are integers from 0 to 10.
- urgency is one of: low, moderate, high, critical.
- List fields are arrays of short strings; use an empty array when nothing applies.
- Be sensitive but thorough. Err on the side of caution for safety.

Key indicators:
- Depression: persistent sadness, hopelessness, worthlessness, loss of interest, sleep issues, fatigue, concentration problems.
- Suicide risk: hopelessness, worthlessness, isolation, specific plans, means, previous attempts, substance abuse.
- Positive factors: social support, future plans, coping strategies, help-seeking behavior.

Schema (example with empty values):
{
  "depression_level": 0,
  "depression_indicators": [],
  "suicide_risk_level": 0,
  "suicide_indicators": [],
  "emotional_state": "<string>",
  "positive_indicators": [],
  "recommendations": [],
  "urgency": "<low|moderate|high|critical>",
  "reasoning": "<string>"
}`
}

// GetUserPrompt wraps the diary entry. The entry is quoted so it cannot close the instruction.
func GetUserPrompt(entry string) string {
	return fmt.Sprintf("Analyze the following diary entry and respond with the JSON per schema only.\n\nDiary entry:\n%s", strconv.Quote(entry))
}

// GetProbePrompt is a minimal request used to check connectivity. JSON mode endpoints
// reject requests whose messages never mention JSON, so the word must stay in.
func GetProbePrompt() string {
	return `Respond with this JSON object only: {"status":"ok"}`
}
