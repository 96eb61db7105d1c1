package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// payload is the JSON object every LLM backend must return. Pointers tell a
// missing field apart from an explicit zero.
type payload struct {
	Politeness            *float64 `json:"politeness"`
	Professionalism       *float64 `json:"professionalism"`
	ProblemResolution     *float64 `json:"problemResolution"`
	Clarity               *float64 `json:"clarity"`
	EmotionalIntelligence *float64 `json:"emotionalIntelligence"`
	TechnicalAccuracy     *float64 `json:"technicalAccuracy"`
	CompletionScore       *float64 `json:"completionScore"`
}

// ParsePayload extracts the first JSON object in content and converts it to
// scores. Every field must be present and numeric; otherwise the result is
// ErrMalformedPayload.
func ParsePayload(content string) (metrics.Scores, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("%w: missing json object", ErrMalformedPayload)
	}

	var p payload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	fields := []struct {
		name  metrics.Name
		key   string
		value *float64
	}{
		{metrics.Politeness, "politeness", p.Politeness},
		{metrics.Professionalism, "professionalism", p.Professionalism},
		{metrics.ProblemResolution, "problemResolution", p.ProblemResolution},
		{metrics.Clarity, "clarity", p.Clarity},
		{metrics.EmotionalIntelligence, "emotionalIntelligence", p.EmotionalIntelligence},
		{metrics.TechnicalAccuracy, "technicalAccuracy", p.TechnicalAccuracy},
		{metrics.Completion, "completionScore", p.CompletionScore},
	}

	scores := make(metrics.Scores, len(fields))
	for _, f := range fields {
		if f.value == nil {
			return nil, fmt.Errorf("%w: field %s missing", ErrMalformedPayload, f.key)
		}
		scores[f.name] = *f.value
	}
	return scores, nil
}
