package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

const validPayload = `{"politeness": 90, "professionalism": 80, "problemResolution": 70,
"clarity": 60, "emotionalIntelligence": 50, "technicalAccuracy": 40, "completionScore": 30}`

func TestParsePayloadValid(t *testing.T) {
	scores, err := ParsePayload(validPayload)
	require.NoError(t, err)
	assert.Equal(t, metrics.Scores{
		metrics.Politeness:            90,
		metrics.Professionalism:       80,
		metrics.ProblemResolution:     70,
		metrics.Clarity:               60,
		metrics.EmotionalIntelligence: 50,
		metrics.TechnicalAccuracy:     40,
		metrics.Completion:            30,
	}, scores)
}

func TestParsePayloadToleratesSurroundingText(t *testing.T) {
	scores, err := ParsePayload("Sure! Here you go:\n```json\n" + validPayload + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 30.0, scores[metrics.Completion])
}

func TestParsePayloadExplicitZeroIsValid(t *testing.T) {
	scores, err := ParsePayload(`{"politeness":0,"professionalism":0,"problemResolution":0,"clarity":0,"emotionalIntelligence":0,"technicalAccuracy":0,"completionScore":0}`)
	require.NoError(t, err)
	assert.True(t, scores.Complete())
}

func TestParsePayloadMalformed(t *testing.T) {
	cases := map[string]string{
		"no object":     "I cannot score this conversation.",
		"broken json":   `{"politeness": 90,`,
		"missing field": `{"politeness": 90, "professionalism": 80}`,
		"string value":  `{"politeness":"high","professionalism":0,"problemResolution":0,"clarity":0,"emotionalIntelligence":0,"technicalAccuracy":0,"completionScore":0}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePayload(content)
			assert.True(t, errors.Is(err, ErrMalformedPayload), "got %v", err)
		})
	}
}
