package latency

import (
	"time"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

// MeanReply averages the gap between each agent utterance and the user
// utterance immediately before it. Other adjacent pairs are ignored.
// It returns 0 when the transcript holds no user→agent pair.
func MeanReply(history []chat.Utterance) time.Duration {
	var total time.Duration
	pairs := 0
	for i := 1; i < len(history); i++ {
		if history[i].FromAgent() && history[i-1].FromUser() {
			total += history[i].Timestamp.Sub(history[i-1].Timestamp)
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return total / time.Duration(pairs)
}

// SpeedScore converts a mean reply latency into a 0-100 score, losing one
// point per ten seconds.
func SpeedScore(mean time.Duration) float64 {
	return metrics.Clamp(100-mean.Seconds()/10, 0, 100)
}
