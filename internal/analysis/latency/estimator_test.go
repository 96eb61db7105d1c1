package latency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

func at(sender chat.Sender, offset time.Duration) chat.Utterance {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return chat.Utterance{Sender: sender, Timestamp: base.Add(offset)}
}

func TestMeanReplyOnlyCountsUserThenAgent(t *testing.T) {
	history := []chat.Utterance{
		at(chat.SenderAgent, 0),
		at(chat.SenderUser, 10*time.Second),
		at(chat.SenderAgent, 14*time.Second), // 4s
		at(chat.SenderAgent, 60*time.Second), // agent→agent, skipped
		at(chat.SenderUser, 70*time.Second),
		at(chat.SenderUser, 80*time.Second), // user→user, skipped
		at(chat.SenderAgent, 88*time.Second), // 8s
	}

	assert.Equal(t, 6*time.Second, MeanReply(history))
}

func TestMeanReplyNoPairs(t *testing.T) {
	assert.Zero(t, MeanReply(nil))
	assert.Zero(t, MeanReply([]chat.Utterance{at(chat.SenderAgent, 0), at(chat.SenderAgent, time.Second)}))
}

func TestSpeedScore(t *testing.T) {
	assert.Equal(t, 100.0, SpeedScore(0))
	assert.Equal(t, 97.0, SpeedScore(30*time.Second))
	assert.Equal(t, 0.0, SpeedScore(2000*time.Second))
	assert.Equal(t, 100.0, SpeedScore(-5*time.Second))
}
