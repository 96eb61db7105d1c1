package chat

import "time"

// Session captures a transient scored conversation.
type Session struct {
	ID         string    `json:"id"`
	Scorer     string    `json:"scorer"`
	ScenarioID string    `json:"scenarioId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
