package scenario

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

//go:embed scenarios.yaml
var seedYAML []byte

// Scenario is a scripted conversation used for playback.
type Scenario struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Lines []string `json:"lines" yaml:"lines"`
}

// SenderAt returns who speaks line i. Scripts open with the agent and
// alternate from there.
func SenderAt(i int) chat.Sender {
	if i%2 == 0 {
		return chat.SenderAgent
	}
	return chat.SenderUser
}

// Parse decodes a YAML scenario list.
func Parse(data []byte) ([]Scenario, error) {
	var items []Scenario
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("scenario %d: missing id", i)
		}
		if len(item.Lines) == 0 {
			return nil, fmt.Errorf("scenario %s: no lines", item.ID)
		}
	}
	return items, nil
}

// Seed returns the built-in scripted conversations.
func Seed() []Scenario {
	items, err := Parse(seedYAML)
	if err != nil {
		panic(err)
	}
	return items
}
