package scoring

import (
	"strings"

	"github.com/zhouzirui/scorecard/backend/internal/model/chat"
)

// instruction is shared by every LLM backend. The transcript is appended
// after it.
const instruction = `Analyze this customer service agent's responses and provide metrics in valid JSON format.
Focus only on the agent's behavior and responses, ignoring customer messages.
Evaluate based on these criteria:
- Politeness: Use of courteous language and respectful tone
- Professionalism: Maintaining composure and proper business etiquette
- Problem Resolution: Effectiveness in addressing the customer's issue
- Clarity: Clear and concise communication
- Emotional Intelligence: Understanding and appropriately responding to customer emotions
- Technical Accuracy: Correctness of technical information provided

Return ONLY a JSON object with these numeric values (0-100):
{
    "politeness": number,
    "professionalism": number,
    "problemResolution": number,
    "clarity": number,
    "emotionalIntelligence": number,
    "technicalAccuracy": number,
    "completionScore": number
}`

// BuildPrompt embeds the transcript window into the scoring instruction.
func BuildPrompt(window []chat.Utterance) string {
	var builder strings.Builder
	builder.WriteString(instruction)
	builder.WriteString("\n\nAgent responses to analyze:\n")
	builder.WriteString(FormatTranscript(window))
	return builder.String()
}

// FormatTranscript renders one "sender: content" line per utterance.
func FormatTranscript(window []chat.Utterance) string {
	lines := make([]string, 0, len(window))
	for _, u := range window {
		content := strings.TrimSpace(u.Content)
		if content == "" {
			continue
		}
		lines = append(lines, string(u.Sender)+": "+content)
	}
	return strings.Join(lines, "\n")
}
