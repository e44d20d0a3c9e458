package resilience

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// Turn is one message in a conversation history, in the shape the
// context-window manager trims.
type Turn struct {
	Role    string // "system", "user", "assistant", "tool"
	Content string
}

// TrimEvent is emitted after a trim pass describing what was removed,
// for the telemetry recorder to capture.
type TrimEvent struct {
	TurnsRemoved  int
	TokensBefore  int
	TokensAfter   int
	Budget        int
}

// ContextWindowManager trims conversation history to fit within a
// model's context budget, never dropping system turns.
type ContextWindowManager struct {
	encoding *tiktoken.Tiktoken
	onTrim   func(TrimEvent)
}

// NewContextWindowManager builds a manager using the named tiktoken
// encoding (e.g. "cl100k_base"). If the encoding cannot be loaded, the
// manager falls back to a heuristic of 4 bytes-per-token.
func NewContextWindowManager(encodingName string, onTrim func(TrimEvent)) *ContextWindowManager {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		slog.Warn("context window: falling back to heuristic token counting", "encoding", encodingName, "error", err)
		enc = nil
	}
	return &ContextWindowManager{encoding: enc, onTrim: onTrim}
}

// countTokens returns the token count for s, using tiktoken when
// available and a 4-bytes-per-token heuristic otherwise.
func (m *ContextWindowManager) countTokens(s string) int {
	if m.encoding != nil {
		return len(m.encoding.Encode(s, nil, nil))
	}
	n := len(s) / 4
	if n == 0 && len(s) > 0 {
		n = 1
	}
	return n
}

// Trim removes history turns, oldest non-system turn first, until the
// total token count is at or under budget. System messages are never
// removed, even if that leaves the result over budget.
func (m *ContextWindowManager) Trim(history []Turn, budget int) []Turn {
	total := 0
	for _, t := range history {
		total += m.countTokens(t.Content)
	}
	before := total
	removed := 0

	out := make([]Turn, len(history))
	copy(out, history)

	for i := 0; i < len(out) && total > budget; i++ {
		if out[i].Role == "system" {
			continue
		}
		total -= m.countTokens(out[i].Content)
		out = append(out[:i], out[i+1:]...)
		removed++
		i--
	}

	if removed > 0 && m.onTrim != nil {
		m.onTrim(TrimEvent{
			TurnsRemoved: removed,
			TokensBefore: before,
			TokensAfter:  total,
			Budget:       budget,
		})
	}
	return out
}
