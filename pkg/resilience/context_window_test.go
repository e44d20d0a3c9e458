package resilience

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimNeverDropsSystemTurns(t *testing.T) {
	var events []TrimEvent
	m := NewContextWindowManager("cl100k_base", func(e TrimEvent) { events = append(events, e) })

	history := []Turn{
		{Role: "system", Content: strings.Repeat("sys ", 50)},
		{Role: "user", Content: strings.Repeat("old ", 50)},
		{Role: "assistant", Content: strings.Repeat("old reply ", 50)},
		{Role: "user", Content: "recent question"},
	}

	out := m.Trim(history, 5)

	foundSystem := false
	for _, turn := range out {
		if turn.Role == "system" {
			foundSystem = true
		}
	}
	assert.True(t, foundSystem, "system turn must never be dropped")
	require.NotEmpty(t, events)
	assert.Greater(t, events[0].TurnsRemoved, 0)
}

func TestTrimNoOpWhenUnderBudget(t *testing.T) {
	var events []TrimEvent
	m := NewContextWindowManager("cl100k_base", func(e TrimEvent) { events = append(events, e) })
	history := []Turn{{Role: "user", Content: "hi"}}
	out := m.Trim(history, 100000)
	assert.Equal(t, history, out)
	assert.Empty(t, events)
}
