package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextChildWritesAreLocal(t *testing.T) {
	parent := NewContext(nil, nil)
	parent.Set("k", "parent-value")

	child := parent.Child()
	child.Set("k", "child-value")

	pv, _ := parent.Get("k")
	cv, _ := child.Get("k")
	assert.Equal(t, "parent-value", pv)
	assert.Equal(t, "child-value", cv)
}

func TestContextFindReadsThroughToParent(t *testing.T) {
	parent := NewContext(nil, nil)
	parent.Set("only-on-parent", 42)
	child := parent.Child()

	v, ok := child.Find("only-on-parent")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = child.Get("only-on-parent")
	assert.False(t, ok, "Get must not read through")
}

func TestInterruptIsIdempotent(t *testing.T) {
	// Property 8: cancellation idempotence.
	c := NewContext(nil, nil)
	assert.False(t, c.Interrupted())
	c.Interrupt()
	c.Interrupt()
	assert.True(t, c.Interrupted())
}

func TestEmitForwardsToEmitter(t *testing.T) {
	var got []string
	c := NewContext(nil, EventEmitterFunc(func(name string, payload any) {
		got = append(got, name)
	}))
	c.Emit("agent.started", nil)
	c.Emit("agent.stopped", nil)
	assert.Equal(t, []string{"agent.started", "agent.stopped"}, got)
}
