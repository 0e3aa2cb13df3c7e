package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	q := New()
	q.Push(Event{Type: EventPointerDown, Button: ButtonLeft})
	q.Push(Event{Type: EventWheel, Delta: 1})
	assert.Equal(t, 2, q.Len())

	events := q.Drain()
	assert.Len(t, events, 2)
	assert.Equal(t, EventWheel, events[1].Type)
	assert.Zero(t, q.Len())
}

func TestMods(t *testing.T) {
	assert.False(t, Mod(0).Additive())
	assert.True(t, ModShift.Additive())
	assert.True(t, ModCtrl.Additive())
	assert.True(t, (ModShift | ModCtrl).Has(ModCtrl))
	assert.False(t, ModShift.Has(ModCtrl))
	assert.False(t, ModShift.Has(0))
}

func TestClick(t *testing.T) {
	events := Click(mgl64.Vec2{10, 20}, ButtonRight, ModShift)
	assert.Len(t, events, 2)
	assert.Equal(t, EventPointerDown, events[0].Type)
	assert.Equal(t, EventPointerUp, events[1].Type)
	assert.Equal(t, events[0].Pos, events[1].Pos)
	assert.Equal(t, ButtonRight, events[1].Button)
}
