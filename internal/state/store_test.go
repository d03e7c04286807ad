package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcelens/internal/element"
	"sourcelens/internal/memhost"
	"sourcelens/internal/overlay"
	"sourcelens/internal/state"
)

func newWidget(t *testing.T, id string) element.Handle {
	t.Helper()
	host := memhost.New()
	return host.AddRoot(id, id, overlay.Rect{Width: 5, Height: 2})
}

func TestStore_NotifiesOnlyOnChange(t *testing.T) {
	s := state.NewStore(nil)
	var events []state.Event
	s.Subscribe(func(ev state.Event) { events = append(events, ev) })

	s.SetPointer(3, 4)
	s.SetPointer(3, 4) // no-op
	s.SetModifiers(true, false)
	s.SetModifiers(true, false) // no-op

	require.Len(t, events, 2)
	assert.Equal(t, state.PointerMoved{X: 3, Y: 4}, events[0])
	assert.Equal(t, state.ModifiersChanged{Primary: true}, events[1])
}

func TestStore_RegistrationOrder(t *testing.T) {
	s := state.NewStore(nil)
	var order []string
	s.Subscribe(func(state.Event) { order = append(order, "first") })
	s.Subscribe(func(state.Event) { order = append(order, "second") })
	s.Subscribe(func(state.Event) { order = append(order, "third") })

	s.SetPointer(1, 1)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestStore_PanickingObserverIsIsolated(t *testing.T) {
	s := state.NewStore(nil)
	var reached bool
	s.Subscribe(func(state.Event) { panic("boom") })
	s.Subscribe(func(state.Event) { reached = true })

	assert.NotPanics(t, func() { s.SetPointer(1, 2) })
	assert.True(t, reached, "observer after the panicking one still runs")
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	s := state.NewStore(nil)
	var unsub func()
	var selfCalls, otherCalls int
	unsub = s.Subscribe(func(state.Event) {
		selfCalls++
		unsub()
	})
	s.Subscribe(func(state.Event) { otherCalls++ })

	s.SetPointer(1, 0)
	s.SetPointer(2, 0)

	assert.Equal(t, 1, selfCalls, "unsubscribed observer not called again")
	assert.Equal(t, 2, otherCalls)
}

func TestStore_UnsubscribeIdempotent(t *testing.T) {
	s := state.NewStore(nil)
	unsub := s.Subscribe(func(state.Event) {})
	unsub()
	assert.NotPanics(t, unsub)
}

func TestSetTarget_TracksPrevious(t *testing.T) {
	s := state.NewStore(nil)
	a := newWidget(t, "a")
	b := newWidget(t, "b")

	var last state.TargetChanged
	s.Subscribe(func(ev state.Event) {
		if tc, ok := ev.(state.TargetChanged); ok {
			last = tc
		}
	})

	s.SetTarget(a)
	assert.Equal(t, a, last.Current)
	assert.Nil(t, last.Previous)

	s.SetTarget(b)
	assert.Equal(t, b, last.Current)
	assert.Equal(t, a, last.Previous)

	s.SetTarget(b) // same element, no event
	snap := s.Snapshot()
	assert.Equal(t, b, snap.Target)
	assert.Equal(t, a, snap.PreviousTarget)
}

func TestReset_EmitsResetFirst(t *testing.T) {
	s := state.NewStore(nil)
	a := newWidget(t, "a")
	s.SetTarget(a)
	s.SetTreeSelection(true, a)
	s.SetModifiers(true, true)

	var events []state.Event
	s.Subscribe(func(ev state.Event) { events = append(events, ev) })

	s.Reset()

	require.NotEmpty(t, events)
	assert.IsType(t, state.ResetPerformed{}, events[0], "reset event precedes cleanup")

	snap := s.Snapshot()
	assert.Equal(t, state.State{}, snap)
	// Cleanup events for each previously set mode followed the reset.
	var sawTree, sawTarget, sawMods bool
	for _, ev := range events[1:] {
		switch ev.(type) {
		case state.TreeSelectionChanged:
			sawTree = true
		case state.TargetChanged:
			sawTarget = true
		case state.ModifiersChanged:
			sawMods = true
		}
	}
	assert.True(t, sawTree && sawTarget && sawMods)
}
