package state

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sourcelens/internal/element"
)

// State is the interaction record shared by every input mode.
type State struct {
	PrimaryHeld   bool
	SecondaryHeld bool

	PointerX int
	PointerY int

	Target         element.Handle
	PreviousTarget element.Handle

	KeyboardActive  bool
	KeyboardElement element.Handle

	TreeActive  bool
	TreeElement element.Handle

	TooltipVisible bool
	TooltipPinned  bool
}

// Observer receives store change events.
type Observer func(Event)

type subscription struct {
	id string
	fn Observer
}

// Store owns the State and notifies observers on every actual change,
// synchronously and in registration order.
type Store struct {
	log   *zap.Logger
	state State
	subs  []subscription
	live  map[string]bool
}

// NewStore creates a store with the initial (empty) interaction state.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{log: log, live: make(map[string]bool)}
}

// Subscribe registers an observer and returns its unsubscribe function.
// Unsubscribing is idempotent and safe to call from inside the observer's
// own notification callback.
func (s *Store) Subscribe(fn Observer) func() {
	id := uuid.NewString()
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.live[id] = true
	return func() {
		if !s.live[id] {
			return
		}
		delete(s.live, id)
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State { return s.state }

// SetModifiers records the pointer modifier keys.
func (s *Store) SetModifiers(primary, secondary bool) {
	if s.state.PrimaryHeld == primary && s.state.SecondaryHeld == secondary {
		return
	}
	s.state.PrimaryHeld = primary
	s.state.SecondaryHeld = secondary
	s.notify(ModifiersChanged{Primary: primary, Secondary: secondary})
}

// SetPointer records the pointer cell.
func (s *Store) SetPointer(x, y int) {
	if s.state.PointerX == x && s.state.PointerY == y {
		return
	}
	s.state.PointerX = x
	s.state.PointerY = y
	s.notify(PointerMoved{X: x, Y: y})
}

// SetTarget updates the shared current target, keeping the previous one
// available to observers. The store holds the handle only as a weak
// relation; it never owns the element.
func (s *Store) SetTarget(h element.Handle) {
	if sameHandle(s.state.Target, h) {
		return
	}
	s.state.PreviousTarget = s.state.Target
	s.state.Target = h
	s.notify(TargetChanged{Current: h, Previous: s.state.PreviousTarget})
}

// SetKeyboard records keyboard-navigation mode and its cursor element.
func (s *Store) SetKeyboard(active bool, h element.Handle) {
	if s.state.KeyboardActive == active && sameHandle(s.state.KeyboardElement, h) {
		return
	}
	s.state.KeyboardActive = active
	s.state.KeyboardElement = h
	s.notify(KeyboardSelectionChanged{Active: active, Element: h})
}

// SetTreeSelection records tree-panel selection mode and its element.
func (s *Store) SetTreeSelection(active bool, h element.Handle) {
	if s.state.TreeActive == active && sameHandle(s.state.TreeElement, h) {
		return
	}
	s.state.TreeActive = active
	s.state.TreeElement = h
	s.notify(TreeSelectionChanged{Active: active, Element: h})
}

// SetTooltip records hierarchical-tooltip visibility.
func (s *Store) SetTooltip(visible, pinned bool) {
	if s.state.TooltipVisible == visible && s.state.TooltipPinned == pinned {
		return
	}
	s.state.TooltipVisible = visible
	s.state.TooltipPinned = pinned
	s.notify(TooltipChanged{Visible: visible, Pinned: pinned})
}

// Reset restores the initial state. The generic ResetPerformed event goes
// out before any mode-specific cleanup so observers can drop caches first.
func (s *Store) Reset() {
	s.notify(ResetPerformed{})
	prev := s.state
	s.state = State{}
	if prev.TreeActive || prev.TreeElement != nil {
		s.notify(TreeSelectionChanged{})
	}
	if prev.KeyboardActive || prev.KeyboardElement != nil {
		s.notify(KeyboardSelectionChanged{})
	}
	if prev.Target != nil {
		s.notify(TargetChanged{Previous: prev.Target})
	}
	if prev.TooltipVisible || prev.TooltipPinned {
		s.notify(TooltipChanged{})
	}
	if prev.PrimaryHeld || prev.SecondaryHeld {
		s.notify(ModifiersChanged{})
	}
}

// notify delivers ev to every observer registered at call time. The
// subscriber list is snapshotted so observers can unsubscribe mid-iteration,
// and a panicking observer is isolated from the rest.
func (s *Store) notify(ev Event) {
	snapshot := make([]subscription, len(s.subs))
	copy(snapshot, s.subs)
	for _, sub := range snapshot {
		if !s.live[sub.id] {
			continue
		}
		s.invoke(sub, ev)
	}
}

func (s *Store) invoke(sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("observer panicked",
				zap.String("subscription", sub.id),
				zap.Any("event", ev),
				zap.Any("panic", r))
		}
	}()
	sub.fn(ev)
}

func sameHandle(a, b element.Handle) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}
