// Package state holds the single shared interaction record and fans out
// typed change events to subscribers. All mutation is synchronous and runs
// on the update loop; the store exists so hover, keyboard and panel code
// observe one consistent view of the interaction.
package state

import "sourcelens/internal/element"

// Event is the tagged union of store change notifications. Each mutator
// emits exactly one concrete payload type, and only when a value actually
// changed.
type Event interface {
	event()
}

// ModifiersChanged reports the pointer modifier keys.
type ModifiersChanged struct {
	Primary   bool // hover-overlay modifier
	Secondary bool // hierarchical-tooltip modifier, held with the primary
}

// PointerMoved reports the latest pointer cell.
type PointerMoved struct {
	X int
	Y int
}

// TargetChanged reports the shared current target. Previous is the target
// that was current before this change, possibly nil.
type TargetChanged struct {
	Current  element.Handle
	Previous element.Handle
}

// KeyboardSelectionChanged reports the keyboard-navigation mode and cursor.
type KeyboardSelectionChanged struct {
	Active  bool
	Element element.Handle
}

// TreeSelectionChanged reports the tree-panel selection mode.
type TreeSelectionChanged struct {
	Active  bool
	Element element.Handle
}

// TooltipChanged reports hierarchical-tooltip visibility.
type TooltipChanged struct {
	Visible bool
	Pinned  bool
}

// ResetPerformed is emitted by Reset before any mode-specific cleanup runs.
type ResetPerformed struct{}

func (ModifiersChanged) event()         {}
func (PointerMoved) event()             {}
func (TargetChanged) event()            {}
func (KeyboardSelectionChanged) event() {}
func (TreeSelectionChanged) event()     {}
func (TooltipChanged) event()           {}
func (ResetPerformed) event()           {}
