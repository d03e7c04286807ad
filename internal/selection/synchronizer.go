// Package selection reconciles the three selection producers — pointer
// hover, keyboard cursor and tree-panel click — into the single element the
// highlight overlay may show.
package selection

import (
	"go.uber.org/zap"

	"sourcelens/internal/element"
	"sourcelens/internal/hierarchy"
	"sourcelens/internal/state"
)

// Origin names the producer that currently owns the highlight.
type Origin int

const (
	OriginNone Origin = iota
	OriginHover
	OriginKeyboard
	OriginTree
)

func (o Origin) String() string {
	switch o {
	case OriginHover:
		return "hover"
	case OriginKeyboard:
		return "keyboard"
	case OriginTree:
		return "tree"
	default:
		return "none"
	}
}

// Synchronizer applies the precedence rules over the shared store. The tree
// accessor always returns the current forest; the panel hooks let the
// floating panel mirror hover without re-entering the overlay path.
type Synchronizer struct {
	log   *zap.Logger
	store *state.Store
	reg   *element.Registry
	tree  func() *hierarchy.Tree

	panelOpen func() bool
	reveal    func(*hierarchy.Node)

	lastRevealed string // node id of the last panel sync, for idempotence
}

// NewSynchronizer creates a synchronizer over the store and registry.
func NewSynchronizer(store *state.Store, reg *element.Registry, tree func() *hierarchy.Tree, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{log: log, store: store, reg: reg, tree: tree}
}

// SetPanelHooks wires the floating panel: open reports visibility, reveal
// expands the ancestor chain and selects a node in the panel.
func (s *Synchronizer) SetPanelHooks(open func() bool, reveal func(*hierarchy.Node)) {
	s.panelOpen = open
	s.reveal = reveal
}

// PrimaryPressed enters hover mode. Any active tree-panel selection is
// cleared first so two highlights can never coexist: entering hover always
// wins over a stale tree selection.
func (s *Synchronizer) PrimaryPressed(secondary bool) {
	snap := s.store.Snapshot()
	if snap.TreeActive {
		s.log.Debug("hover modifier pressed, clearing tree selection")
		s.store.SetTreeSelection(false, nil)
	}
	s.store.SetModifiers(true, secondary)
}

// PrimaryReleased leaves hover mode. The shared target is dropped unless
// the keyboard cursor still owns it.
func (s *Synchronizer) PrimaryReleased() {
	s.store.SetModifiers(false, false)
	snap := s.store.Snapshot()
	if !snap.KeyboardActive && !snap.TreeActive {
		s.store.SetTarget(nil)
	}
}

// HoverOver routes a pointer hit. Ignored while the hover modifier is up.
// When the panel is open and the element exists in the forest, the panel
// reveals that node; re-revealing the already revealed node is a no-op.
func (s *Synchronizer) HoverOver(h element.Handle) {
	snap := s.store.Snapshot()
	if !snap.PrimaryHeld {
		return
	}
	if h != nil && !s.reg.Inspectable(h) {
		h = s.reg.NearestInspectableAncestor(h)
	}
	if h == nil {
		s.store.SetTarget(nil)
		return
	}
	s.store.SetTarget(h)
	s.syncPanel(h)
}

// TreeSelect records an authoritative tree-panel selection.
func (s *Synchronizer) TreeSelect(n *hierarchy.Node) {
	if n == nil {
		return
	}
	s.store.SetTreeSelection(true, n.Element)
	s.store.SetTarget(n.Element)
	s.lastRevealed = n.ID
}

// ClearTreeSelection deactivates tree-selection mode (programmatic clear,
// Escape, or panel close).
func (s *Synchronizer) ClearTreeSelection() {
	snap := s.store.Snapshot()
	if !snap.TreeActive {
		return
	}
	s.store.SetTreeSelection(false, nil)
	if !snap.KeyboardActive && !snap.PrimaryHeld {
		s.store.SetTarget(nil)
	}
	s.lastRevealed = ""
}

// KeyboardSelect records the keyboard cursor and keeps the shared target on
// it, so the overlay tracks keyboard navigation.
func (s *Synchronizer) KeyboardSelect(h element.Handle) {
	s.store.SetKeyboard(true, h)
	s.store.SetTarget(h)
}

// ClearKeyboardSelection leaves keyboard-navigation mode.
func (s *Synchronizer) ClearKeyboardSelection() {
	snap := s.store.Snapshot()
	if !snap.KeyboardActive {
		return
	}
	s.store.SetKeyboard(false, nil)
	if !snap.TreeActive && !snap.PrimaryHeld {
		s.store.SetTarget(nil)
	}
}

// Resolve returns the one element the overlay may highlight, and which
// producer owns it. Precedence: tree-selection, then keyboard selection,
// then plain hover, then nothing. A stale handle at any level degrades to
// the next one rather than erroring.
func (s *Synchronizer) Resolve() (element.Handle, Origin) {
	snap := s.store.Snapshot()
	if snap.TreeActive && alive(snap.TreeElement) {
		return snap.TreeElement, OriginTree
	}
	if snap.KeyboardActive && alive(snap.KeyboardElement) {
		return snap.KeyboardElement, OriginKeyboard
	}
	if snap.PrimaryHeld && alive(snap.Target) {
		return snap.Target, OriginHover
	}
	return nil, OriginNone
}

// syncPanel mirrors a hover target into the open panel, idempotently.
func (s *Synchronizer) syncPanel(h element.Handle) {
	if s.panelOpen == nil || s.reveal == nil || !s.panelOpen() {
		return
	}
	t := s.tree()
	if t == nil {
		return
	}
	n, ok := t.NodeByElement(h.ID())
	if !ok || n.ID == s.lastRevealed {
		return
	}
	t.ExpandPath(n)
	s.reveal(n)
	s.lastRevealed = n.ID
}

func alive(h element.Handle) bool {
	return h != nil && h.Attached()
}
