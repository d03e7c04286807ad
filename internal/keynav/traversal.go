// Package keynav implements the keyboard traversal state machine: movement
// along the ancestor/descendant axis with cycling at the tree boundaries,
// sibling movement with modulo wraparound, expansion toggling and the
// two-stage Escape.
package keynav

import (
	"go.uber.org/zap"

	"sourcelens/internal/element"
	"sourcelens/internal/hierarchy"
	"sourcelens/internal/selection"
	"sourcelens/internal/state"
)

// Traversal drives the keyboard cursor. It is idle until the first movement
// key arrives; every transition that changes the cursor also updates the
// shared current target through the synchronizer.
type Traversal struct {
	log   *zap.Logger
	store *state.Store
	sync  *selection.Synchronizer
	tree  func() *hierarchy.Tree

	openSource func(element.Source)
	closePanel func()
}

// NewTraversal creates the traversal over the current forest.
func NewTraversal(store *state.Store, sync *selection.Synchronizer, tree func() *hierarchy.Tree, log *zap.Logger) *Traversal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Traversal{log: log, store: store, sync: sync, tree: tree}
}

// SetActions wires the Enter action for leaves and the Escape action for the
// panel.
func (t *Traversal) SetActions(openSource func(element.Source), closePanel func()) {
	t.openSource = openSource
	t.closePanel = closePanel
}

// Active reports whether a keyboard cursor exists.
func (t *Traversal) Active() bool { return t.cursor() != nil }

// Cursor returns the current cursor node, or nil when idle.
func (t *Traversal) Cursor() *hierarchy.Node { return t.cursor() }

// Up moves to the nearest inspectable ancestor; at a root it cycles to the
// last element in full depth-first order.
func (t *Traversal) Up() {
	tree := t.tree()
	cur := t.cursor()
	switch {
	case cur == nil:
		t.moveTo(tree.First())
	case cur.Parent != nil:
		t.moveTo(cur.Parent)
	default:
		t.moveTo(tree.Last())
	}
}

// Down moves to the first direct child; at a leaf it cycles to the first
// element in full depth-first order.
func (t *Traversal) Down() {
	tree := t.tree()
	cur := t.cursor()
	switch {
	case cur == nil:
		t.moveTo(tree.First())
	case len(cur.Children) > 0:
		t.moveTo(cur.Children[0])
	default:
		t.moveTo(tree.First())
	}
}

// Left moves to the previous sibling, wrapping around.
func (t *Traversal) Left() { t.sibling(-1) }

// Right moves to the next sibling, wrapping around.
func (t *Traversal) Right() { t.sibling(+1) }

// Home jumps to the first node of the visible (expansion-aware) flattening.
func (t *Traversal) Home() {
	visible := t.tree().Visible()
	if len(visible) > 0 {
		t.moveTo(visible[0])
	}
}

// End jumps to the last visible node.
func (t *Traversal) End() {
	visible := t.tree().Visible()
	if len(visible) > 0 {
		t.moveTo(visible[len(visible)-1])
	}
}

// Toggle handles Enter/Space: a cursor with children flips its expansion,
// a leaf opens its source location.
func (t *Traversal) Toggle() {
	cur := t.cursor()
	if cur == nil {
		return
	}
	if len(cur.Children) > 0 {
		cur.Expanded = !cur.Expanded
		t.log.Debug("expansion toggled",
			zap.String("node", cur.ID),
			zap.Bool("expanded", cur.Expanded))
		return
	}
	if t.openSource != nil {
		t.openSource(cur.Source)
	}
}

// Escape clears any active selection on the first press; a second press,
// with nothing selected, closes the panel. The return reports whether a
// selection was cleared.
func (t *Traversal) Escape() bool {
	snap := t.store.Snapshot()
	if snap.KeyboardActive || snap.TreeActive {
		t.sync.ClearKeyboardSelection()
		t.sync.ClearTreeSelection()
		return true
	}
	if t.closePanel != nil {
		t.closePanel()
	}
	return false
}

// Deactivate leaves keyboard-navigation mode, e.g. when the modifier key is
// released.
func (t *Traversal) Deactivate() {
	t.sync.ClearKeyboardSelection()
}

func (t *Traversal) sibling(step int) {
	tree := t.tree()
	cur := t.cursor()
	if cur == nil {
		t.moveTo(tree.First())
		return
	}
	sibs := cur.Siblings(tree)
	if len(sibs) == 0 {
		return
	}
	idx := 0
	for i, n := range sibs {
		if n == cur {
			idx = i
			break
		}
	}
	idx = (idx + step + len(sibs)) % len(sibs)
	t.moveTo(sibs[idx])
}

func (t *Traversal) moveTo(n *hierarchy.Node) {
	if n == nil {
		return
	}
	t.sync.KeyboardSelect(n.Element)
}

// cursor resolves the cursor node from the store, so it survives tree
// rebuilds and degrades to idle when the element went stale.
func (t *Traversal) cursor() *hierarchy.Node {
	snap := t.store.Snapshot()
	if !snap.KeyboardActive || snap.KeyboardElement == nil {
		return nil
	}
	tree := t.tree()
	if tree == nil {
		return nil
	}
	n, ok := tree.NodeByElement(snap.KeyboardElement.ID())
	if !ok || !n.Element.Attached() {
		return nil
	}
	return n
}
