// Package memhost is an in-memory host rendering layer: a widget tree with
// cell bounds and depth-first render order. The demo command renders it
// directly and the inspector packages use it to simulate a live UI.
package memhost

import (
	"sourcelens/internal/element"
	"sourcelens/internal/overlay"
)

// Widget is one rendered element. It implements element.Handle.
type Widget struct {
	id       string
	label    string
	parent   *Widget
	children []*Widget
	bounds   overlay.Rect
	attached bool
}

// Host owns the widget tree.
type Host struct {
	roots []*Widget
	byID  map[string]*Widget
}

// New creates an empty host.
func New() *Host {
	return &Host{byID: make(map[string]*Widget)}
}

// AddRoot appends a new root widget in render order.
func (h *Host) AddRoot(id, label string, bounds overlay.Rect) *Widget {
	w := &Widget{id: id, label: label, bounds: bounds, attached: true}
	h.roots = append(h.roots, w)
	h.byID[id] = w
	return w
}

// AddChild appends a new child to parent, after its existing children.
func (h *Host) AddChild(parent *Widget, id, label string, bounds overlay.Rect) *Widget {
	w := &Widget{id: id, label: label, parent: parent, bounds: bounds, attached: true}
	parent.children = append(parent.children, w)
	h.byID[id] = w
	return w
}

// Detach removes a widget and its subtree from the rendered tree. Handles
// held elsewhere go stale rather than invalid.
func (h *Host) Detach(w *Widget) {
	if w == nil || !w.attached {
		return
	}
	if w.parent != nil {
		w.parent.children = removeWidget(w.parent.children, w)
	} else {
		h.roots = removeWidget(h.roots, w)
	}
	var mark func(*Widget)
	mark = func(n *Widget) {
		n.attached = false
		delete(h.byID, n.id)
		for _, c := range n.children {
			mark(c)
		}
	}
	mark(w)
}

// SetBounds moves or resizes a widget.
func (h *Host) SetBounds(w *Widget, bounds overlay.Rect) {
	if w != nil {
		w.bounds = bounds
	}
}

// Lookup returns the attached widget with the given id.
func (h *Host) Lookup(id string) (*Widget, bool) {
	w, ok := h.byID[id]
	return w, ok
}

// Elements returns every attached widget in depth-first render order.
func (h *Host) Elements() []element.Handle {
	var out []element.Handle
	var walk func(*Widget)
	walk = func(w *Widget) {
		out = append(out, w)
		for _, c := range w.children {
			walk(c)
		}
	}
	for _, r := range h.roots {
		walk(r)
	}
	return out
}

// WidgetAt returns the deepest attached widget containing the cell, front to
// back within siblings (later siblings render on top).
func (h *Host) WidgetAt(x, y int) *Widget {
	var hit *Widget
	var walk func(*Widget)
	walk = func(w *Widget) {
		if !w.bounds.Contains(x, y) {
			return
		}
		hit = w
		for _, c := range w.children {
			walk(c)
		}
	}
	for _, r := range h.roots {
		walk(r)
	}
	return hit
}

func removeWidget(s []*Widget, w *Widget) []*Widget {
	for i, c := range s {
		if c == w {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// ID implements element.Handle.
func (w *Widget) ID() string { return w.id }

// Label returns the display name used by the panel and the demo renderer.
func (w *Widget) Label() string { return w.label }

// Parent implements element.Handle.
func (w *Widget) Parent() element.Handle {
	if w.parent == nil {
		return nil
	}
	return w.parent
}

// Bounds implements element.Handle.
func (w *Widget) Bounds() (overlay.Rect, bool) {
	if !w.attached {
		return overlay.Rect{}, false
	}
	return w.bounds, true
}

// Attached implements element.Handle.
func (w *Widget) Attached() bool { return w.attached }

// Children returns the direct children in render order.
func (w *Widget) Children() []*Widget { return w.children }
