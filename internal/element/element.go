// Package element defines the boundary to the host rendering layer: opaque
// handles to rendered widgets and the side registry that carries their
// source-location metadata. The inspector never creates or destroys
// elements; every lookup tolerates a handle that has since been detached.
package element

import (
	"sourcelens/internal/overlay"
)

// Handle is an opaque reference to one rendered visual element. The host
// rendering layer owns the element; a handle may go stale at any time, in
// which case Attached reports false and Bounds reports ok=false.
type Handle interface {
	// ID is the host-assigned identity, unique within one rendered tree.
	ID() string

	// Parent returns the rendered parent element, or nil at the tree root.
	Parent() Handle

	// Bounds returns the rendered cell rectangle. ok is false when the
	// element is no longer part of the rendered tree.
	Bounds() (r overlay.Rect, ok bool)

	// Attached reports whether the element is still rendered.
	Attached() bool
}

// Source is the typed source-location record attached to an element by the
// upstream annotation step. All three fields are opaque strings here; the
// inspector only displays them and hands them to the editor integration.
type Source struct {
	Path string // component source path, e.g. "src/app/sidebar.go"
	File string // short file name, e.g. "sidebar.go"
	Line string // line number as written by the annotator
}

// Complete reports whether all three attributes are present. An element is
// inspectable only with a complete record.
func (s Source) Complete() bool {
	return s.Path != "" && s.File != "" && s.Line != ""
}

// Key is the element's contribution to the hierarchy content fingerprint.
func (s Source) Key() string {
	return s.Path + "|" + s.File + "|" + s.Line
}
