// Package panel implements drag-to-move and edge/corner resize for the
// floating tree panel. Geometry is always clamped to the viewport and to a
// minimum size; final geometry is handed to a persistence hook when the
// gesture ends.
package panel

import (
	"go.uber.org/zap"

	"sourcelens/internal/overlay"
)

// Edge is a bitmask of the viewport edges a resize handle controls.
type Edge int

const (
	EdgeNorth Edge = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

// The eight resize handles.
const (
	HandleN  = EdgeNorth
	HandleS  = EdgeSouth
	HandleE  = EdgeEast
	HandleW  = EdgeWest
	HandleNE = EdgeNorth | EdgeEast
	HandleNW = EdgeNorth | EdgeWest
	HandleSE = EdgeSouth | EdgeEast
	HandleSW = EdgeSouth | EdgeWest
)

// Default panel constraints.
const (
	MinWidth  = 300
	MinHeight = 400
)

// Persister receives final geometry when a gesture completes.
type Persister interface {
	SavePosition(x, y int)
	SaveSize(width, height int)
}

type gesture int

const (
	gestureNone gesture = iota
	gestureDrag
	gestureResize
)

// Controller owns the panel rectangle and runs one pointer gesture at a
// time; drag and resize are mutually exclusive per gesture.
type Controller struct {
	log      *zap.Logger
	viewport overlay.Rect
	min      overlay.Size
	rect     overlay.Rect
	persist  Persister

	active gesture
	edges  Edge
	start  overlay.Rect // rectangle captured at pointer-down
	anchorX, anchorY int
}

// NewController creates a controller with the given initial geometry.
func NewController(rect overlay.Rect, min overlay.Size, viewport overlay.Rect, persist Persister, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if min.Width <= 0 {
		min.Width = MinWidth
	}
	if min.Height <= 0 {
		min.Height = MinHeight
	}
	c := &Controller{log: log, viewport: viewport, min: min, persist: persist}
	c.rect = c.constrain(rect)
	return c
}

// Rect returns the current panel rectangle.
func (c *Controller) Rect() overlay.Rect { return c.rect }

// SetViewport updates the viewport and re-clamps the panel into it.
func (c *Controller) SetViewport(v overlay.Rect) {
	c.viewport = v
	c.rect = c.constrain(c.rect)
}

// Dragging reports whether a drag gesture is in progress.
func (c *Controller) Dragging() bool { return c.active == gestureDrag }

// Resizing reports whether a resize gesture is in progress.
func (c *Controller) Resizing() bool { return c.active == gestureResize }

// BeginDrag starts a move gesture from a pointer-down on the panel header.
// Ignored while another gesture is active.
func (c *Controller) BeginDrag(x, y int) {
	if c.active != gestureNone {
		return
	}
	c.active = gestureDrag
	c.start = c.rect
	c.anchorX, c.anchorY = x, y
}

// BeginResize starts a resize gesture on one of the eight handles. Ignored
// while another gesture is active.
func (c *Controller) BeginResize(edges Edge, x, y int) {
	if c.active != gestureNone || edges == 0 {
		return
	}
	c.active = gestureResize
	c.edges = edges
	c.start = c.rect
	c.anchorX, c.anchorY = x, y
}

// PointerMove applies the pointer delta to the active gesture.
func (c *Controller) PointerMove(x, y int) {
	dx, dy := x-c.anchorX, y-c.anchorY
	switch c.active {
	case gestureDrag:
		moved := c.start
		moved.X += dx
		moved.Y += dy
		c.rect = c.constrain(moved)
	case gestureResize:
		c.rect = c.constrain(c.resized(dx, dy))
	}
}

// PointerUp ends the gesture and persists the final geometry.
func (c *Controller) PointerUp() {
	switch c.active {
	case gestureDrag:
		if c.persist != nil {
			c.persist.SavePosition(c.rect.X, c.rect.Y)
		}
		c.log.Debug("panel moved", zap.Int("x", c.rect.X), zap.Int("y", c.rect.Y))
	case gestureResize:
		if c.persist != nil {
			c.persist.SaveSize(c.rect.Width, c.rect.Height)
			c.persist.SavePosition(c.rect.X, c.rect.Y)
		}
		c.log.Debug("panel resized",
			zap.Int("width", c.rect.Width), zap.Int("height", c.rect.Height))
	}
	c.active = gestureNone
	c.edges = 0
}

// resized computes the raw rectangle for the current resize delta. Edges on
// the west/north side shift the position so the opposite edge stays put; the
// minimum size wins over the pointer, anchored at that fixed edge.
func (c *Controller) resized(dx, dy int) overlay.Rect {
	r := c.start
	if c.edges&EdgeEast != 0 {
		r.Width = max(c.start.Width+dx, c.min.Width)
	}
	if c.edges&EdgeWest != 0 {
		r.Width = max(c.start.Width-dx, c.min.Width)
		r.X = c.start.Right() - r.Width
	}
	if c.edges&EdgeSouth != 0 {
		r.Height = max(c.start.Height+dy, c.min.Height)
	}
	if c.edges&EdgeNorth != 0 {
		r.Height = max(c.start.Height-dy, c.min.Height)
		r.Y = c.start.Bottom() - r.Height
	}
	return r
}

// constrain enforces the minimum size and keeps the panel fully inside the
// viewport.
func (c *Controller) constrain(r overlay.Rect) overlay.Rect {
	if r.Width < c.min.Width {
		r.Width = c.min.Width
	}
	if r.Height < c.min.Height {
		r.Height = c.min.Height
	}
	return r.ClampTo(c.viewport)
}
