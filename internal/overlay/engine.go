package overlay

// Placement names one anchoring strategy for a tooltip rectangle.
type Placement int

const (
	PlaceBelowCenter Placement = iota
	PlaceAboveCenter
	PlaceRightCenter
	PlaceLeftCenter
)

// tooltipOrder is the fixed preference order for the primary tooltip.
var tooltipOrder = []Placement{PlaceBelowCenter, PlaceAboveCenter, PlaceRightCenter, PlaceLeftCenter}

// secondaryOrder is the preference order for the hierarchical tooltip,
// anchored to the primary tooltip rather than the overlay.
var secondaryOrder = []Placement{PlaceRightCenter, PlaceLeftCenter, PlaceBelowCenter, PlaceAboveCenter}

// Engine computes overlay and tooltip rectangles for one viewport. The
// viewport is updated on (debounced) terminal resize; all results are
// guaranteed to lie fully inside it.
type Engine struct {
	viewport Rect
	offset   int // overlay inflation around the target, in cells
	margin   int // viewport margin tooltips must respect
}

// NewEngine creates a positioning engine.
func NewEngine(viewport Rect, offset, margin int) *Engine {
	if offset < 0 {
		offset = 0
	}
	if margin < 0 {
		margin = 0
	}
	return &Engine{viewport: viewport, offset: offset, margin: margin}
}

// SetViewport replaces the viewport, e.g. after a terminal resize.
func (e *Engine) SetViewport(v Rect) { e.viewport = v }

// Viewport returns the current viewport.
func (e *Engine) Viewport() Rect { return e.viewport }

// Overlay returns the highlight rectangle for a target: the target inflated
// by the configured offset, clamped inside the viewport.
func (e *Engine) Overlay(target Rect) Rect {
	return target.Inflate(e.offset).ClampTo(e.viewport)
}

// Tooltip positions a tooltip of the given size against the overlay
// rectangle. Strategies are tried in preference order; the first whose
// result fits entirely inside the viewport minus the margin wins. When none
// fits the first strategy's rectangle is clamped into the viewport instead.
func (e *Engine) Tooltip(anchor Rect, tip Size) Rect {
	return e.place(anchor, tip, tooltipOrder)
}

// SecondaryTooltip positions the hierarchical tooltip relative to the
// primary tooltip, with its own strategy order and the same fallback.
func (e *Engine) SecondaryTooltip(primary Rect, tip Size) Rect {
	return e.place(primary, tip, secondaryOrder)
}

func (e *Engine) place(anchor Rect, tip Size, order []Placement) Rect {
	usable := e.viewport.Shrink(e.margin)
	if usable.Empty() {
		usable = e.viewport
	}
	var first Rect
	for i, p := range order {
		r := anchored(anchor, tip, p)
		if i == 0 {
			first = r
		}
		if usable.ContainsRect(r) {
			return r
		}
	}
	return first.ClampTo(e.viewport)
}

// anchored computes the candidate rectangle for one placement, centered on
// the anchor along the cross axis.
func anchored(anchor Rect, tip Size, p Placement) Rect {
	r := Rect{Width: tip.Width, Height: tip.Height}
	switch p {
	case PlaceBelowCenter:
		r.X = anchor.CenterX() - tip.Width/2
		r.Y = anchor.Bottom()
	case PlaceAboveCenter:
		r.X = anchor.CenterX() - tip.Width/2
		r.Y = anchor.Y - tip.Height
	case PlaceRightCenter:
		r.X = anchor.Right()
		r.Y = anchor.CenterY() - tip.Height/2
	case PlaceLeftCenter:
		r.X = anchor.X - tip.Width
		r.Y = anchor.CenterY() - tip.Height/2
	}
	return r
}
