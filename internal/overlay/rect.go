// Package overlay computes viewport-constrained rectangles for the highlight
// overlay, tooltips and the floating panel. All coordinates are terminal
// cells with the origin at the top-left.
package overlay

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect reports whether inner lies fully inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.Right() <= r.Right() && inner.Bottom() <= r.Bottom()
}

// Inflate grows the rectangle by n cells on every side.
func (r Rect) Inflate(n int) Rect {
	return Rect{
		X:      r.X - n,
		Y:      r.Y - n,
		Width:  r.Width + 2*n,
		Height: r.Height + 2*n,
	}
}

// Shrink is Inflate with a negative amount.
func (r Rect) Shrink(n int) Rect { return r.Inflate(-n) }

// CenterX returns the horizontal center.
func (r Rect) CenterX() int { return r.X + r.Width/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() int { return r.Y + r.Height/2 }

// ClampTo forces r fully inside bounds. Position is clamped first via
// min/max; size is then clamped to whatever room remains, so the result
// never extends past any edge of bounds even when r is larger than bounds.
func (r Rect) ClampTo(bounds Rect) Rect {
	out := r
	if out.Width > bounds.Width {
		out.Width = bounds.Width
	}
	if out.Height > bounds.Height {
		out.Height = bounds.Height
	}
	out.X = clamp(out.X, bounds.X, bounds.Right()-out.Width)
	out.Y = clamp(out.Y, bounds.Y, bounds.Bottom()-out.Height)
	if out.Right() > bounds.Right() {
		out.Width = bounds.Right() - out.X
	}
	if out.Bottom() > bounds.Bottom() {
		out.Height = bounds.Bottom() - out.Y
	}
	return out
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
