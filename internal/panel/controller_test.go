package panel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sourcelens/internal/overlay"
	"sourcelens/internal/panel"
)

type recorder struct {
	positions []overlay.Rect
	sizes     []overlay.Size
}

func (r *recorder) SavePosition(x, y int) {
	r.positions = append(r.positions, overlay.Rect{X: x, Y: y})
}

func (r *recorder) SaveSize(w, h int) {
	r.sizes = append(r.sizes, overlay.Size{Width: w, Height: h})
}

func newController(persist panel.Persister) *panel.Controller {
	return panel.NewController(
		overlay.Rect{X: 100, Y: 100, Width: 400, Height: 500},
		overlay.Size{Width: 300, Height: 400},
		overlay.Rect{Width: 1600, Height: 1200},
		persist, nil)
}

func TestDrag_AppliesDeltaAndPersistsOnRelease(t *testing.T) {
	rec := &recorder{}
	c := newController(rec)

	c.BeginDrag(150, 110)
	c.PointerMove(200, 160)
	assert.Equal(t, overlay.Rect{X: 150, Y: 150, Width: 400, Height: 500}, c.Rect())
	assert.Empty(t, rec.positions, "nothing persisted mid-gesture")

	c.PointerUp()
	assert.Equal(t, []overlay.Rect{{X: 150, Y: 150}}, rec.positions)
	assert.Empty(t, rec.sizes, "drag never persists size")
}

func TestDrag_ClampedToViewport(t *testing.T) {
	c := newController(nil)
	c.BeginDrag(100, 100)
	c.PointerMove(-5000, -5000)
	assert.Equal(t, overlay.Rect{X: 0, Y: 0, Width: 400, Height: 500}, c.Rect())

	c.PointerMove(5000, 5000)
	got := c.Rect()
	assert.Equal(t, 1600, got.Right())
	assert.Equal(t, 1200, got.Bottom())
	c.PointerUp()
}

func TestResize_SouthEastHonorsMinimum(t *testing.T) {
	// Scenario: dragging the bottom-right handle far past the minimum never
	// produces a panel smaller than 300x400.
	rec := &recorder{}
	c := newController(rec)

	c.BeginResize(panel.HandleSE, 500, 600)
	c.PointerMove(-2000, -2000)
	got := c.Rect()
	assert.Equal(t, 300, got.Width)
	assert.Equal(t, 400, got.Height)
	assert.Equal(t, 100, got.X, "position untouched by an east/south resize")
	assert.Equal(t, 100, got.Y)

	c.PointerUp()
	assert.Equal(t, []overlay.Size{{Width: 300, Height: 400}}, rec.sizes)
}

func TestResize_WestShiftsPosition(t *testing.T) {
	c := newController(nil)
	c.BeginResize(panel.HandleW, 100, 300)
	// Drag the left edge 40 cells further left: panel grows, x follows.
	c.PointerMove(60, 300)
	got := c.Rect()
	assert.Equal(t, 440, got.Width)
	assert.Equal(t, 60, got.X)
	assert.Equal(t, 500, got.Right(), "east edge fixed")
	c.PointerUp()
}

func TestResize_WestMinimumAnchorsEastEdge(t *testing.T) {
	c := newController(nil)
	c.BeginResize(panel.HandleW, 100, 300)
	c.PointerMove(2000, 300) // push the left edge past the right one
	got := c.Rect()
	assert.Equal(t, 300, got.Width)
	assert.Equal(t, 500, got.Right(), "east edge stays fixed at the minimum")
	c.PointerUp()
}

func TestResize_NorthWestCorner(t *testing.T) {
	c := newController(nil)
	c.BeginResize(panel.HandleNW, 100, 100)
	c.PointerMove(80, 70)
	got := c.Rect()
	assert.Equal(t, overlay.Rect{X: 80, Y: 70, Width: 420, Height: 530}, got)
	c.PointerUp()
}

func TestGestures_MutuallyExclusive(t *testing.T) {
	c := newController(nil)
	c.BeginDrag(100, 100)
	c.BeginResize(panel.HandleSE, 500, 600) // ignored mid-drag
	assert.True(t, c.Dragging())
	assert.False(t, c.Resizing())
	c.PointerUp()

	c.BeginResize(panel.HandleSE, 500, 600)
	c.BeginDrag(100, 100) // ignored mid-resize
	assert.True(t, c.Resizing())
	assert.False(t, c.Dragging())
	c.PointerUp()
}

func TestSetViewport_ReclampsPanel(t *testing.T) {
	c := newController(nil)
	c.SetViewport(overlay.Rect{Width: 350, Height: 450})
	got := c.Rect()
	assert.LessOrEqual(t, got.Right(), 350)
	assert.LessOrEqual(t, got.Bottom(), 450)
	assert.GreaterOrEqual(t, got.Width, 300, "minimum still honored")
}

func TestPointerMove_WithoutGestureIsNoop(t *testing.T) {
	c := newController(nil)
	before := c.Rect()
	c.PointerMove(999, 999)
	assert.Equal(t, before, c.Rect())
	c.PointerUp() // no gesture, no persistence, no panic
}
