package inspector_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcelens/internal/element"
	"sourcelens/internal/inspector"
	"sourcelens/internal/memhost"
	"sourcelens/internal/overlay"
	"sourcelens/internal/schedule"
	"sourcelens/internal/selection"
)

type hostAdapter struct{ *memhost.Host }

func (h hostAdapter) ElementAt(x, y int) element.Handle {
	w := h.WidgetAt(x, y)
	if w == nil {
		return nil
	}
	return w
}

type fixture struct {
	host  *memhost.Host
	clock *schedule.ManualClock
	ins   *inspector.Inspector

	opened []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{host: memhost.New(), clock: schedule.NewManualClock()}
	f.ins = inspector.New(inspector.Options{
		Clock:    f.clock,
		Host:     hostAdapter{f.host},
		Viewport: overlay.Rect{Width: 200, Height: 60},
		Opener: func(uri string) error {
			f.opened = append(f.opened, uri)
			return nil
		},
	})
	t.Cleanup(f.ins.Destroy)

	root := f.host.AddRoot("root", "Root", overlay.Rect{Width: 100, Height: 40})
	child := f.host.AddChild(root, "child", "Child", overlay.Rect{X: 10, Y: 10, Width: 40, Height: 8})
	f.ins.Registry().Tag(root, element.Source{Path: "src/root.go", File: "root.go", Line: "1"})
	f.ins.Registry().Tag(child, element.Source{Path: "src/child.go", File: "child.go", Line: "8"})
	require.True(t, f.ins.Refresh())
	return f
}

func TestHighlight_FollowsHover(t *testing.T) {
	f := newFixture(t)
	f.ins.SetModifiers(true, false)
	f.ins.PointerMoved(12, 12)

	r, origin, ok := f.ins.Highlight()
	require.True(t, ok)
	assert.Equal(t, selection.OriginHover, origin)
	// Child bounds inflated by the overlay offset.
	assert.Equal(t, overlay.Rect{X: 9, Y: 9, Width: 42, Height: 10}, r)

	f.ins.SetModifiers(false, false)
	_, _, ok = f.ins.Highlight()
	assert.False(t, ok, "no highlight once hover disengages")
}

func TestRequestRefresh_ThrottlesBursts(t *testing.T) {
	f := newFixture(t)
	root, _ := f.host.Lookup("root")

	// A burst of layout notifications triggers one immediate rebuild; the
	// rest collapse into a single trailing one.
	for i := 0; i < 10; i++ {
		w := f.host.AddChild(root, "extra", "Extra", overlay.Rect{Y: 30, Width: 10, Height: 2})
		f.ins.Registry().Tag(w, element.Source{Path: "src/extra.go", File: "extra.go", Line: "2"})
		f.host.Detach(w)
		f.ins.Registry().Untag("extra")
		f.ins.RequestRefresh()
	}
	f.clock.Advance(inspector.RebuildThrottle)
	assert.Equal(t, 2, f.ins.Tree().Len(), "tree settled back to the stable content")
}

func TestSetModifiers_SecondaryTogglesTooltip(t *testing.T) {
	f := newFixture(t)
	f.ins.SetModifiers(true, false)
	assert.False(t, f.ins.Store().Snapshot().TooltipVisible)

	f.ins.SetModifiers(true, true)
	assert.True(t, f.ins.Store().Snapshot().TooltipVisible)

	// Holding both keys does not retoggle; a fresh rising edge does.
	f.ins.SetModifiers(true, true)
	assert.True(t, f.ins.Store().Snapshot().TooltipVisible)
	f.ins.SetModifiers(true, false)
	f.ins.SetModifiers(true, true)
	assert.False(t, f.ins.Store().Snapshot().TooltipVisible)
}

func TestTogglePanel_CloseClearsTreeSelection(t *testing.T) {
	f := newFixture(t)
	f.ins.TogglePanel()
	require.True(t, f.ins.PanelVisible())

	n, ok := f.ins.Tree().NodeByElement("child")
	require.True(t, ok)
	f.ins.Selection().TreeSelect(n)
	_, origin, _ := f.ins.Highlight()
	assert.Equal(t, selection.OriginTree, origin)

	f.ins.TogglePanel()
	assert.False(t, f.ins.PanelVisible())
	_, _, ok = f.ins.Highlight()
	assert.False(t, ok, "closing the panel drops its selection")
}

func TestViewportResized_Debounced(t *testing.T) {
	f := newFixture(t)
	f.ins.ViewportResized(100, 30)
	f.ins.ViewportResized(90, 28)
	f.ins.ViewportResized(80, 25)
	assert.Equal(t, 200, f.ins.Engine().Viewport().Width, "not applied until quiet")

	f.clock.Advance(inspector.ResizeDebounce)
	assert.Equal(t, 80, f.ins.Engine().Viewport().Width)
	assert.True(t, f.ins.Engine().Viewport().ContainsRect(f.ins.Panel().Rect()))
}

func TestDispatch_TimerCallbacksDeliveredToLoop(t *testing.T) {
	// With a dispatch function set, expired timers must never mutate
	// inspector state from the timer's own control flow: the mutation
	// only happens when the host loop runs the delivered callback.
	clock := schedule.NewManualClock()
	host := memhost.New()
	var loop []func()
	ins := inspector.New(inspector.Options{
		Clock:    clock,
		Host:     hostAdapter{host},
		Viewport: overlay.Rect{Width: 200, Height: 60},
		Dispatch: func(fn func()) { loop = append(loop, fn) },
	})
	t.Cleanup(ins.Destroy)

	ins.ViewportResized(120, 50)
	clock.Advance(inspector.ResizeDebounce)
	assert.Equal(t, 200, ins.Engine().Viewport().Width,
		"expiry only queues the callback for the loop")
	require.Len(t, loop, 1)

	loop[0]()
	assert.Equal(t, 120, ins.Engine().Viewport().Width)
}

func TestDispatch_TrailingRebuildDeliveredToLoop(t *testing.T) {
	clock := schedule.NewManualClock()
	host := memhost.New()
	var loop []func()
	ins := inspector.New(inspector.Options{
		Clock:    clock,
		Host:     hostAdapter{host},
		Viewport: overlay.Rect{Width: 200, Height: 60},
		Dispatch: func(fn func()) { loop = append(loop, fn) },
	})
	t.Cleanup(ins.Destroy)

	root := host.AddRoot("root", "Root", overlay.Rect{Width: 100, Height: 40})
	ins.Registry().Tag(root, element.Source{Path: "src/root.go", File: "root.go", Line: "1"})

	// Leading call runs synchronously on the caller's flow; the trailing
	// one comes back through the dispatch queue.
	ins.RequestRefresh()
	assert.Equal(t, 1, ins.Tree().Len())

	child := host.AddChild(root, "child", "Child", overlay.Rect{X: 1, Y: 1, Width: 10, Height: 2})
	ins.Registry().Tag(child, element.Source{Path: "src/child.go", File: "child.go", Line: "8"})
	ins.RequestRefresh()
	clock.Advance(inspector.RebuildThrottle)
	assert.Equal(t, 1, ins.Tree().Len(), "rebuild queued, not yet run")
	require.Len(t, loop, 1)

	loop[0]()
	assert.Equal(t, 2, ins.Tree().Len())
}

func TestOpenSource(t *testing.T) {
	f := newFixture(t)
	f.ins.OpenSource(element.Source{Path: "src/child.go", File: "child.go", Line: "8"})
	require.Len(t, f.opened, 1)
	assert.Equal(t, "vscode://file/src/child.go:8", f.opened[0])

	f.ins.OpenSource(element.Source{Path: "src/child.go"})
	assert.Len(t, f.opened, 1, "incomplete records never open")
}

func TestDestroy_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.ins.SetModifiers(true, false)
	f.ins.Destroy()
	f.ins.Destroy()

	assert.False(t, f.ins.Refresh())
	f.clock.Advance(time.Second)
	snap := f.ins.Store().Snapshot()
	assert.False(t, snap.PrimaryHeld, "state reset on destroy")
}
