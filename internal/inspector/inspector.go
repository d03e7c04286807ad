// Package inspector assembles the element registry, state store, hierarchy
// builder, selection synchronizer, keyboard traversal, positioning engine
// and panel controller into one explicitly constructed, explicitly owned
// instance. Nothing in sourcelens is a package-level singleton; tests and
// hosts create as many inspectors as they need and tear each down with
// Destroy.
package inspector

import (
	"time"

	"go.uber.org/zap"

	"sourcelens/internal/editor"
	"sourcelens/internal/element"
	"sourcelens/internal/hierarchy"
	"sourcelens/internal/keynav"
	"sourcelens/internal/logging"
	"sourcelens/internal/overlay"
	"sourcelens/internal/panel"
	"sourcelens/internal/prefs"
	"sourcelens/internal/schedule"
	"sourcelens/internal/selection"
	"sourcelens/internal/state"
)

// Rate limits for the expensive paths.
const (
	RebuildThrottle = 100 * time.Millisecond
	HoverThrottle   = 30 * time.Millisecond
	ResizeDebounce  = 150 * time.Millisecond
)

// Default positioning parameters.
const (
	OverlayOffset = 1
	TooltipMargin = 1
)

// Host is the boundary to the rendering layer that owns the elements.
type Host interface {
	// Elements returns every rendered element in depth-first render order.
	Elements() []element.Handle

	// ElementAt hit-tests a pointer cell, returning the topmost element or
	// nil.
	ElementAt(x, y int) element.Handle
}

// Options configures a new Inspector. Zero values get sane defaults.
type Options struct {
	Log      *zap.Logger
	Clock    schedule.Clock
	Prefs    *prefs.Manager
	Host     Host
	Viewport overlay.Rect
	Opener   editor.Opener

	// PanelMin overrides the default minimum panel size. Hosts whose
	// cells are coarse (terminal grids) want a much smaller floor than
	// pixel-grid hosts.
	PanelMin overlay.Size

	// Registry lets the host share a pre-populated source registry.
	// Nil means the inspector owns a fresh one.
	Registry *element.Registry

	// Dispatch receives every timer-fired callback so the host can
	// marshal it onto its update loop. All inspector state is mutated
	// without locks on the assumption of a single control flow; a host
	// with a real event loop must set this. Nil runs callbacks on the
	// timer goroutine, which is only safe with a ManualClock.
	Dispatch func(func())
}

// Inspector is the one owning context object.
type Inspector struct {
	log  *zap.Logger
	host Host

	registry *element.Registry
	store    *state.Store
	builder  *hierarchy.Builder
	sync     *selection.Synchronizer
	nav      *keynav.Traversal
	engine   *overlay.Engine
	panelCtl *panel.Controller
	launcher *editor.Launcher
	prefs    *prefs.Manager

	rebuild *schedule.Throttler
	hover   *schedule.Throttler
	resize  *schedule.Debouncer
	frame   *schedule.FrameBatcher

	panelVisible bool
	destroyed    bool
}

// New wires an inspector for the given host and viewport.
func New(opts Options) *Inspector {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = schedule.WallClock{}
	}
	if opts.Dispatch != nil {
		clock = schedule.LoopClock{Inner: clock, Dispatch: opts.Dispatch}
	}
	pm := opts.Prefs
	if pm == nil {
		pm = prefs.NewManager("", logging.For(log, logging.CategoryPrefs))
	}

	reg := opts.Registry
	if reg == nil {
		reg = element.NewRegistry()
	}

	ins := &Inspector{
		log:      log,
		host:     opts.Host,
		registry: reg,
		prefs:    pm,
		frame:    &schedule.FrameBatcher{},
	}
	ins.store = state.NewStore(logging.For(log, logging.CategoryState))
	ins.builder = hierarchy.NewBuilder(ins.registry, logging.For(log, logging.CategoryHierarchy))
	ins.sync = selection.NewSynchronizer(ins.store, ins.registry, ins.builder.Tree,
		logging.For(log, logging.CategorySelection))
	ins.nav = keynav.NewTraversal(ins.store, ins.sync, ins.builder.Tree,
		logging.For(log, logging.CategoryKeynav))
	ins.engine = overlay.NewEngine(opts.Viewport, OverlayOffset, TooltipMargin)
	ins.launcher = editor.NewLauncher(pm.EditorProtocol, opts.Opener,
		logging.For(log, logging.CategoryEditor))

	minSize := opts.PanelMin
	if minSize.Width <= 0 {
		minSize.Width = panel.MinWidth
	}
	if minSize.Height <= 0 {
		minSize.Height = panel.MinHeight
	}
	ins.panelCtl = panel.NewController(
		pm.PanelRect(opts.Viewport, minSize), minSize, opts.Viewport,
		pm, logging.For(log, logging.CategoryPanel))

	ins.nav.SetActions(ins.OpenSource, ins.ClosePanel)
	ins.sync.SetPanelHooks(ins.PanelVisible, func(*hierarchy.Node) { ins.frame.Mark() })

	ins.rebuild = schedule.NewThrottler(clock, RebuildThrottle)
	ins.hover = schedule.NewThrottler(clock, HoverThrottle)
	ins.resize = schedule.NewDebouncer(clock, ResizeDebounce)

	// Any state change dirties the next frame.
	ins.store.Subscribe(func(state.Event) { ins.frame.Mark() })
	return ins
}

// Component accessors.

func (ins *Inspector) Registry() *element.Registry          { return ins.registry }
func (ins *Inspector) Store() *state.Store                  { return ins.store }
func (ins *Inspector) Tree() *hierarchy.Tree                { return ins.builder.Tree() }
func (ins *Inspector) Engine() *overlay.Engine              { return ins.engine }
func (ins *Inspector) Panel() *panel.Controller             { return ins.panelCtl }
func (ins *Inspector) Traversal() *keynav.Traversal         { return ins.nav }
func (ins *Inspector) Selection() *selection.Synchronizer   { return ins.sync }
func (ins *Inspector) Prefs() *prefs.Manager                { return ins.prefs }
func (ins *Inspector) Frame() *schedule.FrameBatcher        { return ins.frame }

// Refresh rebuilds the hierarchy from the host immediately.
func (ins *Inspector) Refresh() bool {
	if ins.destroyed || ins.host == nil {
		return false
	}
	_, rebuilt := ins.builder.Build(ins.host.Elements())
	if rebuilt {
		ins.frame.Mark()
	}
	return rebuilt
}

// RequestRefresh rebuilds at most once per throttle window; layout-mutation
// bursts collapse into a single rebuild.
func (ins *Inspector) RequestRefresh() {
	ins.rebuild.Call(func() { ins.Refresh() })
}

// PointerMoved routes a (throttled) pointer position to the hover path.
func (ins *Inspector) PointerMoved(x, y int) {
	if ins.destroyed {
		return
	}
	ins.store.SetPointer(x, y)
	ins.hover.Call(func() {
		if ins.host == nil {
			return
		}
		ins.sync.HoverOver(ins.host.ElementAt(x, y))
	})
}

// ViewportResized debounces viewport changes into the positioning engine
// and the panel controller.
func (ins *Inspector) ViewportResized(width, height int) {
	ins.resize.Debounce(func() {
		v := overlay.Rect{Width: width, Height: height}
		ins.engine.SetViewport(v)
		ins.panelCtl.SetViewport(v)
		ins.frame.Mark()
	})
}

// SetModifiers applies the activation boundary: the primary modifier gates
// hover mode, the secondary (held with the primary) toggles the
// hierarchical tooltip on its rising edge.
func (ins *Inspector) SetModifiers(primary, secondary bool) {
	snap := ins.store.Snapshot()
	switch {
	case primary && !snap.PrimaryHeld:
		ins.sync.PrimaryPressed(secondary)
	case !primary && snap.PrimaryHeld:
		ins.nav.Deactivate()
		ins.sync.PrimaryReleased()
		return
	}
	if primary && secondary && !snap.SecondaryHeld {
		ins.store.SetTooltip(!snap.TooltipVisible, snap.TooltipPinned)
	}
	ins.store.SetModifiers(primary, secondary)
}

// TogglePanel flips panel visibility. Closing the panel drops its selection.
func (ins *Inspector) TogglePanel() {
	if ins.panelVisible {
		ins.ClosePanel()
		return
	}
	ins.panelVisible = true
	ins.Refresh()
	ins.frame.Mark()
}

// ClosePanel hides the panel and clears tree selection. Idempotent.
func (ins *Inspector) ClosePanel() {
	if !ins.panelVisible {
		return
	}
	ins.panelVisible = false
	ins.sync.ClearTreeSelection()
	ins.frame.Mark()
}

// PanelVisible reports floating-panel visibility.
func (ins *Inspector) PanelVisible() bool { return ins.panelVisible }

// ElementAt hit-tests the host directly, without touching hover state.
func (ins *Inspector) ElementAt(x, y int) element.Handle {
	if ins.host == nil {
		return nil
	}
	return ins.host.ElementAt(x, y)
}

// OpenSource fires the external editor for a source record.
func (ins *Inspector) OpenSource(src element.Source) {
	if !src.Complete() {
		return
	}
	ins.launcher.Open(src.Path, src.Line)
}

// Highlight resolves the authoritative selection into an overlay rectangle.
// ok is false when nothing may be highlighted, including when the selected
// element went stale.
func (ins *Inspector) Highlight() (r overlay.Rect, origin selection.Origin, ok bool) {
	h, origin := ins.sync.Resolve()
	if h == nil {
		return overlay.Rect{}, origin, false
	}
	bounds, alive := h.Bounds()
	if !alive {
		return overlay.Rect{}, selection.OriginNone, false
	}
	return ins.engine.Overlay(bounds), origin, true
}

// Destroy tears the inspector down: pending callbacks are dropped and the
// interaction state resets. Safe to call multiple times.
func (ins *Inspector) Destroy() {
	if ins.destroyed {
		return
	}
	ins.destroyed = true
	ins.rebuild.Cancel()
	ins.hover.Cancel()
	ins.resize.Cancel()
	ins.store.Reset()
	ins.log.Debug("inspector destroyed")
}
