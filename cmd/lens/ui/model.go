package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sourcelens/internal/element"
	"sourcelens/internal/hierarchy"
	"sourcelens/internal/inspector"
	"sourcelens/internal/overlay"
	"sourcelens/internal/panel"
)

// Scene is what the inspector draws over: the host application's own
// rendered frame plus a way to label its elements for the tree panel.
type Scene interface {
	Render(width, height int) string
	Label(h element.Handle) string
}

// frameTickMsg drives the periodic redraw and rebuild check.
type frameTickMsg time.Time

// callbackMsg carries a deferred scheduler callback into the update loop
// so inspector state is only ever touched on the update goroutine.
type callbackMsg struct {
	fn func()
}

// Dispatcher returns the dispatch function to hand to the inspector: it
// delivers timer-fired callbacks as messages on the program's update loop.
func Dispatcher(p *tea.Program) func(func()) {
	return func(fn func()) { p.Send(callbackMsg{fn: fn}) }
}

// Model is the top-level bubbletea model. It owns no inspection state of
// its own; everything flows through the Inspector and is re-derived each
// frame.
type Model struct {
	ins   *inspector.Inspector
	scene Scene
	theme Theme

	width  int
	height int

	body        viewport.Model
	helpVisible bool
	helpBody    string
}

// NewModel builds the top-level model around an already-wired inspector.
func NewModel(ins *inspector.Inspector, scene Scene) Model {
	return Model{
		ins:   ins,
		scene: scene,
		theme: DefaultTheme(),
		body:  viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameTick(), tea.EnableMouseAllMotion)
}

func frameTick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ins.ViewportResized(msg.Width, msg.Height)
		return m, nil

	case callbackMsg:
		msg.fn()
		return m, nil

	case frameTickMsg:
		m.ins.RequestRefresh()
		if m.ins.Frame().Consume() {
			m = m.scrollToSelection()
		}
		return m, frameTick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.ins.Destroy()
		return m, tea.Quit
	case "?":
		m.helpVisible = !m.helpVisible
		if m.helpVisible && m.helpBody == "" {
			m.helpBody = renderHelp(m.width)
		}
		return m, nil
	case "i":
		m.ins.TogglePanel()
		return m, nil
	}

	if m.helpVisible && msg.String() == "esc" {
		m.helpVisible = false
		return m, nil
	}
	if !m.ins.PanelVisible() {
		return m, nil
	}

	nav := m.ins.Traversal()
	switch msg.String() {
	case "up":
		nav.Up()
	case "down":
		nav.Down()
	case "left":
		nav.Left()
	case "right":
		nav.Right()
	case "home":
		nav.Home()
	case "end":
		nav.End()
	case "enter":
		nav.Toggle()
	case "esc":
		nav.Escape()
	case "pgup":
		m.body.HalfViewUp()
	case "pgdown":
		m.body.HalfViewDown()
	}
	return m.scrollToSelection(), nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Terminals report modifier keys only on mouse events, so modifier
	// state is reconstructed from each event's flags.
	m.ins.SetModifiers(msg.Alt, msg.Ctrl)

	ctl := m.ins.Panel()
	overPanel := m.ins.PanelVisible() && ctl.Rect().Contains(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		if ctl.Dragging() || ctl.Resizing() {
			ctl.PointerMove(msg.X, msg.Y)
			return m, nil
		}
		if !overPanel {
			m.ins.PointerMoved(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.handleLeftPress(msg.X, msg.Y, overPanel)
		case tea.MouseButtonWheelUp:
			if overPanel {
				m.body.LineUp(3)
			}
		case tea.MouseButtonWheelDown:
			if overPanel {
				m.body.LineDown(3)
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		ctl.PointerUp()
		return m, nil
	}
	return m, nil
}

func (m Model) handleLeftPress(x, y int, overPanel bool) (tea.Model, tea.Cmd) {
	ctl := m.ins.Panel()

	if m.ins.PanelVisible() {
		if edge := handleAt(ctl.Rect(), x, y); edge != 0 {
			ctl.BeginResize(edge, x, y)
			return m, nil
		}
	}
	if overPanel {
		rect := ctl.Rect()
		if y == rect.Y+1 { // header row inside the border
			if x >= rect.Right()-4 && x < rect.Right()-1 { // close glyph
				m.ins.ClosePanel()
				return m, nil
			}
			ctl.BeginDrag(x, y)
			return m, nil
		}
		if n := m.rowAt(rect, y); n != nil {
			m.ins.Selection().TreeSelect(n)
			if m.ins.Prefs().AutoOpen() && n.Source.Complete() {
				m.ins.OpenSource(n.Source)
			}
		}
		return m, nil
	}

	// Primary-modifier click on the scene jumps straight to the editor.
	if m.ins.Store().Snapshot().PrimaryHeld {
		if h := m.ins.ElementAt(x, y); h != nil {
			if src, ok := m.ins.Registry().SourceOf(h); ok && src.Complete() {
				m.ins.OpenSource(src)
			}
		}
	}
	return m, nil
}

// rowAt maps a pointer row inside the panel body to a visible tree node,
// accounting for the viewport scroll offset.
func (m Model) rowAt(rect overlay.Rect, y int) *hierarchy.Node {
	top := rect.Y + 1 + PanelHeaderRows // border + header
	idx := (y - top) + m.body.YOffset
	visible := m.ins.Tree().Visible()
	if idx < 0 || idx >= len(visible) {
		return nil
	}
	return visible[idx]
}

// handleAt maps a pointer cell on the panel border to a resize handle.
func handleAt(r overlay.Rect, x, y int) panel.Edge {
	if r.Empty() {
		return 0
	}
	onW := x == r.X
	onE := x == r.Right()-1
	onN := y == r.Y
	onS := y == r.Bottom()-1
	inX := x >= r.X && x < r.Right()
	inY := y >= r.Y && y < r.Bottom()

	var e panel.Edge
	if onN && inX {
		e |= panel.EdgeNorth
	}
	if onS && inX {
		e |= panel.EdgeSouth
	}
	if onW && inY {
		e |= panel.EdgeWest
	}
	if onE && inY {
		e |= panel.EdgeEast
	}
	return e
}
