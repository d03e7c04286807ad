// Package demo ships a small fake application scene so the inspector can
// be tried without embedding it in a real program.
package demo

import (
	"strings"

	"sourcelens/internal/element"
	"sourcelens/internal/memhost"
	"sourcelens/internal/overlay"
)

// Scene is an in-memory widget tree with fixed geometry and a plain-text
// renderer. It satisfies both the inspector host boundary and the ui
// scene boundary.
type Scene struct {
	host *memhost.Host
}

type widgetSpec struct {
	id, label string
	bounds    overlay.Rect
	src       element.Source
	children  []widgetSpec
}

// Build assembles the demo tree and tags every widget with its
// (synthetic) source location in the given registry.
func Build(reg *element.Registry) *Scene {
	s := &Scene{host: memhost.New()}

	app := widgetSpec{
		id: "app", label: "App", bounds: overlay.Rect{X: 0, Y: 0, Width: 100, Height: 30},
		src: src("demo/app", "app.go", "14"),
		children: []widgetSpec{
			{
				id: "header", label: "Header", bounds: overlay.Rect{X: 0, Y: 0, Width: 100, Height: 3},
				src: src("demo/chrome", "header.go", "9"),
				children: []widgetSpec{
					{id: "title", label: "Title", bounds: overlay.Rect{X: 2, Y: 1, Width: 20, Height: 1},
						src: src("demo/chrome", "header.go", "21")},
				},
			},
			{
				id: "sidebar", label: "Sidebar", bounds: overlay.Rect{X: 0, Y: 3, Width: 24, Height: 24},
				src: src("demo/nav", "sidebar.go", "11"),
				children: []widgetSpec{
					{id: "nav-home", label: "Nav: Home", bounds: overlay.Rect{X: 2, Y: 5, Width: 20, Height: 1},
						src: src("demo/nav", "items.go", "7")},
					{id: "nav-reports", label: "Nav: Reports", bounds: overlay.Rect{X: 2, Y: 7, Width: 20, Height: 1},
						src: src("demo/nav", "items.go", "15")},
					{id: "nav-settings", label: "Nav: Settings", bounds: overlay.Rect{X: 2, Y: 9, Width: 20, Height: 1},
						src: src("demo/nav", "items.go", "23")},
				},
			},
			{
				id: "content", label: "Content", bounds: overlay.Rect{X: 24, Y: 3, Width: 76, Height: 24},
				src: src("demo/content", "content.go", "8"),
				children: []widgetSpec{
					{id: "card-1", label: "Card: Revenue", bounds: overlay.Rect{X: 27, Y: 5, Width: 32, Height: 8},
						src: src("demo/content", "cards.go", "19")},
					{id: "card-2", label: "Card: Errors", bounds: overlay.Rect{X: 63, Y: 5, Width: 32, Height: 8},
						src: src("demo/content", "cards.go", "42")},
					{id: "table", label: "Table", bounds: overlay.Rect{X: 27, Y: 15, Width: 68, Height: 10},
						src: src("demo/content", "table.go", "12")},
				},
			},
			{
				id: "footer", label: "Footer", bounds: overlay.Rect{X: 0, Y: 27, Width: 100, Height: 3},
				src: src("demo/chrome", "footer.go", "6"),
			},
		},
	}

	root := s.host.AddRoot(app.id, app.label, app.bounds)
	reg.Tag(root, app.src)
	s.addChildren(reg, root, app.children)
	return s
}

func (s *Scene) addChildren(reg *element.Registry, parent *memhost.Widget, specs []widgetSpec) {
	for _, ws := range specs {
		w := s.host.AddChild(parent, ws.id, ws.label, ws.bounds)
		reg.Tag(w, ws.src)
		s.addChildren(reg, w, ws.children)
	}
}

func src(path, file, line string) element.Source {
	return element.Source{Path: path, File: file, Line: line}
}

// Elements reports the widget tree in render order.
func (s *Scene) Elements() []element.Handle { return s.host.Elements() }

// ElementAt hit-tests the deepest widget under the cell.
func (s *Scene) ElementAt(x, y int) element.Handle {
	w := s.host.WidgetAt(x, y)
	if w == nil {
		return nil
	}
	return w
}

// Label names a widget for the tree panel and tooltips.
func (s *Scene) Label(h element.Handle) string {
	if h == nil {
		return ""
	}
	if w, ok := s.host.Lookup(h.ID()); ok {
		return w.Label()
	}
	return h.ID()
}

// Render draws every widget as a plain box with its label in the top-left
// corner. Deeper widgets draw over their ancestors.
func (s *Scene) Render(width, height int) string {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, h := range s.host.Elements() {
		w, ok := s.host.Lookup(h.ID())
		if !ok {
			continue
		}
		b, visible := w.Bounds()
		if !visible {
			continue
		}
		drawFrame(grid, b, width, height)
		drawText(grid, b.X+1, b.Y, " "+w.Label()+" ", width, height)
	}
	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func drawFrame(grid [][]rune, r overlay.Rect, width, height int) {
	set := func(x, y int, c rune) {
		if x >= 0 && x < width && y >= 0 && y < height {
			grid[y][x] = c
		}
	}
	for x := r.X; x < r.Right(); x++ {
		set(x, r.Y, '─')
		set(x, r.Bottom()-1, '─')
	}
	for y := r.Y; y < r.Bottom(); y++ {
		set(r.X, y, '│')
		set(r.Right()-1, y, '│')
	}
	set(r.X, r.Y, '┌')
	set(r.Right()-1, r.Y, '┐')
	set(r.X, r.Bottom()-1, '└')
	set(r.Right()-1, r.Bottom()-1, '┘')
}

func drawText(grid [][]rune, x, y int, text string, width, height int) {
	for i, c := range []rune(text) {
		if x+i >= 0 && x+i < width && y >= 0 && y < height {
			grid[y][x+i] = c
		}
	}
}
