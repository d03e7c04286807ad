package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"sourcelens/internal/overlay"
)

// Splice lays a rendered block over base lines at cell position (x, y).
// Base lines keep whatever escapes they carry; the cut points are
// column-accurate. Rows before y and after the block pass through.
func Splice(base []string, block string, x, y int) []string {
	if x < 0 {
		x = 0
	}
	out := make([]string, len(base))
	copy(out, base)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		row := y + i
		if row < 0 || row >= len(out) {
			continue
		}
		out[row] = spliceLine(out[row], line, x)
	}
	return out
}

func spliceLine(base, block string, x int) string {
	w := ansi.StringWidth(block)
	if w == 0 {
		return base
	}
	left := ansi.Truncate(base, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	right := ansi.TruncateLeft(base, x+w, "")
	return left + block + right
}

// DrawBox traces a border around r on the base lines, leaving the
// interior untouched. Used for the element highlight overlay.
func DrawBox(base []string, r overlay.Rect, color lipgloss.Color) []string {
	if r.Empty() {
		return base
	}
	style := lipgloss.NewStyle().Foreground(color)
	out := base
	top := style.Render("┌" + strings.Repeat("─", max(r.Width-2, 0)) + cornerIf(r.Width > 1, "┐"))
	out = Splice(out, top, r.X, r.Y)
	if r.Height > 1 {
		side := style.Render("│")
		for row := r.Y + 1; row < r.Bottom()-1; row++ {
			out = Splice(out, side, r.X, row)
			if r.Width > 1 {
				out = Splice(out, side, r.Right()-1, row)
			}
		}
		bottom := style.Render("└" + strings.Repeat("─", max(r.Width-2, 0)) + cornerIf(r.Width > 1, "┘"))
		out = Splice(out, bottom, r.X, r.Bottom()-1)
	}
	return out
}

// PadCanvas normalizes the host scene to exactly width x height cells so
// overlays land where the geometry says they do.
func PadCanvas(content string, width, height int) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		} else if w > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return lines
}

func cornerIf(ok bool, s string) string {
	if ok {
		return s
	}
	return ""
}
