package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"sourcelens/internal/hierarchy"
	"sourcelens/internal/overlay"
	"sourcelens/internal/selection"
)

func (m Model) View() string {
	if m.width < MinTermWidth || m.height < MinTermHeight {
		return "terminal too small for the inspector"
	}
	base := PadCanvas(m.scene.Render(m.width, m.height), m.width, m.height)

	snap := m.ins.Store().Snapshot()
	if r, origin, ok := m.ins.Highlight(); ok {
		color := ColorHighlight
		if origin == selection.OriginTree {
			color = ColorTreeSel
		}
		base = DrawBox(base, r, color)
		if snap.PrimaryHeld || snap.TooltipVisible {
			base = m.drawTooltips(base, r, snap.TooltipVisible)
		}
	}

	if m.ins.PanelVisible() {
		rect := m.ins.Panel().Rect()
		base = Splice(base, m.renderPanel(rect), rect.X, rect.Y)
	}

	if m.helpVisible {
		help := m.theme.PanelBorder.Render(m.helpBody)
		hw, hh := lipgloss.Width(help), lipgloss.Height(help)
		base = Splice(base, help, (m.width-hw)/2, (m.height-hh)/2)
	}
	return strings.Join(base, "\n")
}

// drawTooltips places the source tooltip next to the highlight, and the
// ancestor-chain tooltip beside it when the extended view is toggled on.
func (m Model) drawTooltips(base []string, anchor overlay.Rect, extended bool) []string {
	h, _ := m.ins.Selection().Resolve()
	if h == nil {
		return base
	}
	node, ok := m.ins.Tree().NodeByElement(h.ID())
	if !ok {
		return base
	}

	tip := m.renderTooltip(node)
	size := overlay.Size{Width: lipgloss.Width(tip), Height: lipgloss.Height(tip)}
	pos := m.ins.Engine().Tooltip(anchor, size)
	base = Splice(base, tip, pos.X, pos.Y)

	if extended {
		chain := m.renderAncestorTooltip(node)
		if chain != "" {
			csize := overlay.Size{Width: lipgloss.Width(chain), Height: lipgloss.Height(chain)}
			cpos := m.ins.Engine().SecondaryTooltip(pos, csize)
			base = Splice(base, chain, cpos.X, cpos.Y)
		}
	}
	return base
}

func (m Model) renderTooltip(n *hierarchy.Node) string {
	title := m.theme.TooltipTitle.Render(m.scene.Label(n.Element))
	loc := m.theme.TooltipMuted.Render(sourceLine(n))
	body := title + "\n" + loc
	return m.theme.TooltipBox.MaxWidth(TooltipMaxWidth).Render(body)
}

// renderAncestorTooltip lists the nearest ancestors, closest first, up to
// the configured parent count.
func (m Model) renderAncestorTooltip(n *hierarchy.Node) string {
	limit := m.ins.Prefs().VisibleParentCount()
	var rows []string
	for p := n.Parent; p != nil && len(rows) < limit; p = p.Parent {
		rows = append(rows, fmt.Sprintf("%s %s",
			m.theme.NodeLine.Render(m.scene.Label(p.Element)),
			m.theme.TooltipMuted.Render(sourceLine(p))))
	}
	if len(rows) == 0 {
		return ""
	}
	return m.theme.TooltipBox.MaxWidth(TooltipMaxWidth).Render(strings.Join(rows, "\n"))
}

func (m Model) renderPanel(rect overlay.Rect) string {
	innerW := rect.Width - 2
	innerH := rect.Height - 2 - PanelHeaderRows
	if innerW < 1 || innerH < 1 {
		return ""
	}

	title := "sourcelens"
	closeGlyph := "✕ "
	// The header style pads one cell each side; the content must fit
	// inside that or lipgloss wraps it onto a second row.
	gap := innerW - 2 - lipgloss.Width(title) - lipgloss.Width(closeGlyph)
	if gap < 0 {
		gap = 0
	}
	header := m.theme.PanelHeader.Width(innerW).Render(title + strings.Repeat(" ", gap) + closeGlyph)

	body := m.body
	body.Width = innerW
	body.Height = innerH
	body.SetContent(strings.Join(m.treeRows(innerW), "\n"))

	return m.theme.PanelBorder.Render(header + "\n" + body.View())
}

// treeRows renders the expansion-aware node list, one row per visible
// node, highlighting the authoritative selection.
func (m Model) treeRows(width int) []string {
	visible := m.ins.Tree().Visible()
	if len(visible) == 0 {
		return []string{m.theme.NodeSource.Render(" no inspectable elements")}
	}
	selected := m.selectedNode()

	rows := make([]string, 0, len(visible))
	for _, n := range visible {
		marker := "· "
		if !n.Leaf() {
			if n.Expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}
		indent := strings.Repeat(" ", n.Depth*TreeIndent)
		label := m.scene.Label(n.Element)
		row := indent + marker + label + "  " + m.theme.NodeSource.Render(sourceLine(n))
		row = ansi.Truncate(row, width, "…")
		if n == selected {
			plain := ansi.Strip(row)
			if pad := width - ansi.StringWidth(plain); pad > 0 {
				plain += strings.Repeat(" ", pad)
			}
			row = m.theme.NodeSelected.Render(plain)
		}
		rows = append(rows, row)
	}
	return rows
}

// selectedNode picks the row to highlight: the authoritative selection,
// whatever its origin. A hover reveal therefore lights its row in the
// panel without claiming tree-selection precedence.
func (m Model) selectedNode() *hierarchy.Node {
	h, origin := m.ins.Selection().Resolve()
	if origin == selection.OriginNone || h == nil {
		return m.ins.Traversal().Cursor()
	}
	if n, ok := m.ins.Tree().NodeByElement(h.ID()); ok {
		return n
	}
	return nil
}

func sourceLine(n *hierarchy.Node) string {
	if n.Source.Line == "" {
		return n.Source.File
	}
	return n.Source.File + ":" + n.Source.Line
}

// scrollToSelection keeps the highlighted row inside the panel body.
func (m Model) scrollToSelection() Model {
	sel := m.selectedNode()
	if sel == nil || !m.ins.PanelVisible() {
		return m
	}
	visible := m.ins.Tree().Visible()
	idx := -1
	for i, n := range visible {
		if n == sel {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m
	}
	bodyH := m.ins.Panel().Rect().Height - 2 - PanelHeaderRows
	if bodyH < 1 {
		return m
	}
	if idx < m.body.YOffset {
		m.body.YOffset = idx
	} else if idx >= m.body.YOffset+bodyH {
		m.body.YOffset = idx - bodyH + 1
	}
	return m
}

var _ tea.Model = Model{}
