package ui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# sourcelens

Hold **alt** and move the mouse to highlight elements and see where they
come from. Hold **ctrl** as well to toggle the ancestor tooltip.

## Keys

| Key | Action |
|-----|--------|
| i | toggle the tree panel |
| ↑ / ↓ | parent / first child, cycling through the tree at the ends |
| ← / → | previous / next sibling (wraps) |
| home / end | first / last visible node |
| enter | expand, collapse or open source |
| esc | clear selection, then close panel |
| ? | this help |
| ctrl+c | quit |

## Mouse

Alt-click an element to open its source in your editor. Drag the panel by
its header; drag any border to resize.
`

// renderHelp renders the help text once per session. Falls back to the
// raw markdown if the renderer cannot be built.
func renderHelp(width int) string {
	wrap := width - 8
	if wrap < 40 {
		wrap = 40
	}
	if wrap > 76 {
		wrap = 76
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
