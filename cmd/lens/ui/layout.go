package ui

// Layout constants, in terminal cells.
const (
	// MinTermWidth is the smallest terminal the inspector renders into.
	MinTermWidth = 40
	// MinTermHeight is the smallest terminal the inspector renders into.
	MinTermHeight = 12

	// PanelMinWidth and PanelMinHeight bound panel resizing. Terminal
	// cells are coarser than the pointer grid the geometry controller
	// was sized for, so the panel floor is much smaller here.
	PanelMinWidth  = 24
	PanelMinHeight = 8

	// PanelHeaderRows is the title bar inside the panel border.
	PanelHeaderRows = 1

	// TooltipMaxWidth caps tooltip content before wrapping.
	TooltipMaxWidth = 48

	// TreeIndent is the per-depth indentation of tree rows.
	TreeIndent = 2
)
