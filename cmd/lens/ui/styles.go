// Package ui renders the inspector chrome: the highlight overlay, the
// floating tree panel and the source tooltips, composited over the host
// scene inside the terminal.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Named visual parameters. Components read these and never write them; a
// theme file may override the colors and durations at startup.
var (
	ColorHighlight = lipgloss.Color("#8BC34A") // hover/keyboard overlay border
	ColorTreeSel   = lipgloss.Color("#2196F3") // tree-selection overlay border
	ColorPanelBord = lipgloss.Color("#5c6773")
	ColorPanelBG   = lipgloss.Color("#1a2536")
	ColorHeaderBG  = lipgloss.Color("#101F38")
	ColorText      = lipgloss.Color("#f2f2f2")
	ColorMuted     = lipgloss.Color("#8a93a0")
	ColorAccent    = lipgloss.Color("#FFC107")
)

// Timing parameters.
var (
	FrameInterval = 33 * time.Millisecond // visual refresh tick
)

// Theme bundles the resolved styles handed to the render paths.
type Theme struct {
	PanelBorder   lipgloss.Style
	PanelHeader   lipgloss.Style
	NodeLine      lipgloss.Style
	NodeSelected  lipgloss.Style
	NodeSource    lipgloss.Style
	TooltipBox   lipgloss.Style
	TooltipTitle lipgloss.Style
	TooltipMuted lipgloss.Style
}

// DefaultTheme builds the standard dark theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPanelBord).
			Background(ColorPanelBG),
		PanelHeader: lipgloss.NewStyle().
			Background(ColorHeaderBG).
			Foreground(ColorText).
			Bold(true).
			Padding(0, 1),
		NodeLine: lipgloss.NewStyle().
			Foreground(ColorText),
		NodeSelected: lipgloss.NewStyle().
			Foreground(ColorHeaderBG).
			Background(ColorHighlight).
			Bold(true),
		NodeSource: lipgloss.NewStyle().
			Foreground(ColorMuted),
		TooltipBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1),
		TooltipTitle: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true),
		TooltipMuted: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// themeFile is the YAML override schema. Only the values present in the
// file replace the defaults.
type themeFile struct {
	Highlight     string `yaml:"highlight"`
	TreeSelection string `yaml:"tree_selection"`
	PanelBorder   string `yaml:"panel_border"`
	PanelBG       string `yaml:"panel_bg"`
	HeaderBG      string `yaml:"header_bg"`
	Text          string `yaml:"text"`
	Muted         string `yaml:"muted"`
	Accent        string `yaml:"accent"`
	FrameMillis   int    `yaml:"frame_millis"`
}

// LoadThemeOverrides applies a YAML theme file to the package parameters.
// A missing file is fine; a malformed one is an error.
func LoadThemeOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read theme: %w", err)
	}
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parse theme: %w", err)
	}
	setColor(&ColorHighlight, tf.Highlight)
	setColor(&ColorTreeSel, tf.TreeSelection)
	setColor(&ColorPanelBord, tf.PanelBorder)
	setColor(&ColorPanelBG, tf.PanelBG)
	setColor(&ColorHeaderBG, tf.HeaderBG)
	setColor(&ColorText, tf.Text)
	setColor(&ColorMuted, tf.Muted)
	setColor(&ColorAccent, tf.Accent)
	if tf.FrameMillis > 0 {
		FrameInterval = time.Duration(tf.FrameMillis) * time.Millisecond
	}
	return nil
}

func setColor(dst *lipgloss.Color, v string) {
	if v != "" {
		*dst = lipgloss.Color(v)
	}
}
