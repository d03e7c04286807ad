// Package prefs persists panel geometry and user preferences as a small
// JSON key-value file. Values are validated on read; anything malformed or
// out of range falls back to a documented default with a warning, never an
// error surfaced to the user.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"sourcelens/internal/overlay"
)

// Defaults and declared ranges.
const (
	DefaultEditorProtocol     = "vscode"
	DefaultVisibleParentCount = 3
	MaxVisibleParentCount     = 10

	DefaultPanelWidth  = 360
	DefaultPanelHeight = 480
)

// knownProtocols lists the editor protocols the open-editor integration
// understands. Anything else on disk reads as the default.
var knownProtocols = map[string]bool{
	"vscode":          true,
	"vscode-insiders": true,
	"idea":            true,
	"zed":             true,
	"textmate":        true,
}

// PanelGeometry is the persisted panel rectangle.
type PanelGeometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Preferences is the on-disk schema.
type Preferences struct {
	Panel              PanelGeometry `json:"panel"`
	EditorProtocol     string        `json:"editor_protocol"`
	VisibleParentCount int           `json:"visible_parent_count"`
	AutoOpen           bool          `json:"auto_open"`
}

// DefaultPreferences returns the documented defaults. The panel opens in the
// top-left corner at its default size.
func DefaultPreferences() Preferences {
	return Preferences{
		Panel:              PanelGeometry{Width: DefaultPanelWidth, Height: DefaultPanelHeight},
		EditorProtocol:     DefaultEditorProtocol,
		VisibleParentCount: DefaultVisibleParentCount,
	}
}

// Manager loads and saves the preferences file.
type Manager struct {
	mu    sync.RWMutex
	log   *zap.Logger
	path  string
	prefs Preferences
}

// NewManager creates a manager for the given file path.
func NewManager(path string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log, path: path, prefs: DefaultPreferences()}
}

// Load reads the file. A missing file yields defaults silently; a corrupt
// one yields defaults with a warning. Load never returns an error for bad
// content, only for unexpected I/O failures.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.prefs = DefaultPreferences()
			return nil
		}
		return fmt.Errorf("read preferences: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		m.log.Warn("preferences file corrupt, using defaults",
			zap.String("path", m.path), zap.Error(err))
		m.prefs = DefaultPreferences()
		return nil
	}
	m.prefs = p
	return nil
}

// Save writes the current preferences, creating the directory if needed.
func (m *Manager) Save() error {
	m.mu.RLock()
	p := m.prefs
	m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

// EditorProtocol returns the validated editor protocol.
func (m *Manager) EditorProtocol() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !knownProtocols[m.prefs.EditorProtocol] {
		if m.prefs.EditorProtocol != "" {
			m.log.Warn("unknown editor protocol, using default",
				zap.String("protocol", m.prefs.EditorProtocol))
		}
		return DefaultEditorProtocol
	}
	return m.prefs.EditorProtocol
}

// SetEditorProtocol stores a protocol choice; unknown values are ignored.
func (m *Manager) SetEditorProtocol(p string) {
	if !knownProtocols[p] {
		return
	}
	m.mu.Lock()
	m.prefs.EditorProtocol = p
	m.mu.Unlock()
}

// VisibleParentCount returns the validated ancestor-chain display depth.
func (m *Manager) VisibleParentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := m.prefs.VisibleParentCount
	if n < 0 || n > MaxVisibleParentCount {
		m.log.Warn("visible parent count out of range, using default",
			zap.Int("value", n))
		return DefaultVisibleParentCount
	}
	if n == 0 {
		return DefaultVisibleParentCount
	}
	return n
}

// AutoOpen returns the auto-open-editor flag.
func (m *Manager) AutoOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs.AutoOpen
}

// SetAutoOpen stores the auto-open-editor flag.
func (m *Manager) SetAutoOpen(v bool) {
	m.mu.Lock()
	m.prefs.AutoOpen = v
	m.mu.Unlock()
}

// PanelRect returns the persisted panel geometry validated against the
// viewport and the panel's minimum size. Invalid or out-of-bounds geometry
// falls back to the default rectangle clamped into the viewport.
func (m *Manager) PanelRect(viewport overlay.Rect, min overlay.Size) overlay.Rect {
	m.mu.RLock()
	g := m.prefs.Panel
	m.mu.RUnlock()

	r := overlay.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
	if r.Width < min.Width || r.Height < min.Height {
		m.log.Warn("persisted panel size below minimum, using default",
			zap.Int("width", r.Width), zap.Int("height", r.Height))
		r = overlay.Rect{Width: DefaultPanelWidth, Height: DefaultPanelHeight}
		if r.Width < min.Width {
			r.Width = min.Width
		}
		if r.Height < min.Height {
			r.Height = min.Height
		}
	}
	if !viewport.ContainsRect(r) {
		r = r.ClampTo(viewport)
	}
	return r
}

// SavePosition implements panel.Persister.
func (m *Manager) SavePosition(x, y int) {
	m.mu.Lock()
	m.prefs.Panel.X = x
	m.prefs.Panel.Y = y
	m.mu.Unlock()
	m.flush()
}

// SaveSize implements panel.Persister.
func (m *Manager) SaveSize(width, height int) {
	m.mu.Lock()
	m.prefs.Panel.Width = width
	m.prefs.Panel.Height = height
	m.mu.Unlock()
	m.flush()
}

func (m *Manager) flush() {
	if err := m.Save(); err != nil {
		m.log.Warn("failed to persist preferences", zap.Error(err))
	}
}
