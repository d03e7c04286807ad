// Package logging provides category-tagged loggers for sourcelens.
// All components log through zap; the category shows up as a named
// sub-logger so a single log stream can be filtered per subsystem.
package logging

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryState     Category = "state"     // Interaction state store
	CategoryHierarchy Category = "hierarchy" // Tree builds and change detection
	CategorySelection Category = "selection" // Highlight reconciliation
	CategoryKeynav    Category = "keynav"    // Keyboard traversal
	CategoryPanel     Category = "panel"     // Panel geometry
	CategoryPrefs     Category = "prefs"     // Preference persistence
	CategoryEditor    Category = "editor"    // External editor integration
)

// EnvDebug enables debug-level logging when set to a truthy value.
const EnvDebug = "SOURCELENS_DEBUG"

// New builds the root logger. Output goes to the given file path, or to
// stderr when path is empty. The inspector runs inside a TUI, so stdout is
// never used.
func New(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	if debugEnabled() {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}

// For returns the category-scoped child of a root logger.
func For(root *zap.Logger, cat Category) *zap.Logger {
	if root == nil {
		return zap.NewNop()
	}
	return root.Named(string(cat))
}

// Nop returns a discarding logger, used as the default when a component is
// constructed without one.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func debugEnabled() bool {
	v := os.Getenv(EnvDebug)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
