// Package editor builds "open this source location" URIs from a protocol
// template and hands them to the host platform. The call is fire-and-forget:
// a failed open is logged and never retried.
package editor

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// templates maps an editor protocol preference to its URI template. {path}
// is the absolute or workspace-relative source path, {line} the line number.
var templates = map[string]string{
	"vscode":          "vscode://file/{path}:{line}",
	"vscode-insiders": "vscode-insiders://file/{path}:{line}",
	"idea":            "idea://open?file={path}&line={line}",
	"zed":             "zed://file/{path}:{line}",
	"textmate":        "txmt://open?url=file://{path}&line={line}",
}

// Opener asks the host platform to open a URI.
type Opener func(uri string) error

// Launcher turns source locations into editor URIs. The protocol comes from
// a preference accessor so a live preference reload takes effect on the next
// open.
type Launcher struct {
	log      *zap.Logger
	protocol func() string
	open     Opener
}

// NewLauncher creates a launcher. A nil opener uses the platform default.
func NewLauncher(protocol func() string, open Opener, log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	if open == nil {
		open = platformOpen
	}
	return &Launcher{log: log, protocol: protocol, open: open}
}

// URI builds the editor URI for a source location. line may be empty.
func (l *Launcher) URI(path, line string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty source path")
	}
	proto := l.protocol()
	tmpl, ok := templates[proto]
	if !ok {
		return "", fmt.Errorf("unknown editor protocol %q", proto)
	}
	uri := strings.ReplaceAll(tmpl, "{path}", escapePath(path))
	if line == "" {
		// Drop the line placeholder and whatever separator precedes it.
		for _, suffix := range []string{":{line}", "&line={line}"} {
			uri = strings.ReplaceAll(uri, suffix, "")
		}
	} else {
		uri = strings.ReplaceAll(uri, "{line}", line)
	}
	return uri, nil
}

// Open requests the editor, fire-and-forget. Errors are logged only.
func (l *Launcher) Open(path, line string) {
	uri, err := l.URI(path, line)
	if err != nil {
		l.log.Warn("cannot build editor uri",
			zap.String("path", path), zap.String("line", line), zap.Error(err))
		return
	}
	l.log.Info("opening source location", zap.String("uri", uri))
	if err := l.open(uri); err != nil {
		l.log.Warn("editor open failed", zap.String("uri", uri), zap.Error(err))
	}
}

// escapePath keeps path separators readable while escaping everything that
// would break the URI.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// platformOpen shells out to the OS URI handler.
func platformOpen(uri string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		cmd = exec.Command("xdg-open", uri)
	}
	return cmd.Start()
}
