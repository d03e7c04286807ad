// Command lens runs the source inspector over a host scene.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sourcelens/cmd/lens/demo"
	"sourcelens/cmd/lens/ui"
	"sourcelens/internal/element"
	"sourcelens/internal/inspector"
	"sourcelens/internal/logging"
	"sourcelens/internal/overlay"
	"sourcelens/internal/prefs"
)

var (
	flagPrefs string
	flagTheme string
	flagLog   string
)

func main() {
	root := &cobra.Command{
		Use:   "lens",
		Short: "Live source-location inspector for terminal widget trees",
		Long: "lens overlays a rendered widget tree with source-location " +
			"information: hover to highlight, open a floating hierarchy " +
			"panel, and jump from any element to the code that produced it.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flagPrefs, "prefs", "", "preferences file (default: user config dir)")
	root.PersistentFlags().StringVar(&flagTheme, "theme", "", "YAML theme override file")
	root.PersistentFlags().StringVar(&flagLog, "log", "", "debug log file")

	root.AddCommand(&cobra.Command{
		Use:   "demo",
		Short: "Inspect the built-in demo scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfig(cmd)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDemo(ctx context.Context) error {
	log, err := logging.New(flagLog)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	if flagTheme != "" {
		if err := ui.LoadThemeOverrides(flagTheme); err != nil {
			return err
		}
	}

	pm := prefs.NewManager(prefsPath(), logging.For(log, logging.CategoryPrefs))
	if err := pm.Load(); err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}

	reg := element.NewRegistry()
	scene := demo.Build(reg)

	// The dispatch indirection exists because the program needs the
	// inspector and the inspector's timers need the program. It is
	// assigned once, before the program runs and before any timer is
	// armed.
	var dispatch func(func())

	ins := inspector.New(inspector.Options{
		Log:      log,
		Prefs:    pm,
		Host:     scene,
		Registry: reg,
		Viewport: overlay.Rect{Width: 100, Height: 30},
		PanelMin: overlay.Size{Width: ui.PanelMinWidth, Height: ui.PanelMinHeight},
		Dispatch: func(fn func()) { dispatch(fn) },
	})
	defer ins.Destroy()
	ins.Refresh()

	prog := tea.NewProgram(ui.NewModel(ins, scene),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	dispatch = ui.Dispatcher(prog)

	watcher, err := prefs.NewWatcher(pm,
		func() { dispatch(func() { ins.Frame().Mark() }) },
		logging.For(log, logging.CategoryPrefs))
	if err != nil {
		log.Warn("preferences watcher unavailable", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := prog.Run()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		if watcher != nil {
			watcher.Close()
		}
		prog.Quit()
		return nil
	})

	err = g.Wait()
	if watcher != nil {
		watcher.Close()
	}
	return err
}

func printConfig(cmd *cobra.Command) error {
	pm := prefs.NewManager(prefsPath(), nil)
	if err := pm.Load(); err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	cmd.Printf("preferences file:     %s\n", prefsPath())
	cmd.Printf("editor protocol:      %s\n", pm.EditorProtocol())
	cmd.Printf("visible parent count: %d\n", pm.VisibleParentCount())
	cmd.Printf("auto open on select:  %t\n", pm.AutoOpen())
	return nil
}

func prefsPath() string {
	if flagPrefs != "" {
		return flagPrefs
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sourcelens", "prefs.json")
}
