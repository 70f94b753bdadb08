// Package tui is the terminal front end of the launcher. Mouse events become
// gesture events for the move-mode engine; timers and animation frames are
// bubbletea messages so that all state changes happen on the Update loop.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/termboard/internal/config"
)

// Options configures Run.
type Options struct {
	// ConfigPath is the file to load and watch. Empty means the default
	// location.
	ConfigPath string
	// Result is an already loaded config. When nil, Run loads ConfigPath.
	Result *config.LoadResult
	// Watch enables hot reload of ConfigPath.
	Watch bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	m, err := newModel(opts)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer m.engine.Close()
	defer m.zones.Close()

	if opts.Watch {
		path := opts.ConfigPath
		if path == "" {
			path, err = config.DefaultConfigPath()
			if err != nil {
				return err
			}
		}
		watcher, err := newConfigWatcher(path, 0)
		if err != nil {
			// Hot reload is optional; the launcher still works without it.
			m.log.WithError(err).Warn("config hot reload disabled")
		} else {
			defer watcher.Close()
			m.reloads = watcher.out
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
