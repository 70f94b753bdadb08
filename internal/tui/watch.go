package tui

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/logging"
)

const defaultReloadDebounce = 150 * time.Millisecond

// reloadMsg carries a freshly loaded config into Update.
type reloadMsg struct {
	result *config.LoadResult
	err    error
}

// configWatcher reloads the config when a YAML file next to it changes.
// Editors often replace files by rename, so the directory is watched rather
// than the file.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	out      chan reloadMsg
	done     chan struct{}
	log      *logrus.Entry

	mu    sync.Mutex
	timer *time.Timer
	once  sync.Once
}

func newConfigWatcher(path string, debounce time.Duration) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultReloadDebounce
	}

	cw := &configWatcher{
		watcher:  w,
		path:     path,
		debounce: debounce,
		out:      make(chan reloadMsg, 1),
		done:     make(chan struct{}),
		log:      logging.NewLogger("tui").WithField("config", path),
	}
	go cw.run()
	return cw, nil
}

func (cw *configWatcher) run() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.log.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isConfigFile(event.Name) {
				continue
			}
			cw.schedule()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.WithError(err).Warn("config watcher error")
		case <-cw.done:
			return
		}
	}
}

// schedule debounces bursts of writes into a single reload.
func (cw *configWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.timer != nil {
		cw.timer.Reset(cw.debounce)
		return
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.reload)
}

func (cw *configWatcher) reload() {
	res, err := config.LoadFromPath(cw.path)
	if err != nil {
		cw.log.WithError(err).Warn("config reload failed")
	} else {
		cw.log.Info("config reloaded")
	}

	msg := reloadMsg{result: res, err: err}
	select {
	case cw.out <- msg:
	case <-cw.done:
	default:
		// Replace a reload that Update has not picked up yet.
		select {
		case <-cw.out:
		default:
		}
		select {
		case cw.out <- msg:
		default:
		}
	}
}

// Close stops watching. Safe to call more than once.
func (cw *configWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.done)
		cw.mu.Lock()
		if cw.timer != nil {
			cw.timer.Stop()
		}
		cw.mu.Unlock()
		err = cw.watcher.Close()
	})
	return err
}

func isConfigFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// waitForReload blocks until the watcher delivers the next reload.
func waitForReload(ch <-chan reloadMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
