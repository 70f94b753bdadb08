package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sirupsen/logrus"

	"github.com/1broseidon/termboard/internal/animation"
	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/logging"
	"github.com/1broseidon/termboard/internal/movemode"
)

const (
	doneZoneID   = "done"
	headerHeight = 1
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250"))
	editingBadgeStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("15")).
				Padding(0, 1)
	doneButtonStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("42")).
			Foreground(lipgloss.Color("0")).
			Bold(true).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Padding(0, 1)
)

// frameMsg drives one animation frame.
type frameMsg struct {
	at time.Time
}

// model is the root bubbletea model: a grid of app icons that can be
// rearranged with the mouse after a long press, or with the keyboard.
type model struct {
	configPath string
	result     *config.LoadResult
	profile    string

	shell  *apps.Shell
	engine *movemode.Engine
	driver *animation.Driver
	sched  *msgScheduler
	zones  *zone.Manager

	keys keyMap
	help help.Model

	now      func() time.Time
	frame    time.Duration
	ticking  bool
	reloads  <-chan reloadMsg
	lastErr  string
	pressed  bool
	pressAt  geom.Point
	quitting bool

	// Terminal dimensions
	width  int
	height int

	log *logrus.Entry
}

func newModel(opts Options) (model, error) {
	m := model{
		configPath: opts.ConfigPath,
		result:     opts.Result,
		keys:       defaultKeyMap(),
		help:       help.New(),
		now:        opts.Now,
		zones:      zone.New(),
		log:        logging.NewLogger("tui"),
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.result == nil {
		if err := m.loadConfig(); err != nil {
			return model{}, err
		}
	}

	cfg := m.result.Config
	profile, err := cfg.GetActiveProfile()
	if err != nil {
		return model{}, err
	}
	m.profile = cfg.Profile

	m.sched = newMsgScheduler(m.now)
	m.driver = animation.NewDriver(m.driverOptions(cfg))
	m.shell = apps.NewShell(apps.FromConfig(cfg.Apps))

	engineOpts := movemode.OptionsFromProfile(profile, cfg.Timing)
	engineOpts.Scheduler = m.sched
	engineOpts.Animator = m.driver
	m.engine = movemode.NewEngine(m.shell, engineOpts)
	m.frame = frameInterval(cfg.Timing.FrameRate)

	engine, driver := m.engine, m.driver
	m.shell.Subscribe(func(ev apps.Event) {
		driver.Relayout(ev.Apps, engine.Layout(), engine.Active())
	})
	return m, nil
}

func (m *model) loadConfig() error {
	var res *config.LoadResult
	var err error

	if m.configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(m.configPath)
	}
	if err != nil {
		return err
	}
	m.result = res
	return nil
}

func (m model) driverOptions(cfg *config.Config) animation.Options {
	opts := animation.OptionsFromConfig(cfg.Timing, cfg.Spring)
	opts.Clock = m.now
	return opts
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = animation.DefaultFrameRate
	}
	return time.Second / time.Duration(fps)
}

// gridSize returns the surface available to the icons.
func (m model) gridSize() (int, int) {
	h := m.height - headerHeight - lipgloss.Height(m.helpView())
	if h < 0 {
		h = 0
	}
	return m.width, h
}

func (m *model) resize() {
	w, h := m.gridSize()
	m.help.Width = m.width
	m.engine.SetContainerSize(float64(w), float64(h))
	m.relayout()
}

func (m *model) relayout() {
	m.driver.Relayout(m.shell.Apps(), m.engine.Layout(), m.engine.Active())
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return waitForReload(m.reloads)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case timerMsg:
		m.sched.fire(msg.id)

	case frameMsg:
		m.ticking = false
		m.driver.Step(msg.at)

	case reloadMsg:
		m.applyReload(msg)
		cmd = waitForReload(m.reloads)
	}

	out := m.flush(cmd)
	return m, out
}

// flush collects the timers armed while handling a message and keeps the
// frame loop running while anything moves.
func (m *model) flush(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.sched.drain()...)
	if !m.quitting && !m.ticking && (m.shell.IsEditing() || m.driver.Animating()) {
		m.ticking = true
		cmds = append(cmds, tea.Tick(m.frame, func(t time.Time) tea.Msg {
			return frameMsg{at: t}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	editing := m.shell.IsEditing()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.engine.Close()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, m.keys.Edit):
		if editing {
			m.stopEditing()
		} else {
			m.shell.StartEditing()
		}

	case key.Matches(msg, m.keys.Done):
		if editing {
			m.stopEditing()
		}

	case key.Matches(msg, m.keys.MoveUp):
		m.engine.Nudge(movemode.DirUp)
	case key.Matches(msg, m.keys.MoveDown):
		m.engine.Nudge(movemode.DirDown)
	case key.Matches(msg, m.keys.MoveLeft):
		m.engine.Nudge(movemode.DirLeft)
	case key.Matches(msg, m.keys.MoveRight):
		m.engine.Nudge(movemode.DirRight)

	case key.Matches(msg, m.keys.Up):
		m.engine.Select(movemode.DirUp)
	case key.Matches(msg, m.keys.Down):
		m.engine.Select(movemode.DirDown)
	case key.Matches(msg, m.keys.Left):
		m.engine.Select(movemode.DirLeft)
	case key.Matches(msg, m.keys.Right):
		m.engine.Select(movemode.DirRight)
	}
	return nil
}

// stopEditing is the Done action: the shell leaves edit mode and the engine
// drops whatever it was holding.
func (m *model) stopEditing() {
	m.shell.StopEditing()
	m.engine.EditingStopped()
	m.pressed = false
	m.relayout()
}

// gridPoint converts a terminal cell to grid coordinates, aiming at the
// middle of the cell.
func gridPoint(x, y int) geom.Point {
	return geom.Point{X: float64(x) + 0.5, Y: float64(y-headerHeight) + 0.5}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.shell.IsEditing() && m.inDoneZone(msg) {
			m.stopEditing()
			return
		}
		m.pressed = true
		m.pressAt = gridPoint(msg.X, msg.Y)
		m.engine.Grant(m.pressAt)

	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		m.engine.Move(gridPoint(msg.X, msg.Y).Sub(m.pressAt))

	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}
		m.pressed = false
		m.engine.Release()
	}
}

func (m model) inDoneZone(msg tea.MouseMsg) bool {
	z := m.zones.Get(doneZoneID)
	return z != nil && z.InBounds(msg)
}

// applyReload swaps in a new config. Geometry and timing apply at once; the
// app set is merged so that the session's order survives.
func (m *model) applyReload(msg reloadMsg) {
	if msg.err != nil {
		m.lastErr = msg.err.Error()
		return
	}
	cfg := msg.result.Config
	profile, err := cfg.GetActiveProfile()
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.lastErr = ""
	m.result = msg.result
	m.profile = cfg.Profile
	m.frame = frameInterval(cfg.Timing.FrameRate)

	var selectedID string
	if list, sel := m.shell.Apps(), m.engine.Selected(); sel >= 0 && sel < len(list) {
		selectedID = list[sel].ID
	}

	m.engine.UpdateConfig(movemode.OptionsFromProfile(profile, cfg.Timing))
	m.driver.UpdateOptions(m.driverOptions(cfg))
	m.shell.Replace(apps.FromConfig(cfg.Apps))
	m.resize()

	// The selection follows its app; if the app is gone it is clamped.
	if idx := apps.Index(m.shell.Apps(), selectedID); idx >= 0 {
		m.engine.SelectIndex(idx)
	} else {
		m.engine.SelectIndex(m.engine.Selected())
	}

	m.log.WithFields(logrus.Fields{
		"profile": cfg.Profile,
		"apps":    len(cfg.Apps),
	}).Info("config applied")
}

func (m model) helpView() string {
	return helpStyle.Render(m.help.View(m.keys))
}

func (m model) statusBar() string {
	editing := m.shell.IsEditing()

	left := fmt.Sprintf(" termboard  %s  %d apps", m.profile, len(m.shell.Apps()))
	if editing {
		left += "  " + editingBadgeStyle.Render("editing")
	}
	if m.lastErr != "" {
		left += "  " + errorStyle.Render(m.lastErr)
	}

	right := ""
	if editing {
		right = doneButtonStyle.Render("Done")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	if right != "" {
		right = m.zones.Mark(doneZoneID, right)
	}
	return statusBarStyle.MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 || m.quitting {
		return ""
	}

	w, h := m.gridSize()
	views := placeIcons(
		m.shell.Apps(),
		m.engine.Layout(),
		m.driver.Frame(m.now()),
		m.engine.Active(),
		m.engine.Selected(),
		m.shell.IsEditing(),
	)

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left,
		m.statusBar(),
		renderGrid(views, w, h),
		m.helpView(),
	))
}
