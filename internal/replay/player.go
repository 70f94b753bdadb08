package replay

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/termboard/internal/animation"
	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/logging"
	"github.com/1broseidon/termboard/internal/movemode"
)

// settleLimit bounds the virtual time spent waiting for animations after the
// last event.
const settleLimit = 10 * time.Second

// Callback is one shell notification observed during the replay.
type Callback struct {
	At    string   `yaml:"at"`
	Event string   `yaml:"event"`
	Order []string `yaml:"order,omitempty"`
}

// Placement is where an app's icon came to rest. Slot is -1 when the icon
// sits outside the grid.
type Placement struct {
	ID   string  `yaml:"id"`
	Slot int     `yaml:"slot"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Report is the outcome of a replay.
type Report struct {
	Profile    string      `yaml:"profile"`
	Layout     string      `yaml:"layout"`
	Order      []string    `yaml:"order"`
	Editing    bool        `yaml:"editing"`
	Phase      string      `yaml:"phase"`
	Elapsed    string      `yaml:"elapsed"`
	Placements []Placement `yaml:"placements"`
	Callbacks  []Callback  `yaml:"callbacks"`
}

// Run plays s against cfg. Timers and animation frames run on a virtual
// clock, so a replay is deterministic and returns immediately.
func Run(s *Script, cfg *config.Config) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	name := s.Profile
	if name == "" {
		name = cfg.Profile
	}
	profile, err := cfg.GetProfile(name)
	if err != nil {
		return nil, err
	}

	log := logging.NewLogger("replay").WithFields(logrus.Fields{
		"profile": name,
		"events":  len(s.Events),
	})

	epoch := time.Unix(0, 0).UTC()
	sched := movemode.NewManualScheduler(epoch)

	driverOpts := animation.OptionsFromConfig(cfg.Timing, cfg.Spring)
	driverOpts.Clock = sched.Now
	driver := animation.NewDriver(driverOpts)
	frame := time.Second / time.Duration(frameRate(cfg.Timing.FrameRate))

	shell := apps.NewShell(scriptApps(s, cfg))
	if s.Editing {
		shell.StartEditing()
	}

	engineOpts := movemode.OptionsFromProfile(profile, cfg.Timing)
	engineOpts.Scheduler = sched
	engineOpts.Animator = driver
	engine := movemode.NewEngine(shell, engineOpts)
	defer engine.Close()
	engine.SetContainerSize(s.Width, s.Height)

	report := &Report{
		Profile: name,
		Layout:  engine.Layout().Sizes().Describe(),
	}
	shell.Subscribe(func(ev apps.Event) {
		driver.Relayout(ev.Apps, engine.Layout(), engine.Active())
		report.Callbacks = append(report.Callbacks, Callback{
			At:    sched.Now().Sub(epoch).String(),
			Event: ev.Kind.String(),
			Order: apps.IDs(ev.Apps),
		})
	})
	driver.Relayout(shell.Apps(), engine.Layout(), engine.Active())

	// advanceTo runs frames until the clock reaches target.
	advanceTo := func(target time.Time) {
		for sched.Now().Before(target) {
			step := target.Sub(sched.Now())
			if step > frame {
				step = frame
			}
			sched.Advance(step)
			driver.Step(sched.Now())
		}
	}

	for i, ev := range s.Events {
		advanceTo(epoch.Add(ev.At.Duration))
		gesture, err := ev.Gesture()
		if err != nil {
			return nil, fmt.Errorf("events.%d: %w", i, err)
		}
		log.WithFields(logrus.Fields{
			"at":   ev.At.String(),
			"kind": gesture.Kind.String(),
		}).Debug("replaying event")
		engine.Handle(gesture)
	}

	// Let timers and the snap-back finish.
	deadline := sched.Now().Add(settleLimit)
	for sched.Now().Before(deadline) {
		phase := engine.Phase()
		busy := phase == movemode.PhasePendingEdit || phase == movemode.PhaseReleasing
		if !busy && sched.Pending() == 0 && !driver.Animating() {
			break
		}
		advanceTo(sched.Now().Add(frame))
	}

	report.Order = apps.IDs(shell.Apps())
	report.Editing = shell.IsEditing()
	report.Phase = engine.Phase().String()
	report.Elapsed = sched.Now().Sub(epoch).String()

	layout := engine.Layout()
	sizes := layout.Sizes()
	for _, id := range report.Order {
		pos, ok := driver.Position(id)
		if !ok {
			continue
		}
		center := pos.Add(geom.Point{X: sizes.ItemWidth / 2, Y: sizes.ItemHeight / 2})
		report.Placements = append(report.Placements, Placement{
			ID:   id,
			Slot: layout.SlotAt(center),
			X:    pos.X,
			Y:    pos.Y,
		})
	}

	log.WithFields(logrus.Fields{
		"order":   strings.Join(report.Order, ","),
		"editing": report.Editing,
	}).Info("replay finished")
	return report, nil
}

// Check compares the report with e and lists every mismatch.
func (r *Report) Check(e *Expect) error {
	if e == nil {
		return nil
	}
	var problems []string
	if e.Order != nil && !slices.Equal(r.Order, e.Order) {
		problems = append(problems, fmt.Sprintf("order: got [%s], want [%s]",
			strings.Join(r.Order, " "), strings.Join(e.Order, " ")))
	}
	if e.Editing != nil && r.Editing != *e.Editing {
		problems = append(problems, fmt.Sprintf("editing: got %t, want %t", r.Editing, *e.Editing))
	}
	if e.Phase != "" && r.Phase != e.Phase {
		problems = append(problems, fmt.Sprintf("phase: got %s, want %s", r.Phase, e.Phase))
	}
	if r.Phase == movemode.PhaseIdle.String() {
		for _, p := range r.Placements {
			want := slices.Index(r.Order, p.ID)
			if p.Slot >= 0 && p.Slot != want {
				problems = append(problems, fmt.Sprintf("%s: rests in slot %d, want %d", p.ID, p.Slot, want))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("replay expectations failed:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

func scriptApps(s *Script, cfg *config.Config) []apps.App {
	if len(s.Apps) == 0 {
		return apps.FromConfig(cfg.Apps)
	}
	list := make([]apps.App, len(s.Apps))
	for i, id := range s.Apps {
		list[i] = apps.App{ID: id, Name: id}
	}
	return list
}

func frameRate(fps int) int {
	if fps <= 0 {
		return animation.DefaultFrameRate
	}
	return fps
}
