// Package animation drives icon motion: springs that settle icons into their
// slots, the press feedback of the active icon, the release snap-back and
// the edit-mode wiggle.
package animation

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/tiling"
)

const (
	DefaultFrameRate = 60
	DefaultFrequency = 7.0
	DefaultDamping   = 0.6
	DefaultSnapBack  = 100 * time.Millisecond

	// settleEpsilon is the distance and speed below which a spring is done.
	settleEpsilon = 0.01
)

// Options configures a Driver.
type Options struct {
	FrameRate int
	Frequency float64
	Damping   float64
	SnapBack  time.Duration
	WiggleLeg time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// OptionsFromConfig maps timing and spring settings.
func OptionsFromConfig(timing config.Timing, spring config.Spring) Options {
	return Options{
		FrameRate: timing.FrameRate,
		Frequency: spring.Frequency,
		Damping:   spring.Damping,
		SnapBack:  timing.SnapBack.Duration,
		WiggleLeg: timing.WiggleLeg.Duration,
	}
}

type axis struct {
	pos, vel float64
}

func (a *axis) step(s harmonica.Spring, target float64) {
	a.pos, a.vel = s.Update(a.pos, a.vel, target)
	if math.Abs(a.pos-target) < settleEpsilon && math.Abs(a.vel) < settleEpsilon {
		a.pos, a.vel = target, 0
	}
}

func (a axis) settled(target float64) bool {
	return a.pos == target && a.vel == 0
}

type tracked struct {
	x, y   axis
	target geom.Point
}

func (t *tracked) jump(p geom.Point) {
	t.x = axis{pos: p.X}
	t.y = axis{pos: p.Y}
	t.target = p
}

func (t *tracked) point() geom.Point {
	return geom.Point{X: t.x.pos, Y: t.y.pos}
}

func (t *tracked) settled() bool {
	return t.x.settled(t.target.X) && t.y.settled(t.target.Y)
}

type snapBack struct {
	from  geom.Point
	start time.Time
	dur   time.Duration
	done  func()
}

// Frame is a snapshot for rendering.
type Frame struct {
	// Positions holds the animated top-left of every app's cell by id.
	Positions map[string]geom.Point
	// Offset is the drag offset of the active icon.
	Offset   geom.Point
	Pressing float64
	Wiggle   float64
}

// Driver owns the animated values. It implements the engine's Animator.
type Driver struct {
	mu        sync.Mutex
	spring    harmonica.Spring
	snapDur   time.Duration
	wiggleLeg time.Duration
	clock     func() time.Time
	epoch     time.Time

	positions map[string]*tracked
	pressing  axis
	pressTo   float64
	offset    geom.Point
	snap      *snapBack
}

// NewDriver creates a driver with no tracked apps.
func NewDriver(opts Options) *Driver {
	d := &Driver{positions: make(map[string]*tracked)}
	d.configure(opts)
	d.epoch = d.clock()
	return d
}

// UpdateOptions swaps spring and timing settings, keeping all state.
func (d *Driver) UpdateOptions(opts Options) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.configure(opts)
}

func (d *Driver) configure(opts Options) {
	fps := opts.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	freq := opts.Frequency
	if freq <= 0 {
		freq = DefaultFrequency
	}
	damping := opts.Damping
	if damping <= 0 {
		damping = DefaultDamping
	}
	d.spring = harmonica.NewSpring(harmonica.FPS(fps), freq, damping)

	d.snapDur = opts.SnapBack
	if d.snapDur < 0 {
		d.snapDur = 0
	}
	d.wiggleLeg = opts.WiggleLeg
	if d.wiggleLeg <= 0 {
		d.wiggleLeg = DefaultWiggleLeg
	}
	d.clock = opts.Clock
	if d.clock == nil {
		d.clock = time.Now
	}
}

// Relayout retargets every app to the rest position of its index. Apps that
// survive keep their in-flight motion, new apps appear at their target and
// removed apps are dropped. The active app jumps to its slot because the drag
// offset positions it.
func (d *Driver) Relayout(list []apps.App, layout tiling.Layout, active int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := make(map[string]*tracked, len(list))
	for idx, app := range list {
		target := layout.RestPosition(idx)
		t, ok := d.positions[app.ID]
		if !ok {
			t = &tracked{}
			t.jump(target)
		}
		if idx == active {
			t.jump(target)
		}
		t.target = target
		next[app.ID] = t
	}
	d.positions = next
}

// SetDragOffset moves the dragged icon immediately and cancels a running
// snap-back without calling its completion.
func (d *Driver) SetDragOffset(offset geom.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snap = nil
	d.offset = offset
}

// SnapBack animates the drag offset linearly to zero and calls done when it
// gets there. With a zero duration done runs before SnapBack returns.
func (d *Driver) SnapBack(done func()) {
	d.mu.Lock()
	if d.snapDur == 0 {
		d.snap = nil
		d.offset = geom.Point{}
		d.mu.Unlock()
		if done != nil {
			done()
		}
		return
	}
	d.snap = &snapBack{from: d.offset, start: d.clock(), dur: d.snapDur, done: done}
	d.mu.Unlock()
}

// SetPressed sets the target of the pressing value.
func (d *Driver) SetPressed(pressed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if pressed {
		d.pressTo = 1
	} else {
		d.pressTo = 0
	}
}

// Step advances the springs by one frame and the snap-back to now.
func (d *Driver) Step(now time.Time) {
	d.mu.Lock()
	for _, t := range d.positions {
		t.x.step(d.spring, t.target.X)
		t.y.step(d.spring, t.target.Y)
	}
	d.pressing.step(d.spring, d.pressTo)

	var done func()
	if s := d.snap; s != nil {
		progress := 1.0
		if s.dur > 0 {
			progress = clamp01(float64(now.Sub(s.start)) / float64(s.dur))
		}
		d.offset = geom.Point{
			X: Lerp(s.from.X, 0, progress),
			Y: Lerp(s.from.Y, 0, progress),
		}
		if progress >= 1 {
			d.offset = geom.Point{}
			d.snap = nil
			done = s.done
		}
	}
	d.mu.Unlock()

	if done != nil {
		done()
	}
}

// Animating reports whether another Step would change anything. The wiggle
// is not counted.
func (d *Driver) Animating() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.snap != nil || !d.pressing.settled(d.pressTo) {
		return true
	}
	for _, t := range d.positions {
		if !t.settled() {
			return true
		}
	}
	return false
}

// Frame returns the values to draw at now.
func (d *Driver) Frame(now time.Time) Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	positions := make(map[string]geom.Point, len(d.positions))
	for id, t := range d.positions {
		positions[id] = t.point()
	}
	return Frame{
		Positions: positions,
		Offset:    d.offset,
		Pressing:  d.pressing.pos,
		Wiggle:    Wiggle(now.Sub(d.epoch), d.wiggleLeg),
	}
}

// Position returns the animated position of id.
func (d *Driver) Position(id string) (geom.Point, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.positions[id]
	if !ok {
		return geom.Point{}, false
	}
	return t.point(), true
}
