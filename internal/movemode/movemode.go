// Package movemode turns pointer gestures into edit-mode changes and live
// reorders of the launcher's app sequence.
package movemode

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/termboard/internal/apps"
	"github.com/1broseidon/termboard/internal/config"
	"github.com/1broseidon/termboard/internal/geom"
	"github.com/1broseidon/termboard/internal/logging"
	"github.com/1broseidon/termboard/internal/sequence"
	"github.com/1broseidon/termboard/internal/tiling"
)

// DefaultLongPress is how long a press must be held to enter edit mode.
const DefaultLongPress = 300 * time.Millisecond

// Host owns the app order and the edit-mode flag.
type Host interface {
	Apps() []apps.App
	IsEditing() bool
	StartEditing()
	StopEditing()
	RearrangeApps(next []apps.App)
}

// Animator receives the visual side of a gesture.
type Animator interface {
	// SetDragOffset moves the dragged icon immediately.
	SetDragOffset(offset geom.Point)
	// SnapBack animates the drag offset to zero and calls done when finished.
	SnapBack(done func())
	// SetPressed toggles the press feedback of the active icon.
	SetPressed(pressed bool)
}

// EventKind names a gesture event.
type EventKind int

const (
	EventGrant EventKind = iota
	EventMove
	EventRelease
	EventTerminate
)

func (k EventKind) String() string {
	switch k {
	case EventGrant:
		return "grant"
	case EventMove:
		return "move"
	case EventRelease:
		return "release"
	case EventTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// ParseEventKind maps a lowercase event name to its kind.
func ParseEventKind(s string) (EventKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grant", "down", "press":
		return EventGrant, true
	case "move":
		return EventMove, true
	case "release", "up":
		return EventRelease, true
	case "terminate", "cancel":
		return EventTerminate, true
	default:
		return 0, false
	}
}

// GestureEvent is one pointer event. Position is used by grants and is in
// raw surface coordinates; Delta is used by moves and is measured from the
// grant position.
type GestureEvent struct {
	Kind     EventKind
	Position geom.Point
	Delta    geom.Point
}

// Options configures an Engine.
type Options struct {
	Grid          tiling.Grid
	PointerOffset geom.Point
	LongPress     time.Duration
	Scheduler     Scheduler
	Animator      Animator
}

// OptionsFromProfile fills grid, pointer offset and long-press delay from
// config.
func OptionsFromProfile(p *config.Profile, timing config.Timing) Options {
	return Options{
		Grid:          tiling.GridFromProfile(p),
		PointerOffset: geom.Point{X: p.PointerOffset.X, Y: p.PointerOffset.Y},
		LongPress:     timing.LongPress.Duration,
	}
}

// Engine is the drag-and-reorder state machine. All methods are safe for
// concurrent use; host and animator callbacks run after the engine's lock is
// released.
type Engine struct {
	mu            sync.Mutex
	host          Host
	anim          Animator
	sched         Scheduler
	grid          tiling.Grid
	pointerOffset geom.Point
	longPress     time.Duration
	width         float64
	height        float64

	phase    Phase
	drag     DragState
	pending  Timer
	gen      uint64
	selected int
	closed   bool

	log *logrus.Entry
}

// effects are callbacks collected under the lock and run after it.
type effects []func()

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}

type noopAnimator struct{}

func (noopAnimator) SetDragOffset(geom.Point) {}
func (noopAnimator) SnapBack(done func()) {
	if done != nil {
		done()
	}
}
func (noopAnimator) SetPressed(bool) {}

// NewEngine creates an idle engine driving host.
func NewEngine(host Host, opts Options) *Engine {
	e := &Engine{
		host:          host,
		anim:          opts.Animator,
		sched:         opts.Scheduler,
		grid:          opts.Grid,
		pointerOffset: opts.PointerOffset,
		longPress:     opts.LongPress,
		phase:         PhaseIdle,
		drag:          NewDragState(),
		log:           logging.NewLogger("engine"),
	}
	if e.anim == nil {
		e.anim = noopAnimator{}
	}
	if e.sched == nil {
		e.sched = RealScheduler{}
	}
	if e.longPress <= 0 {
		e.longPress = DefaultLongPress
	}
	return e
}

// SetContainerSize records the size of the grid surface.
func (e *Engine) SetContainerSize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width = width
	e.height = height
}

// UpdateConfig swaps geometry and timing, e.g. after a config reload. A
// gesture in progress keeps going against the new geometry.
func (e *Engine) UpdateConfig(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.grid = opts.Grid
	e.pointerOffset = opts.PointerOffset
	if opts.LongPress > 0 {
		e.longPress = opts.LongPress
	}
}

// Layout returns the layout for the current container size.
func (e *Engine) Layout() tiling.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layoutLocked()
}

func (e *Engine) layoutLocked() tiling.Layout {
	return tiling.NewLayout(e.grid, e.width, e.height)
}

// Phase returns the current gesture phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Drag returns a copy of the drag state.
func (e *Engine) Drag() DragState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag
}

// Active returns the index of the grabbed app, or NoIndex.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drag.Active
}

// Selected returns the keyboard selection.
func (e *Engine) Selected() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Handle dispatches ev to the matching transition.
func (e *Engine) Handle(ev GestureEvent) {
	switch ev.Kind {
	case EventGrant:
		e.Grant(ev.Position)
	case EventMove:
		e.Move(ev.Delta)
	case EventRelease:
		e.Release()
	case EventTerminate:
		e.Terminate()
	default:
		e.log.WithField("kind", int(ev.Kind)).Debug("ignoring unknown gesture event")
	}
}

// Grant starts a gesture at pos.
func (e *Engine) Grant(pos geom.Point) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	e.cancelPendingLocked()
	// A newer gesture supersedes any snap-back still running.
	e.gen++
	wasActive := e.drag.HasActive()
	e.drag = NewDragState()
	e.drag.GrantedAt = e.sched.Now()
	e.phase = PhaseIdle

	fx := effects{func() { e.anim.SetDragOffset(geom.Point{}) }}

	adjusted := pos.Sub(e.pointerOffset)
	list := e.host.Apps()
	icons := e.layoutLocked().IconPositions(len(list))
	idx := iconAt(icons, adjusted)
	editing := e.host.IsEditing()

	entry := e.log.WithFields(logrus.Fields{
		"x":       adjusted.X,
		"y":       adjusted.Y,
		"icon":    idx,
		"editing": editing,
	})

	switch {
	case idx != NoIndex && !editing:
		e.phase = PhasePendingEdit
		gen := e.gen
		e.pending = e.sched.AfterFunc(e.longPress, func() {
			e.longPressFired(gen, idx)
		})
		if wasActive {
			fx = append(fx, func() { e.anim.SetPressed(false) })
		}
		entry.Debug("grant: long-press armed")
	case idx != NoIndex:
		e.drag.Active = idx
		e.phase = PhaseDragging
		e.selected = idx
		fx = append(fx, func() { e.anim.SetPressed(true) })
		entry.Debug("grant: icon active")
	case editing:
		fx = append(fx, e.host.StopEditing, func() { e.anim.SetPressed(false) })
		entry.Debug("grant: outside icons, leaving edit mode")
	default:
		if wasActive {
			fx = append(fx, func() { e.anim.SetPressed(false) })
		}
		entry.Debug("grant: ignored")
	}
	e.mu.Unlock()

	fx.run()
}

func (e *Engine) longPressFired(gen uint64, idx int) {
	e.mu.Lock()
	if e.closed || gen != e.gen || e.phase != PhasePendingEdit {
		e.mu.Unlock()
		return
	}
	e.pending = nil

	if idx >= len(e.host.Apps()) {
		e.phase = PhaseIdle
		e.mu.Unlock()
		e.log.WithField("icon", idx).Debug("long-press: icon no longer exists")
		return
	}

	e.drag.Active = idx
	e.phase = PhaseDragging
	e.selected = idx
	e.mu.Unlock()

	e.log.WithField("icon", idx).Info("long-press: entering edit mode")
	e.host.StartEditing()
	e.anim.SetPressed(true)
}

// Move applies a pointer delta measured from the grant position.
func (e *Engine) Move(delta geom.Point) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	if e.cancelPendingLocked() {
		e.log.Debug("move: long-press cancelled")
	}
	if e.phase == PhasePendingEdit {
		e.phase = PhaseIdle
	}
	if e.phase != PhaseDragging || !e.drag.HasActive() {
		e.mu.Unlock()
		return
	}

	list := e.host.Apps()
	if e.drag.Active >= len(list) {
		e.log.WithFields(logrus.Fields{
			"active": e.drag.Active,
			"apps":   len(list),
		}).Debug("move: active index out of range, ignoring")
		e.mu.Unlock()
		return
	}

	layout := e.layoutLocked()
	icons := layout.IconPositions(len(list))
	slots := layout.GridPositions()

	next, move, moved := e.drag.Step(delta, icons, slots)
	e.drag = next
	offset := next.Offset

	var fx effects
	if moved {
		e.selected = move.To
		reordered := sequence.MoveToIndex(list, move.From, move.To)
		e.log.WithFields(logrus.Fields{
			"from":  move.From,
			"to":    move.To,
			"order": strings.Join(apps.IDs(reordered), ","),
		}).Debug("move: reorder")
		fx = append(fx, func() { e.host.RearrangeApps(reordered) })
	}
	fx = append(fx, func() { e.anim.SetDragOffset(offset) })
	e.mu.Unlock()

	fx.run()
}

// Release ends the gesture. The drag offset snaps back and the active index
// is cleared once the animation completes. Edit mode stays on.
func (e *Engine) Release() {
	e.release("release")
}

// Terminate cancels the gesture, e.g. when the surface loses the pointer.
// It never reorders.
func (e *Engine) Terminate() {
	e.release("terminate")
}

func (e *Engine) release(reason string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	e.drag.GrantedAt = time.Time{}
	e.cancelPendingLocked()
	e.drag.Correction = geom.Point{}

	if e.phase != PhaseDragging || !e.drag.HasActive() {
		if e.phase == PhasePendingEdit {
			e.phase = PhaseIdle
		}
		e.mu.Unlock()
		e.log.WithField("reason", reason).Debug("release: nothing active")
		return
	}

	e.phase = PhaseReleasing
	gen := e.gen
	active := e.drag.Active
	e.mu.Unlock()

	entry := e.log.WithFields(logrus.Fields{"reason": reason, "icon": active})
	if reason == "terminate" {
		entry.Info("gesture cancelled")
	} else {
		entry.Debug("release: snapping back")
	}
	e.anim.SnapBack(func() { e.finishRelease(gen) })
}

func (e *Engine) finishRelease(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.phase != PhaseReleasing {
		e.mu.Unlock()
		return
	}
	e.drag = NewDragState()
	e.phase = PhaseIdle
	e.mu.Unlock()

	e.anim.SetPressed(false)
}

// EditingStopped tells the engine that edit mode was switched off from
// outside, e.g. by a Done button. Any drag is dropped in place.
func (e *Engine) EditingStopped() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cancelPendingLocked()
	e.gen++
	hadActive := e.drag.HasActive()
	e.drag = NewDragState()
	e.phase = PhaseIdle
	e.mu.Unlock()

	if hadActive {
		e.anim.SetDragOffset(geom.Point{})
		e.anim.SetPressed(false)
	}
}

// Nudge moves the active app, or the keyboard selection when nothing is
// grabbed, one slot in dir. Only works in edit mode. It reports whether the
// order changed.
func (e *Engine) Nudge(dir Direction) bool {
	e.mu.Lock()
	if e.closed || !e.host.IsEditing() || e.phase == PhasePendingEdit || e.phase == PhaseReleasing {
		e.mu.Unlock()
		return false
	}

	list := e.host.Apps()
	from := e.selected
	if e.drag.HasActive() {
		from = e.drag.Active
	}
	if from < 0 || from >= len(list) {
		e.mu.Unlock()
		return false
	}

	layout := e.layoutLocked()
	to := NavigateIndex(from, dir, len(list), e.grid.Rows, layout.Sizes().PerLine)
	if to == from {
		e.mu.Unlock()
		return false
	}

	dragging := e.drag.HasActive()
	if dragging {
		e.drag = e.drag.Retarget(to, layout.IconPositions(len(list)))
	}
	offset := e.drag.Offset
	e.selected = to
	reordered := sequence.MoveToIndex(list, from, to)
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{"from": from, "to": to}).Debug("nudge: reorder")
	e.host.RearrangeApps(reordered)
	if dragging {
		e.anim.SetDragOffset(offset)
	}
	return true
}

// Select moves the keyboard selection one slot in dir without reordering.
func (e *Engine) Select(dir Direction) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := len(e.host.Apps())
	e.selected = NavigateIndex(e.selected, dir, count, e.grid.Rows, e.layoutLocked().Sizes().PerLine)
	return e.selected
}

// SelectIndex sets the keyboard selection, clamped to the app list.
func (e *Engine) SelectIndex(idx int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := len(e.host.Apps())
	switch {
	case count == 0 || idx < 0:
		idx = 0
	case idx >= count:
		idx = count - 1
	}
	e.selected = idx
	return e.selected
}

// Close cancels any pending timer. Later events are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPendingLocked()
	e.gen++
	e.closed = true
}

// cancelPendingLocked stops the long-press timer. It reports whether a timer
// was armed.
func (e *Engine) cancelPendingLocked() bool {
	if e.pending == nil {
		return false
	}
	e.pending.Stop()
	e.pending = nil
	return true
}
