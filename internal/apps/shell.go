package apps

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/termboard/internal/logging"
)

// EventKind names a shell notification.
type EventKind int

const (
	EventStartEditing EventKind = iota
	EventStopEditing
	EventRearranged
	EventReplaced
)

func (k EventKind) String() string {
	switch k {
	case EventStartEditing:
		return "start_editing"
	case EventStopEditing:
		return "stop_editing"
	case EventRearranged:
		return "rearranged"
	case EventReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Event is delivered to shell listeners after the state changed.
type Event struct {
	Kind EventKind
	Apps []App
}

// Listener observes shell changes.
type Listener func(Event)

// Shell owns the app order and the edit-mode flag. The gesture engine only
// ever reaches it through StartEditing, StopEditing and RearrangeApps.
type Shell struct {
	mu        sync.Mutex
	apps      []App
	editing   bool
	listeners []Listener
	log       *logrus.Entry
}

// NewShell creates a shell holding a copy of list.
func NewShell(list []App) *Shell {
	return &Shell{
		apps: append([]App(nil), list...),
		log:  logging.NewLogger("shell"),
	}
}

// Subscribe registers l for every later change.
func (s *Shell) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Apps returns a copy of the current order.
func (s *Shell) Apps() []App {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]App(nil), s.apps...)
}

// IsEditing reports whether edit mode is on.
func (s *Shell) IsEditing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// StartEditing turns edit mode on.
func (s *Shell) StartEditing() {
	s.setEditing(true)
}

// StopEditing turns edit mode off.
func (s *Shell) StopEditing() {
	s.setEditing(false)
}

func (s *Shell) setEditing(on bool) {
	s.mu.Lock()
	changed := s.editing != on
	s.editing = on
	list := append([]App(nil), s.apps...)
	s.mu.Unlock()

	if !changed {
		return
	}
	kind := EventStopEditing
	if on {
		kind = EventStartEditing
	}
	s.log.WithField("editing", on).Info("edit mode changed")
	s.notify(Event{Kind: kind, Apps: list})
}

// RearrangeApps replaces the order. A list that is not a permutation of the
// current apps is rejected and logged.
func (s *Shell) RearrangeApps(next []App) {
	s.mu.Lock()
	if !SameMembers(s.apps, next) {
		s.mu.Unlock()
		s.log.WithField("ids", strings.Join(IDs(next), ",")).Warn("rejected rearrange that changes membership")
		return
	}
	s.apps = append([]App(nil), next...)
	list := append([]App(nil), s.apps...)
	s.mu.Unlock()

	s.log.WithField("order", strings.Join(IDs(list), ",")).Info("apps rearranged")
	s.notify(Event{Kind: EventRearranged, Apps: list})
}

// Replace swaps in a new app set, keeping the current relative order of apps
// that survive and appending new ones in the given order. Used on config
// reload.
func (s *Shell) Replace(list []App) {
	incoming := make(map[string]App, len(list))
	for _, a := range list {
		incoming[a.ID] = a
	}

	s.mu.Lock()
	next := make([]App, 0, len(list))
	kept := make(map[string]struct{}, len(s.apps))
	for _, cur := range s.apps {
		if a, ok := incoming[cur.ID]; ok {
			next = append(next, a)
			kept[cur.ID] = struct{}{}
		}
	}
	for _, a := range list {
		if _, ok := kept[a.ID]; !ok {
			next = append(next, a)
		}
	}
	s.apps = next
	out := append([]App(nil), next...)
	s.mu.Unlock()

	s.log.WithField("count", len(out)).Info("apps replaced")
	s.notify(Event{Kind: EventReplaced, Apps: out})
}

func (s *Shell) notify(ev Event) {
	s.mu.Lock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}
