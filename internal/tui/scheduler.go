package tui

import (
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termboard/internal/movemode"
)

// timerMsg fires the deferred callback registered under id.
type timerMsg struct {
	id uint64
}

// msgScheduler turns engine timers into bubbletea messages so that every
// callback runs on the Update goroutine. AfterFunc only records the callback
// and queues a tea.Tick; Update must drain the queue after each message.
type msgScheduler struct {
	mu      sync.Mutex
	now     func() time.Time
	next    uint64
	pending map[uint64]func()
	queued  []tea.Cmd
}

func newMsgScheduler(now func() time.Time) *msgScheduler {
	if now == nil {
		now = time.Now
	}
	return &msgScheduler{
		now:     now,
		pending: make(map[uint64]func()),
	}
}

func (s *msgScheduler) Now() time.Time {
	return s.now()
}

func (s *msgScheduler) AfterFunc(d time.Duration, f func()) movemode.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.pending[id] = f
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return &msgTimer{s: s, id: id}
}

// drain returns the tick commands queued since the last call.
func (s *msgScheduler) drain() []tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmds := s.queued
	s.queued = nil
	return cmds
}

// fire runs the callback for id unless it was stopped or already ran.
func (s *msgScheduler) fire(id uint64) bool {
	s.mu.Lock()
	f, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	f()
	return true
}

// pendingIDs lists armed timers in creation order.
func (s *msgScheduler) pendingIDs() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type msgTimer struct {
	s  *msgScheduler
	id uint64
}

// Stop disarms the timer. The tick message still arrives and is ignored.
func (t *msgTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}
