package remote

import (
	"context"
	"sync"
	"time"
)

// fakeClock is an adjustable time source for cooldown tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeStore records every state update keyed by pin and serves configs
// to registry cycles.
type fakeStore struct {
	mu      sync.Mutex
	updates map[int][]State
	configs []Config
}

func newFakeStore() *fakeStore {
	return &fakeStore{updates: make(map[int][]State)}
}

func (s *fakeStore) UpdateState(ctx context.Context, pin int, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[pin] = append(s.updates[pin], st)
	return nil
}

func (s *fakeStore) Configs(ctx context.Context) ([]Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Config(nil), s.configs...), nil
}

func (s *fakeStore) last(pin int) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	us := s.updates[pin]
	if len(us) == 0 {
		return State{}, false
	}
	return us[len(us)-1], true
}

// fakeNotifier records sends.
type fakeNotifier struct {
	sends [][]string
	err   error
}

func (n *fakeNotifier) Send(recipients []string) error {
	if n.err != nil {
		return n.err
	}
	n.sends = append(n.sends, append([]string(nil), recipients...))
	return nil
}

// fakeCamera counts captures.
type fakeCamera struct {
	captures int
	latest   *string
	err      error
}

func (c *fakeCamera) Capture() error {
	if c.err != nil {
		return c.err
	}
	c.captures++
	return nil
}

func (c *fakeCamera) Latest() *string { return c.latest }
