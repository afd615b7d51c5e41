package gpio

import (
	"fmt"
	"sync"
)

// Memory is an in-process fake driver. It is used by tests and selected
// at composition time when the machine has no GPIO header, so nothing
// outside this package ever branches on a debug flag.
type Memory struct {
	mu      sync.Mutex
	lines   map[int]*memLine
	inputs  map[int]bool
	failing map[int]error
}

// NewMemory creates an empty fake driver. All inputs read inactive
// until SetInput is called.
func NewMemory() *Memory {
	return &Memory{
		lines:   make(map[int]*memLine),
		inputs:  make(map[int]bool),
		failing: make(map[int]error),
	}
}

func (d *Memory) Acquire(pin int, mode Mode) (Line, error) {
	if !validPin(pin) {
		return nil, fmt.Errorf("pin %d: %w", pin, ErrInvalidPin)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err, ok := d.failing[pin]; ok {
		return nil, fmt.Errorf("pin %d: %w", pin, err)
	}
	if _, bound := d.lines[pin]; bound {
		return nil, fmt.Errorf("pin %d already bound: %w", pin, ErrAcquire)
	}

	l := &memLine{driver: d, pin: pin, mode: mode}
	d.lines[pin] = l
	return l, nil
}

func (d *Memory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.lines {
		l.released = true
	}
	d.lines = make(map[int]*memLine)
	return nil
}

// SetInput sets the logical state an input line on pin will report.
func (d *Memory) SetInput(pin int, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputs[pin] = active
}

// FailPin makes every acquisition of pin fail with err until the pin
// is cleared by passing a nil error.
func (d *Memory) FailPin(pin int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.failing, pin)
		return
	}
	d.failing[pin] = err
}

// Acquired reports whether pin is currently bound.
func (d *Memory) Acquired(pin int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.lines[pin]
	return ok
}

// Level returns the last level driven on an output pin.
func (d *Memory) Level(pin int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.lines[pin]; ok {
		return l.level
	}
	return false
}

type memLine struct {
	driver   *Memory
	pin      int
	mode     Mode
	level    bool
	released bool
}

func (l *memLine) IsActive() bool {
	l.driver.mu.Lock()
	defer l.driver.mu.Unlock()
	if l.released {
		return false
	}
	if l.mode == Output {
		return l.level
	}
	return l.driver.inputs[l.pin]
}

func (l *memLine) SetLevel(active bool) {
	l.driver.mu.Lock()
	defer l.driver.mu.Unlock()
	if l.released || l.mode != Output {
		return
	}
	l.level = active
}

func (l *memLine) Release() {
	l.driver.mu.Lock()
	defer l.driver.mu.Unlock()
	if l.released {
		return
	}
	l.released = true
	delete(l.driver.lines, l.pin)
}
