package gpio

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/stianeikeland/go-rpio/v4"
)

// RPi drives the Raspberry Pi GPIO header through /dev/gpiomem.
// The memory map is opened on first acquire and closed once the last
// line has been released.
type RPi struct {
	mu   sync.Mutex
	open bool
	refs map[int]*rpiLine
}

// NewRPi creates the hardware driver and verifies the GPIO memory map
// is accessible, so composition can fall back to Memory early.
func NewRPi() (*RPi, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio memory map: %w", err)
	}
	if err := rpio.Close(); err != nil {
		return nil, fmt.Errorf("close gpio memory map: %w", err)
	}
	return &RPi{refs: make(map[int]*rpiLine)}, nil
}

func (d *RPi) Acquire(pin int, mode Mode) (Line, error) {
	if !validPin(pin) {
		return nil, fmt.Errorf("pin %d: %w", pin, ErrInvalidPin)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, bound := d.refs[pin]; bound {
		return nil, fmt.Errorf("pin %d already bound: %w", pin, ErrAcquire)
	}
	if !d.open {
		if err := rpio.Open(); err != nil {
			return nil, fmt.Errorf("pin %d: %v: %w", pin, err, ErrAcquire)
		}
		d.open = true
	}

	p := rpio.Pin(pin)
	switch mode {
	case Output:
		p.Output()
	case InputPullUp:
		p.Input()
		p.PullUp()
	case InputPullDown:
		p.Input()
		p.PullDown()
	}

	l := &rpiLine{driver: d, pin: p, num: pin, mode: mode}
	d.refs[pin] = l

	log.Debug().Int("pin", pin).Msg("gpio line acquired")
	return l, nil
}

// Close releases every outstanding line and the memory map. Lines are
// marked released first so a holder cannot touch the map after it is
// gone.
func (d *RPi) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, l := range d.refs {
		if l.mode == Output {
			l.pin.Low()
		}
		l.released = true
	}
	d.refs = make(map[int]*rpiLine)
	if !d.open {
		return nil
	}
	d.open = false
	return rpio.Close()
}

func (d *RPi) release(num int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.refs, num)
	if len(d.refs) == 0 && d.open {
		if err := rpio.Close(); err != nil {
			log.Warn().Err(err).Msg("closing gpio memory map")
		}
		d.open = false
	}
}

type rpiLine struct {
	driver   *RPi
	pin      rpio.Pin
	num      int
	mode     Mode
	released bool
}

func (l *rpiLine) IsActive() bool {
	if l.released {
		return false
	}
	raw := l.pin.Read() == rpio.High
	// Pulled-up contacts close to ground, so the raw level is inverted.
	if l.mode == InputPullUp {
		return !raw
	}
	return raw
}

func (l *rpiLine) SetLevel(active bool) {
	if l.released || l.mode != Output {
		return
	}
	if active {
		l.pin.High()
	} else {
		l.pin.Low()
	}
}

func (l *rpiLine) Release() {
	if l.released {
		return
	}
	if l.mode == Output {
		l.pin.Low()
	}
	l.released = true
	l.driver.release(l.num)
}
