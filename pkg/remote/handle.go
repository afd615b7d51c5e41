package remote

import (
	"fmt"

	"github.com/dkeene/pihome/pkg/gpio"
)

// Handle owns one physical pin binding. Device variants embed it for
// the configure / reconfigure / release lifecycle.
type Handle struct {
	driver gpio.Driver
	mode   gpio.Mode
	pin    int
	name   string
	line   gpio.Line
	closed bool
}

func newHandle(driver gpio.Driver, mode gpio.Mode, pin int, name string) (*Handle, error) {
	line, err := driver.Acquire(pin, mode)
	if err != nil {
		return nil, fmt.Errorf("configure %q: %w", name, err)
	}
	return &Handle{driver: driver, mode: mode, pin: pin, name: name, line: line}, nil
}

// Pin returns the currently configured pin number.
func (h *Handle) Pin() int { return h.pin }

// Name returns the device label.
func (h *Handle) Name() string { return h.name }

// Reconfigure moves the binding to newPin. The old line is always
// released first; if the new pin cannot be acquired the handle is left
// unbound and the error is returned. A closed handle stays closed: a
// stale reference held across a concurrent remove must not re-acquire
// the pin.
func (h *Handle) Reconfigure(newPin int) error {
	if h.closed {
		return fmt.Errorf("reconfigure %q: %w", h.name, ErrClosed)
	}
	if newPin == h.pin && h.line != nil {
		return nil
	}

	h.Release()
	h.pin = newPin

	line, err := h.driver.Acquire(newPin, h.mode)
	if err != nil {
		return fmt.Errorf("reconfigure %q: %w", h.name, err)
	}
	h.line = line
	return nil
}

// Release frees the pin. Safe to call repeatedly. The handle can be
// rebound afterwards with Reconfigure.
func (h *Handle) Release() {
	if h.line == nil {
		return
	}
	h.line.Release()
	h.line = nil
}

// close releases the pin and marks the handle terminally closed.
func (h *Handle) close() {
	h.Release()
	h.closed = true
}

// bound reports whether the handle currently owns a line.
func (h *Handle) bound() bool { return h.line != nil }

func (h *Handle) active() bool {
	if h.line == nil {
		return false
	}
	return h.line.IsActive()
}

func (h *Handle) setLevel(on bool) {
	if h.line == nil {
		return
	}
	h.line.SetLevel(on)
}
