// Package gpio abstracts the GPIO header so the rest of the system can be
// composed against real hardware or an in-process fake.
package gpio

import "errors"

// Valid BCM pin range for user devices on the Pi header.
const (
	MinPin = 4
	MaxPin = 26
)

// Mode describes how a line is driven or biased.
type Mode int

const (
	// Output drives the pin high or low.
	Output Mode = iota
	// InputPullUp reads an active-low contact (door switch wiring).
	InputPullUp
	// InputPullDown reads an active-high sensor (motion sensor wiring).
	InputPullDown
)

var (
	// ErrInvalidPin indicates a pin outside [MinPin, MaxPin] or one the
	// platform refuses to hand out.
	ErrInvalidPin = errors.New("gpio pin out of valid range")

	// ErrAcquire indicates the line could not be acquired for any other
	// reason, e.g. it is already bound.
	ErrAcquire = errors.New("gpio line acquisition failed")
)

// Line is a single acquired pin.
type Line interface {
	// IsActive returns the instantaneous logical state of the line.
	IsActive() bool

	// SetLevel drives an output line. No-op on inputs.
	SetLevel(active bool)

	// Release frees the line. Safe to call more than once.
	Release()
}

// Driver hands out lines. Implementations: RPi (real hardware) and
// Memory (fake, for tests and machines without a GPIO header).
type Driver interface {
	Acquire(pin int, mode Mode) (Line, error)
	Close() error
}

func validPin(pin int) bool {
	return pin >= MinPin && pin <= MaxPin
}
