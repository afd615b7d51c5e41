// Package remote maps logical home-automation devices onto GPIO pins
// and drives their control cycle.
package remote

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies a remote variant.
type Kind string

const (
	// KindSimpleOutput is an on/off output such as an LED.
	KindSimpleOutput Kind = "simple_output"
	// KindSwitch is a door/contact sensor.
	KindSwitch Kind = "switch"
	// KindMotion is a PIR motion sensor.
	KindMotion Kind = "motion"
	// KindAlarm is the composite alarm system.
	KindAlarm Kind = "alarm"
)

// Kinds lists every remote variant.
var Kinds = []Kind{KindSimpleOutput, KindSwitch, KindMotion, KindAlarm}

// Config is the validated configuration record for one remote. The
// alarm kind uses every field; the leaf kinds use pin, name and (for
// outputs) keep_on.
type Config struct {
	Pin         int    `json:"pin"`
	Name        string `json:"name"`
	Kind        Kind   `json:"kind"`
	KeepOn      bool   `json:"keep_on"`
	PinBuzzer   int    `json:"pin_buzzer,omitempty"`
	PinMotion   int    `json:"pin_motion,omitempty"`
	Emails      string `json:"emails,omitempty"`
	PhotoToggle bool   `json:"photo_toggle"`
}

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Recipients splits the comma-separated email list, stripping spaces
// and empty entries.
func (c Config) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(strings.ReplaceAll(c.Emails, " ", ""), ",") {
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Validate checks the fields the configuration layer must reject before
// any hardware is touched.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be blank", ErrValidation)
	}

	known := false
	for _, k := range Kinds {
		if c.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}

	for _, addr := range c.Recipients() {
		if !emailPattern.MatchString(addr) {
			return fmt.Errorf("%w: unable to validate email %q, maybe a typo?", ErrValidation, addr)
		}
	}
	return nil
}

// State carries the observed fields one control cycle produces. Nil
// fields are left untouched in the store.
type State struct {
	Data     *string
	DoorOpen *bool
	Motion   *string
	Photo    *string
}

// Store persists observed state for the record matching a pin.
type Store interface {
	UpdateState(ctx context.Context, pin int, st State) error
}

// Remote is one configured device. Input pushes desired configuration
// into the device and runs its control logic; Output pulls the observed
// state into the store. Both are synchronous.
type Remote interface {
	Pin() int
	Input(cfg Config) error
	Output(ctx context.Context, store Store) error
	Close()
}
