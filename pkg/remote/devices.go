package remote

import (
	"context"
	"strconv"
	"time"

	"github.com/dkeene/pihome/pkg/gpio"
)

// SimpleOutput is an on/off device such as an LED or buzzer.
type SimpleOutput struct {
	*Handle
}

// NewSimpleOutput binds an output device and asserts its initial level.
func NewSimpleOutput(driver gpio.Driver, cfg Config) (*SimpleOutput, error) {
	h, err := newHandle(driver, gpio.Output, cfg.Pin, cfg.Name)
	if err != nil {
		return nil, err
	}
	s := &SimpleOutput{Handle: h}
	s.setLevel(cfg.KeepOn)
	return s, nil
}

func (s *SimpleOutput) Input(cfg Config) error {
	if err := s.Reconfigure(cfg.Pin); err != nil {
		return err
	}
	s.setLevel(cfg.KeepOn)
	return nil
}

// Output has nothing to report for a bare output device.
func (s *SimpleOutput) Output(ctx context.Context, store Store) error { return nil }

func (s *SimpleOutput) Close() { s.close() }

// On and Off are idempotent.
func (s *SimpleOutput) On()  { s.setLevel(true) }
func (s *SimpleOutput) Off() { s.setLevel(false) }

// pollable is an input device that caches its last observed value for
// reporting. The cache is only written by Output, never by Input.
type pollable struct {
	*Handle
	data *string
	now  func() time.Time
}

func newPollable(driver gpio.Driver, mode gpio.Mode, cfg Config) (pollable, error) {
	h, err := newHandle(driver, mode, cfg.Pin, cfg.Name)
	if err != nil {
		return pollable{}, err
	}
	return pollable{Handle: h, now: time.Now}, nil
}

// IsActive returns the instantaneous sensed state.
func (p *pollable) IsActive() bool { return p.active() }

func (p *pollable) Input(cfg Config) error {
	return p.Reconfigure(cfg.Pin)
}

func (p *pollable) Close() { p.close() }

// Switch is a door/contact sensor wired active-low through a pull-up.
type Switch struct {
	pollable
}

func NewSwitch(driver gpio.Driver, cfg Config) (*Switch, error) {
	p, err := newPollable(driver, gpio.InputPullUp, cfg)
	if err != nil {
		return nil, err
	}
	return &Switch{pollable: p}, nil
}

// Output snapshots the instantaneous contact state as "ON" or "OFF"
// and persists it.
func (s *Switch) Output(ctx context.Context, store Store) error {
	v := "OFF"
	if s.IsActive() {
		v = "ON"
	}
	s.data = &v
	return store.UpdateState(ctx, s.pin, State{Data: s.data})
}

// Motion is a PIR motion sensor.
type Motion struct {
	pollable
}

func NewMotion(driver gpio.Driver, cfg Config) (*Motion, error) {
	p, err := newPollable(driver, gpio.InputPullDown, cfg)
	if err != nil {
		return nil, err
	}
	return &Motion{pollable: p}, nil
}

// Output records the time motion was last seen. The value is sticky:
// an inactive sensor leaves the previous timestamp in place, so the
// store always holds the most recent detection rather than the
// instantaneous state.
func (m *Motion) Output(ctx context.Context, store Store) error {
	if m.IsActive() {
		v := strconv.FormatInt(m.now().Unix(), 10)
		m.data = &v
	}
	return store.UpdateState(ctx, m.pin, State{Data: m.data})
}
