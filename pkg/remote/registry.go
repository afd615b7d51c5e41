package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeene/pihome/pkg/camera"
	"github.com/dkeene/pihome/pkg/gpio"
	"github.com/dkeene/pihome/pkg/notify"
)

// CycleStore is what one control cycle needs from persistence: the
// stored configuration records going in, observed state going out.
type CycleStore interface {
	Configs(ctx context.Context) ([]Config, error)
	Store
}

// Registry owns every live remote, keyed by primary pin, and drives
// the poll loop. All control cycles run on a single goroutine; the
// mutex only guards membership against concurrent API calls.
type Registry struct {
	driver   gpio.Driver
	notifier notify.Notifier
	camera   camera.Camera

	mu      sync.Mutex
	remotes map[int]Remote
}

// NewRegistry creates an empty registry over the given collaborators.
func NewRegistry(driver gpio.Driver, notifier notify.Notifier, cam camera.Camera) *Registry {
	return &Registry{
		driver:   driver,
		notifier: notifier,
		camera:   cam,
		remotes:  make(map[int]Remote),
	}
}

func (r *Registry) build(cfg Config) (Remote, error) {
	switch cfg.Kind {
	case KindSimpleOutput:
		return NewSimpleOutput(r.driver, cfg)
	case KindSwitch:
		return NewSwitch(r.driver, cfg)
	case KindMotion:
		return NewMotion(r.driver, cfg)
	case KindAlarm:
		return NewAlarm(r.driver, r.notifier, r.camera, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// Add validates cfg, acquires its hardware and registers the remote.
func (r *Registry) Add(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.remotes[cfg.Pin]; exists {
		return fmt.Errorf("pin %d: %w", cfg.Pin, ErrDuplicatePin)
	}

	rem, err := r.build(cfg)
	if err != nil {
		return err
	}
	r.remotes[cfg.Pin] = rem
	log.Info().Int("pin", cfg.Pin).Str("kind", string(cfg.Kind)).Msg("remote added")
	return nil
}

// Apply pushes a new configuration into the remote currently on pin,
// re-keying it if the primary pin moved.
func (r *Registry) Apply(pin int, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.remotes[pin]
	if !ok {
		return fmt.Errorf("pin %d: %w", pin, ErrNotFound)
	}
	if cfg.Pin != pin {
		if _, taken := r.remotes[cfg.Pin]; taken {
			return fmt.Errorf("pin %d: %w", cfg.Pin, ErrDuplicatePin)
		}
	}

	if err := rem.Input(cfg); err != nil {
		return err
	}
	if cfg.Pin != pin {
		delete(r.remotes, pin)
		r.remotes[cfg.Pin] = rem
	}
	return nil
}

// Remove releases the remote's hardware and forgets it.
func (r *Registry) Remove(pin int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.remotes[pin]
	if !ok {
		return fmt.Errorf("pin %d: %w", pin, ErrNotFound)
	}
	rem.Close()
	delete(r.remotes, pin)
	log.Info().Int("pin", pin).Msg("remote removed")
	return nil
}

// Get returns the remote on pin, if any.
func (r *Registry) Get(pin int) (Remote, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.remotes[pin]
	return rem, ok
}

// Len returns the number of live remotes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.remotes)
}

// Cycle reconciles the registry against the stored configuration and
// runs one synchronous input/output pass over every remote. A failing
// remote is logged and skipped so the others still cycle.
func (r *Registry) Cycle(ctx context.Context, store CycleStore) error {
	cfgs, err := store.Configs(ctx)
	if err != nil {
		return fmt.Errorf("load remote configs: %w", err)
	}

	r.mu.Lock()
	wanted := make(map[int]Config, len(cfgs))
	for _, cfg := range cfgs {
		wanted[cfg.Pin] = cfg
	}
	for pin, rem := range r.remotes {
		if _, keep := wanted[pin]; !keep {
			rem.Close()
			delete(r.remotes, pin)
			log.Info().Int("pin", pin).Msg("remote dropped from store, released")
		}
	}
	for pin, cfg := range wanted {
		if _, exists := r.remotes[pin]; exists {
			continue
		}
		rem, err := r.build(cfg)
		if err != nil {
			log.Error().Err(err).Int("pin", pin).Msg("building remote")
			continue
		}
		r.remotes[pin] = rem
	}

	// Cycle in stable pin order with the lock dropped, so handlers are
	// not blocked behind slow side effects.
	order := make([]int, 0, len(r.remotes))
	for pin := range r.remotes {
		order = append(order, pin)
	}
	sort.Ints(order)
	live := make([]Remote, 0, len(order))
	for _, pin := range order {
		live = append(live, r.remotes[pin])
	}
	r.mu.Unlock()

	for i, rem := range live {
		cfg, ok := wanted[order[i]]
		if !ok {
			continue
		}
		if err := rem.Input(cfg); err != nil {
			log.Error().Err(err).Int("pin", rem.Pin()).Msg("remote input")
			continue
		}
		if err := rem.Output(ctx, store); err != nil {
			log.Error().Err(err).Int("pin", rem.Pin()).Msg("remote output")
		}
	}
	return nil
}

// Run drives Cycle on the given cadence until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration, store CycleStore) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Cycle(ctx, store); err != nil {
				log.Error().Err(err).Msg("control cycle")
			}
		}
	}
}

// Close releases every remote.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pin, rem := range r.remotes {
		rem.Close()
		delete(r.remotes, pin)
	}
}
