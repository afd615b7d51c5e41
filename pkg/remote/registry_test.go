package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeene/pihome/pkg/gpio"
)

func newTestRegistry() (*Registry, *gpio.Memory) {
	driver := gpio.NewMemory()
	return NewRegistry(driver, &fakeNotifier{}, &fakeCamera{}), driver
}

func TestRegistryAddAndRemove(t *testing.T) {
	r, driver := newTestRegistry()
	defer r.Close()

	require.NoError(t, r.Add(Config{Pin: 21, Name: "led", Kind: KindSimpleOutput}))
	require.True(t, driver.Acquired(21))
	require.Equal(t, 1, r.Len())

	require.NoError(t, r.Remove(21))
	require.False(t, driver.Acquired(21))
	require.Equal(t, 0, r.Len())
}

func TestRegistryRejectsDuplicatePin(t *testing.T) {
	r, _ := newTestRegistry()
	defer r.Close()

	require.NoError(t, r.Add(Config{Pin: 21, Name: "led", Kind: KindSimpleOutput}))
	err := r.Add(Config{Pin: 21, Name: "other", Kind: KindSwitch})
	require.ErrorIs(t, err, ErrDuplicatePin)
}

func TestRegistryRejectsInvalidConfig(t *testing.T) {
	r, _ := newTestRegistry()
	defer r.Close()

	err := r.Add(Config{Pin: 21, Name: " ", Kind: KindSwitch})
	require.ErrorIs(t, err, ErrValidation)

	err = r.Add(Config{Pin: 21, Name: "x", Kind: Kind("dimmer")})
	require.ErrorIs(t, err, ErrUnknownKind)

	err = r.Add(Config{Pin: 17, Name: "alarm", Kind: KindAlarm, PinBuzzer: 18, PinMotion: 22, Emails: "nope"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestRegistryApplyRekeysOnPinMove(t *testing.T) {
	r, driver := newTestRegistry()
	defer r.Close()

	require.NoError(t, r.Add(Config{Pin: 21, Name: "led", Kind: KindSimpleOutput}))
	require.NoError(t, r.Apply(21, Config{Pin: 23, Name: "led", Kind: KindSimpleOutput}))

	require.False(t, driver.Acquired(21))
	require.True(t, driver.Acquired(23))
	_, ok := r.Get(23)
	require.True(t, ok)
	_, ok = r.Get(21)
	require.False(t, ok)
}

func TestRegistryApplyUnknownPin(t *testing.T) {
	r, _ := newTestRegistry()
	defer r.Close()

	err := r.Apply(9, Config{Pin: 9, Name: "x", Kind: KindSwitch})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryCycleReconciles(t *testing.T) {
	r, driver := newTestRegistry()
	defer r.Close()

	store := newFakeStore()
	store.configs = []Config{
		{Pin: 17, Name: "door", Kind: KindSwitch},
		{Pin: 21, Name: "led", Kind: KindSimpleOutput, KeepOn: true},
	}

	require.NoError(t, r.Cycle(context.Background(), store))
	require.Equal(t, 2, r.Len())
	require.True(t, driver.Level(21), "output asserted during cycle")

	st, ok := store.last(17)
	require.True(t, ok)
	require.Equal(t, "OFF", *st.Data)

	// Config removed from the store: the remote is released next cycle.
	store.configs = store.configs[1:]
	require.NoError(t, r.Cycle(context.Background(), store))
	require.Equal(t, 1, r.Len())
	require.False(t, driver.Acquired(17))
}

func TestRegistryRemoveWinsOverStaleReference(t *testing.T) {
	r, driver := newTestRegistry()
	defer r.Close()

	cfg := Config{Pin: 5, Name: "led", Kind: KindSimpleOutput}
	require.NoError(t, r.Add(cfg))

	// A cycle can hold a reference to a remote while an API delete runs.
	rem, ok := r.Get(5)
	require.True(t, ok)

	require.NoError(t, r.Remove(5))
	require.False(t, driver.Acquired(5))

	// The stale reference must not re-bind the pin: that binding would
	// have no owner left to release it.
	require.ErrorIs(t, rem.Input(cfg), ErrClosed)
	require.False(t, driver.Acquired(5))

	require.NoError(t, r.Add(cfg), "pin stays available for a new remote")
}

func TestRegistryCycleSkipsFailingRemote(t *testing.T) {
	r, driver := newTestRegistry()
	defer r.Close()

	store := newFakeStore()
	store.configs = []Config{
		{Pin: 17, Name: "door", Kind: KindSwitch},
		{Pin: 21, Name: "led", Kind: KindSimpleOutput},
	}
	require.NoError(t, r.Cycle(context.Background(), store))

	// Move the switch onto an unacquirable pin: its cycle fails, the
	// led still cycles.
	driver.FailPin(9, gpio.ErrAcquire)
	store.configs[0].Pin = 9
	require.NoError(t, r.Cycle(context.Background(), store))
	require.True(t, driver.Acquired(21))
}
