package remote

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkeene/pihome/pkg/gpio"
)

func TestSimpleOutputFollowsKeepOn(t *testing.T) {
	driver := gpio.NewMemory()
	cfg := Config{Pin: 21, Name: "porch led", Kind: KindSimpleOutput, KeepOn: true}

	s, err := NewSimpleOutput(driver, cfg)
	require.NoError(t, err)
	defer s.Close()

	require.True(t, driver.Level(21), "initial level follows keep_on")

	cfg.KeepOn = false
	require.NoError(t, s.Input(cfg))
	require.False(t, driver.Level(21))

	// Idempotent re-assertion.
	require.NoError(t, s.Input(cfg))
	require.False(t, driver.Level(21))
}

func TestSimpleOutputOutputPersistsNothing(t *testing.T) {
	driver := gpio.NewMemory()
	s, err := NewSimpleOutput(driver, Config{Pin: 21, Name: "led", Kind: KindSimpleOutput})
	require.NoError(t, err)
	defer s.Close()

	store := newFakeStore()
	require.NoError(t, s.Output(context.Background(), store))
	_, ok := store.last(21)
	require.False(t, ok)
}

func TestSwitchOutputReportsOnOff(t *testing.T) {
	driver := gpio.NewMemory()
	sw, err := NewSwitch(driver, Config{Pin: 17, Name: "door", Kind: KindSwitch})
	require.NoError(t, err)
	defer sw.Close()

	store := newFakeStore()

	require.NoError(t, sw.Output(context.Background(), store))
	st, ok := store.last(17)
	require.True(t, ok)
	require.Equal(t, "OFF", *st.Data)

	driver.SetInput(17, true)
	require.NoError(t, sw.Output(context.Background(), store))
	st, _ = store.last(17)
	require.Equal(t, "ON", *st.Data)

	// Instantaneous, not sticky: dropping the contact reports OFF again.
	driver.SetInput(17, false)
	require.NoError(t, sw.Output(context.Background(), store))
	st, _ = store.last(17)
	require.Equal(t, "OFF", *st.Data)
}

func TestMotionOutputTimestampIsSticky(t *testing.T) {
	driver := gpio.NewMemory()
	m, err := NewMotion(driver, Config{Pin: 22, Name: "hall", Kind: KindMotion})
	require.NoError(t, err)
	defer m.Close()

	clk := newFakeClock()
	m.now = clk.Now
	store := newFakeStore()

	// Nothing seen yet: data stays unset.
	require.NoError(t, m.Output(context.Background(), store))
	st, ok := store.last(22)
	require.True(t, ok)
	require.Nil(t, st.Data)

	driver.SetInput(22, true)
	require.NoError(t, m.Output(context.Background(), store))
	st, _ = store.last(22)
	want := strconv.FormatInt(clk.Now().Unix(), 10)
	require.Equal(t, want, *st.Data)

	// Sensor quiet again: the last detection time is kept, not cleared.
	driver.SetInput(22, false)
	clk.Advance(10 * time.Minute)
	require.NoError(t, m.Output(context.Background(), store))
	st, _ = store.last(22)
	require.Equal(t, want, *st.Data)
}

func TestPollableInputDoesNotTouchData(t *testing.T) {
	driver := gpio.NewMemory()
	m, err := NewMotion(driver, Config{Pin: 22, Name: "hall", Kind: KindMotion})
	require.NoError(t, err)
	defer m.Close()

	driver.SetInput(22, true)
	require.NoError(t, m.Input(Config{Pin: 22, Name: "hall", Kind: KindMotion}))
	require.Nil(t, m.data, "only Output may write the cached value")
}
