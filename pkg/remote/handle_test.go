package remote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeene/pihome/pkg/gpio"
)

func TestHandleReconfigureMovesPin(t *testing.T) {
	driver := gpio.NewMemory()
	h, err := newHandle(driver, gpio.Output, 5, "led")
	require.NoError(t, err)

	require.NoError(t, h.Reconfigure(6))
	require.Equal(t, 6, h.Pin())
	require.False(t, driver.Acquired(5), "old pin released")
	require.True(t, driver.Acquired(6))
}

func TestHandleReconfigureSamePinIsNoop(t *testing.T) {
	driver := gpio.NewMemory()
	h, err := newHandle(driver, gpio.Output, 5, "led")
	require.NoError(t, err)

	require.NoError(t, h.Reconfigure(5))
	require.True(t, driver.Acquired(5))
}

func TestHandleReconfigureFailureLeavesUnbound(t *testing.T) {
	driver := gpio.NewMemory()
	h, err := newHandle(driver, gpio.Output, 5, "led")
	require.NoError(t, err)

	driver.FailPin(6, gpio.ErrAcquire)
	err = h.Reconfigure(6)
	require.ErrorIs(t, err, gpio.ErrAcquire)

	// Not bound to the old pin either: release precedes acquire.
	require.False(t, h.bound())
	require.False(t, driver.Acquired(5))
	require.False(t, driver.Acquired(6))
}

func TestHandleConfigureInvalidPin(t *testing.T) {
	driver := gpio.NewMemory()
	_, err := newHandle(driver, gpio.Output, 2, "led")
	require.ErrorIs(t, err, gpio.ErrInvalidPin)
}

func TestHandleReconfigureAfterCloseFails(t *testing.T) {
	driver := gpio.NewMemory()
	h, err := newHandle(driver, gpio.Output, 5, "led")
	require.NoError(t, err)

	h.close()
	require.ErrorIs(t, h.Reconfigure(5), ErrClosed)
	require.ErrorIs(t, h.Reconfigure(6), ErrClosed)
	require.False(t, driver.Acquired(5))
	require.False(t, driver.Acquired(6))
}

func TestHandleReleaseIdempotent(t *testing.T) {
	driver := gpio.NewMemory()
	h, err := newHandle(driver, gpio.Output, 5, "led")
	require.NoError(t, err)

	h.Release()
	h.Release()
	require.False(t, driver.Acquired(5))
}
