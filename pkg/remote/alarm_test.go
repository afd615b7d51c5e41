package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkeene/pihome/pkg/gpio"
)

func alarmCfg() Config {
	return Config{
		Pin:       17,
		Name:      "front door",
		Kind:      KindAlarm,
		PinBuzzer: 18,
		PinMotion: 22,
		Emails:    "home@example.com",
	}
}

func newTestAlarm(t *testing.T) (*Alarm, *gpio.Memory, *fakeNotifier, *fakeCamera, *fakeClock) {
	t.Helper()

	driver := gpio.NewMemory()
	notifier := &fakeNotifier{}
	cam := &fakeCamera{}

	a, err := NewAlarm(driver, notifier, cam, alarmCfg())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	clk := newFakeClock()
	a.now = clk.Now
	return a, driver, notifier, cam, clk
}

func TestAlarmAlertWhenArmedAndDoorOpen(t *testing.T) {
	a, driver, notifier, cam, _ := newTestAlarm(t)

	// Door open: the contact is inactive. Armed via keep_on.
	cfg := alarmCfg()
	cfg.KeepOn = true
	require.NoError(t, a.Input(cfg))

	require.True(t, a.doorOpen)
	require.True(t, driver.Level(18), "buzzer should be on in alert mode")
	require.Len(t, notifier.sends, 1, "email sent once on first alert")
	require.Equal(t, []string{"home@example.com"}, notifier.sends[0])
	require.False(t, a.lastEmailSent.IsZero())
	require.Equal(t, 1, cam.captures)
}

func TestAlarmPassiveWhenDoorClosed(t *testing.T) {
	a, driver, notifier, cam, _ := newTestAlarm(t)

	driver.SetInput(17, true) // contact closed
	cfg := alarmCfg()
	cfg.KeepOn = true
	require.NoError(t, a.Input(cfg))

	require.False(t, a.doorOpen)
	require.False(t, driver.Level(18), "buzzer should be off in passive mode")
	require.Empty(t, notifier.sends)
	require.Zero(t, cam.captures)
	require.True(t, a.lastEmailSent.IsZero())
}

func TestAlarmPassiveWhenDisarmed(t *testing.T) {
	a, driver, notifier, _, _ := newTestAlarm(t)

	// Door open but not armed.
	require.NoError(t, a.Input(alarmCfg()))

	require.True(t, a.doorOpen)
	require.False(t, driver.Level(18))
	require.Empty(t, notifier.sends)
}

func TestAlarmEmailCooldown(t *testing.T) {
	a, _, notifier, _, clk := newTestAlarm(t)

	cfg := alarmCfg()
	cfg.KeepOn = true
	require.NoError(t, a.Input(cfg))
	require.Len(t, notifier.sends, 1)

	clk.Advance(3599 * time.Second)
	require.NoError(t, a.Input(cfg))
	require.Len(t, notifier.sends, 1, "no second email before the cooldown elapses")

	clk.Advance(2 * time.Second) // 3601s since the first send
	require.NoError(t, a.Input(cfg))
	require.Len(t, notifier.sends, 2)
	require.Equal(t, clk.Now(), a.lastEmailSent)
}

func TestAlarmEmailCooldownResetsInPassiveMode(t *testing.T) {
	a, driver, notifier, _, clk := newTestAlarm(t)

	cfg := alarmCfg()
	cfg.KeepOn = true
	require.NoError(t, a.Input(cfg))
	require.Len(t, notifier.sends, 1)

	// Disarm and re-arm within the hour: a fresh email goes out.
	clk.Advance(time.Minute)
	driver.SetInput(17, true)
	require.NoError(t, a.Input(cfg))
	require.True(t, a.lastEmailSent.IsZero(), "passive mode clears the email throttle")

	driver.SetInput(17, false)
	require.NoError(t, a.Input(cfg))
	require.Len(t, notifier.sends, 2)
}

func TestAlarmPhotoCooldown(t *testing.T) {
	a, _, _, cam, clk := newTestAlarm(t)

	cfg := alarmCfg()
	cfg.KeepOn = true
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures)

	clk.Advance(2 * time.Second)
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures, "no capture inside the cooldown")

	clk.Advance(2 * time.Second) // 4s since the first capture
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 2, cam.captures)
}

func TestAlarmPhotoCooldownSurvivesPassiveMode(t *testing.T) {
	a, driver, _, cam, clk := newTestAlarm(t)

	cfg := alarmCfg()
	cfg.KeepOn = true
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures)

	// Passive transition must not reset the photo throttle.
	driver.SetInput(17, true)
	clk.Advance(time.Second)
	require.NoError(t, a.Input(cfg))

	driver.SetInput(17, false)
	clk.Advance(time.Second) // 2s since the capture
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures)
}

func TestAlarmPhotoToggleEdgeTrigger(t *testing.T) {
	a, _, _, cam, _ := newTestAlarm(t)

	// Disarmed: the manual snapshot works independently of alarm state.
	cfg := alarmCfg()
	cfg.PhotoToggle = true
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures)

	// Same value again: no re-trigger.
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures)

	// Flip back: triggers again.
	cfg.PhotoToggle = false
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 2, cam.captures)
}

func TestAlarmConstructionAtomicity(t *testing.T) {
	driver := gpio.NewMemory()
	driver.FailPin(22, gpio.ErrAcquire)

	_, err := NewAlarm(driver, &fakeNotifier{}, &fakeCamera{}, alarmCfg())
	require.ErrorIs(t, err, gpio.ErrAcquire)

	require.False(t, driver.Acquired(17), "switch released after partial construction")
	require.False(t, driver.Acquired(18), "buzzer released after partial construction")
}

func TestAlarmOutputReportsStateAndMotion(t *testing.T) {
	a, driver, _, cam, _ := newTestAlarm(t)
	store := newFakeStore()

	photo := "/var/lib/pihome/photos/1.jpg"
	cam.latest = &photo

	require.NoError(t, a.Input(alarmCfg()))
	require.NoError(t, a.Output(context.Background(), store))

	st, ok := store.last(17)
	require.True(t, ok)
	require.NotNil(t, st.DoorOpen)
	require.True(t, *st.DoorOpen)
	require.Nil(t, st.Motion, "no motion seen, no timestamp")
	require.Equal(t, &photo, st.Photo)
	require.Zero(t, cam.captures)

	// Motion detected: timestamp reported plus one uncooldowned capture.
	driver.SetInput(22, true)
	require.NoError(t, a.Input(alarmCfg()))
	require.NoError(t, a.Output(context.Background(), store))

	st, ok = store.last(17)
	require.True(t, ok)
	require.NotNil(t, st.Motion)
	require.Equal(t, 1, cam.captures)
}

func TestAlarmOutputPhotoIgnoresCooldown(t *testing.T) {
	a, driver, _, cam, _ := newTestAlarm(t)
	store := newFakeStore()

	cfg := alarmCfg()
	cfg.KeepOn = true
	driver.SetInput(22, true)
	require.NoError(t, a.Input(cfg))
	require.Equal(t, 1, cam.captures, "alert capture")

	// Output captures again immediately, no shared cooldown.
	require.NoError(t, a.Output(context.Background(), store))
	require.Equal(t, 2, cam.captures)
}

func TestAlarmNotifierFailureAbortsCycle(t *testing.T) {
	a, _, notifier, _, _ := newTestAlarm(t)
	notifier.err = context.DeadlineExceeded

	cfg := alarmCfg()
	cfg.KeepOn = true
	require.Error(t, a.Input(cfg))
	require.True(t, a.lastEmailSent.IsZero(), "failed send must not arm the throttle")
}

func TestAlarmCloseReleasesAllPins(t *testing.T) {
	driver := gpio.NewMemory()
	a, err := NewAlarm(driver, &fakeNotifier{}, &fakeCamera{}, alarmCfg())
	require.NoError(t, err)

	a.Close()
	for _, pin := range []int{17, 18, 22} {
		require.False(t, driver.Acquired(pin))
	}
}
