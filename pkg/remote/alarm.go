package remote

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeene/pihome/pkg/camera"
	"github.com/dkeene/pihome/pkg/gpio"
	"github.com/dkeene/pihome/pkg/notify"
)

// Side-effect throttling while the alarm stays in alert mode.
const (
	// EmailCooldown is the minimum gap between alert mails.
	EmailCooldown = time.Hour
	// PhotoCooldown is the minimum gap between alert captures.
	PhotoCooldown = 3 * time.Second
)

// Alarm composes a door switch, a buzzer and a motion sensor into a
// two-state alert/passive machine. The state is derived fresh on every
// Input call from the armed flag and the door contact; only the
// side-effect timestamps persist between cycles.
type Alarm struct {
	pin    int
	sw     *Switch
	buzzer *SimpleOutput
	motion *Motion

	recipients  []string
	keepOn      bool
	photoToggle bool

	doorOpen       bool
	motionDetected bool

	lastEmailSent  time.Time
	lastPhotoTaken time.Time

	notifier notify.Notifier
	camera   camera.Camera
	now      func() time.Time
}

// NewAlarm acquires the three sub-devices. Construction is atomic: if
// any acquisition fails, the devices acquired before it are released
// and the error is returned.
func NewAlarm(driver gpio.Driver, notifier notify.Notifier, cam camera.Camera, cfg Config) (*Alarm, error) {
	sw, err := NewSwitch(driver, Config{Pin: cfg.Pin, Name: cfg.Name + " switch"})
	if err != nil {
		return nil, err
	}

	buzzer, err := NewSimpleOutput(driver, Config{Pin: cfg.PinBuzzer, Name: cfg.Name + " buzzer"})
	if err != nil {
		sw.Close()
		return nil, err
	}

	motion, err := NewMotion(driver, Config{Pin: cfg.PinMotion, Name: cfg.Name + " motion"})
	if err != nil {
		buzzer.Close()
		sw.Close()
		return nil, err
	}

	return &Alarm{
		pin:         cfg.Pin,
		sw:          sw,
		buzzer:      buzzer,
		motion:      motion,
		recipients:  cfg.Recipients(),
		keepOn:      cfg.KeepOn,
		photoToggle: cfg.PhotoToggle,
		notifier:    notifier,
		camera:      cam,
		now:         time.Now,
	}, nil
}

func (a *Alarm) Pin() int { return a.pin }

// Armed reports whether away-from-home mode is enabled.
func (a *Alarm) Armed() bool { return a.keepOn }

// Input pushes configuration into the sub-devices, derives the door
// and motion readings, handles the manual snapshot toggle and runs one
// state-machine step.
func (a *Alarm) Input(cfg Config) error {
	if err := a.sw.Reconfigure(cfg.Pin); err != nil {
		return err
	}
	a.pin = cfg.Pin
	if err := a.buzzer.Reconfigure(cfg.PinBuzzer); err != nil {
		return err
	}
	if err := a.motion.Reconfigure(cfg.PinMotion); err != nil {
		return err
	}

	a.recipients = cfg.Recipients()
	a.keepOn = cfg.KeepOn

	a.doorOpen = !a.sw.IsActive()
	a.motionDetected = a.motion.IsActive()

	// Manual snapshot: the toggle flag flipping is the signal, its
	// absolute value carries no meaning.
	if cfg.PhotoToggle != a.photoToggle {
		if err := a.takePhoto(); err != nil {
			return err
		}
		a.photoToggle = cfg.PhotoToggle
	}

	if a.keepOn && a.doorOpen {
		return a.alertMode()
	}
	a.passiveMode()
	return nil
}

// alertMode re-asserts the buzzer every cycle and fires the throttled
// side effects.
func (a *Alarm) alertMode() error {
	a.buzzer.On()

	if a.lastEmailSent.IsZero() || a.now().Sub(a.lastEmailSent) > EmailCooldown {
		if err := a.sendEmail(); err != nil {
			return err
		}
	}

	if a.lastPhotoTaken.IsZero() || a.now().Sub(a.lastPhotoTaken) > PhotoCooldown {
		if err := a.takePhoto(); err != nil {
			return err
		}
	}
	return nil
}

// passiveMode clears the email throttle so that disarming and
// re-arming within the hour still mails on the next alert. The photo
// throttle is deliberately left alone.
func (a *Alarm) passiveMode() {
	if !a.lastEmailSent.IsZero() {
		a.lastEmailSent = time.Time{}
	}
	a.buzzer.Off()
}

func (a *Alarm) sendEmail() error {
	if err := a.notifier.Send(a.recipients); err != nil {
		return err
	}
	a.lastEmailSent = a.now()
	return nil
}

func (a *Alarm) takePhoto() error {
	if err := a.camera.Capture(); err != nil {
		return err
	}
	a.lastPhotoTaken = a.now()
	return nil
}

// Output persists the derived door state, the last-motion time when
// motion was seen this cycle (capturing one extra photo, with no
// cooldown shared with alert mode) and the newest photo reference.
func (a *Alarm) Output(ctx context.Context, store Store) error {
	st := State{DoorOpen: &a.doorOpen}

	if a.motionDetected {
		seen := a.now().Format(time.ANSIC)
		st.Motion = &seen
		if err := a.takePhoto(); err != nil {
			return err
		}
	}

	st.Photo = a.camera.Latest()
	return store.UpdateState(ctx, a.pin, st)
}

// Close releases all three sub-devices.
func (a *Alarm) Close() {
	a.sw.Close()
	a.buzzer.Close()
	a.motion.Close()
	log.Debug().Int("pin", a.pin).Msg("alarm released")
}
