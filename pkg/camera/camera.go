// Package camera captures snapshots through an external webcam command
// and tracks the most recent capture on disk.
package camera

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Camera captures photos and reports the newest one.
type Camera interface {
	// Capture takes a photo synchronously.
	Capture() error

	// Latest returns a reference to the most recent photo, or nil when
	// none has been taken yet.
	Latest() *string
}

// Webcam shells out to a capture command (fswebcam by default), writing
// timestamped JPEGs into Dir.
type Webcam struct {
	// Dir is where captures are written.
	Dir string
	// Command is the capture program and its leading arguments; the
	// output path is appended.
	Command []string
}

// NewWebcam creates a webcam camera, creating the photo directory if
// needed.
func NewWebcam(dir string, command []string) (*Webcam, error) {
	if len(command) == 0 {
		command = []string{"fswebcam", "-r", "640x480", "--no-banner"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo directory: %w", err)
	}
	return &Webcam{Dir: dir, Command: command}, nil
}

func (w *Webcam) Capture() error {
	name := fmt.Sprintf("%d.jpg", time.Now().UnixNano())
	path := filepath.Join(w.Dir, name)

	args := append(append([]string{}, w.Command[1:]...), path)
	if out, err := exec.Command(w.Command[0], args...).CombinedOutput(); err != nil {
		return fmt.Errorf("capture photo: %v: %s", err, out)
	}

	log.Debug().Str("path", path).Msg("photo captured")
	return nil
}

func (w *Webcam) Latest() *string {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jpg" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(w.Dir, e.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return nil
	}
	return &newest
}

// Null is used when no camera is attached.
type Null struct{}

func (Null) Capture() error  { return nil }
func (Null) Latest() *string { return nil }
