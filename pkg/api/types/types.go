// Package types holds the request and response DTOs for the HTTP API.
package types

import (
	"time"

	"github.com/dkeene/pihome/pkg/db"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	GPIO      string    `json:"gpio"`
	Remotes   int       `json:"remotes"`
	Timestamp time.Time `json:"timestamp"`
}

// RemoteView combines a remote's configuration with its observed state.
type RemoteView struct {
	Pin         int       `json:"pin"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	KeepOn      bool      `json:"keep_on"`
	PinBuzzer   int       `json:"pin_buzzer,omitempty"`
	PinMotion   int       `json:"pin_motion,omitempty"`
	Emails      string    `json:"emails,omitempty"`
	PhotoToggle bool      `json:"photo_toggle"`
	Data        *string   `json:"data,omitempty"`
	DoorOpen    *bool     `json:"door_open,omitempty"`
	Motion      *string   `json:"motion,omitempty"`
	Photo       *string   `json:"photo,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ViewFromRecord converts a stored record to its API representation.
func ViewFromRecord(r *db.Remote) RemoteView {
	return RemoteView{
		Pin:         r.Pin,
		Name:        r.Name,
		Kind:        string(r.Kind),
		KeepOn:      r.KeepOn,
		PinBuzzer:   r.PinBuzzer,
		PinMotion:   r.PinMotion,
		Emails:      r.Emails,
		PhotoToggle: r.PhotoToggle,
		Data:        r.Data,
		DoorOpen:    r.DoorOpen,
		Motion:      r.Motion,
		Photo:       r.Photo,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ListRemotesResponse is returned from GET /remotes.
type ListRemotesResponse struct {
	Remotes []RemoteView `json:"remotes"`
	Count   int          `json:"count"`
}

// RemoteResponse is returned from GET /remotes/:pin and the mutating
// endpoints.
type RemoteResponse struct {
	Remote RemoteView `json:"remote"`
}
