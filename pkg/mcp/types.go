package mcp

import (
	"github.com/dkeene/pihome/pkg/db"
)

// --- Health Tool ---

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or unhealthy)"`
	Remotes   int    `json:"remotes" jsonschema:"description=Number of configured remotes"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// --- List Remotes Tool ---

// ListRemotesOutput is the output for the list_remotes tool
type ListRemotesOutput struct {
	Remotes []RemoteInfo `json:"remotes" jsonschema:"description=List of configured remotes"`
	Count   int          `json:"count" jsonschema:"description=Total number of remotes"`
}

// RemoteInfo represents a remote in tool outputs
type RemoteInfo struct {
	Pin         int     `json:"pin" jsonschema:"description=Primary BCM GPIO pin"`
	Name        string  `json:"name" jsonschema:"description=User-chosen remote name"`
	Kind        string  `json:"kind" jsonschema:"description=Remote kind (simple_output/switch/motion/alarm)"`
	KeepOn      bool    `json:"keep_on" jsonschema:"description=Whether the output is driven or the alarm armed"`
	PinBuzzer   int     `json:"pin_buzzer,omitempty" jsonschema:"description=Buzzer pin (alarm only)"`
	PinMotion   int     `json:"pin_motion,omitempty" jsonschema:"description=Motion sensor pin (alarm only)"`
	Emails      string  `json:"emails,omitempty" jsonschema:"description=Comma-separated alert recipients (alarm only)"`
	PhotoToggle bool    `json:"photo_toggle" jsonschema:"description=Snapshot edge-trigger flag (alarm only)"`
	Data        *string `json:"data,omitempty" jsonschema:"description=Last observed sensor value"`
	DoorOpen    *bool   `json:"door_open,omitempty" jsonschema:"description=Whether the door switch reads open (alarm only)"`
	Motion      *string `json:"motion,omitempty" jsonschema:"description=Timestamp of the last detected motion (alarm only)"`
	Photo       *string `json:"photo,omitempty" jsonschema:"description=Path of the most recent photo (alarm only)"`
}

// --- Get Remote Tool ---

// GetRemoteOutput is the output for the get_remote tool
type GetRemoteOutput struct {
	Remote RemoteInfo `json:"remote" jsonschema:"description=Remote information"`
}

// --- Set Output Tool ---

// SetOutputOutput is the output for the set_output tool
type SetOutputOutput struct {
	Pin     int    `json:"pin" jsonschema:"description=Remote pin"`
	State   string `json:"state" jsonschema:"description=Requested state (ON or OFF)"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Alarm Tools ---

// AlarmOutput is the output for the arm_alarm and disarm_alarm tools
type AlarmOutput struct {
	Pin     int    `json:"pin" jsonschema:"description=Alarm pin"`
	Armed   bool   `json:"armed" jsonschema:"description=Whether the alarm is now armed"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// SnapshotOutput is the output for the take_snapshot tool
type SnapshotOutput struct {
	Pin     int    `json:"pin" jsonschema:"description=Alarm pin"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// --- Helper conversions ---

// RemoteToInfo converts a stored record to RemoteInfo
func RemoteToInfo(r *db.Remote) RemoteInfo {
	return RemoteInfo{
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
	}
}
