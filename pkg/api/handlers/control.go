package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkeene/pihome/pkg/api/types"
	"github.com/dkeene/pihome/pkg/db"
	"github.com/dkeene/pihome/pkg/remote"
)

// ControlHandler exposes the shortcut actions that flip a single
// configuration field: arming an alarm or an output, and requesting a
// snapshot. The stored configuration is the source of truth; the
// registry picks the change up immediately where it can and on the next
// cycle otherwise.
type ControlHandler struct {
	registry *remote.Registry
	store    db.RemoteStore
}

// NewControlHandler creates a control handler.
func NewControlHandler(registry *remote.Registry, store db.RemoteStore) *ControlHandler {
	return &ControlHandler{registry: registry, store: store}
}

func (h *ControlHandler) mutate(c *gin.Context, change func(*remote.Config) error) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}

	record, err := h.store.Get(c.Request.Context(), pin)
	if err != nil {
		writeError(c, err)
		return
	}

	cfg := record.Config
	if err := change(&cfg); err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.UpdateConfig(c.Request.Context(), pin, cfg); err != nil {
		writeError(c, err)
		return
	}
	if err := h.registry.Apply(pin, cfg); err != nil && !errors.Is(err, remote.ErrNotFound) {
		writeError(c, err)
		return
	}

	record, err = h.store.Get(c.Request.Context(), pin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.RemoteResponse{Remote: types.ViewFromRecord(record)})
}

// Arm handles POST /remotes/:pin/arm. For an alarm this enters alert
// mode on the next evaluation; for a plain output it drives the line
// high.
func (h *ControlHandler) Arm(c *gin.Context) {
	h.mutate(c, func(cfg *remote.Config) error {
		cfg.KeepOn = true
		return nil
	})
}

// Disarm handles POST /remotes/:pin/disarm.
func (h *ControlHandler) Disarm(c *gin.Context) {
	h.mutate(c, func(cfg *remote.Config) error {
		cfg.KeepOn = false
		return nil
	})
}

// Snapshot handles POST /remotes/:pin/snapshot. Flipping the toggle is
// an edge trigger: the alarm captures a photo once per flip, regardless
// of mode.
func (h *ControlHandler) Snapshot(c *gin.Context) {
	h.mutate(c, func(cfg *remote.Config) error {
		if cfg.Kind != remote.KindAlarm {
			return fmt.Errorf("%w: snapshot requires an alarm remote", remote.ErrValidation)
		}
		cfg.PhotoToggle = !cfg.PhotoToggle
		return nil
	})
}
