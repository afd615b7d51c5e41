package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeene/pihome/pkg/api/types"
	"github.com/dkeene/pihome/pkg/db"
	"github.com/dkeene/pihome/pkg/gpio"
	"github.com/dkeene/pihome/pkg/remote"
	"github.com/dkeene/pihome/pkg/remote/schema"
)

// RemotesHandler handles remote configuration CRUD. This is the
// configuration-ingest surface: payloads are validated against the
// per-kind schema before any hardware is touched.
type RemotesHandler struct {
	registry  *remote.Registry
	store     db.RemoteStore
	validator *schema.Validator
}

// NewRemotesHandler creates a remotes handler.
func NewRemotesHandler(registry *remote.Registry, store db.RemoteStore, validator *schema.Validator) *RemotesHandler {
	return &RemotesHandler{registry: registry, store: store, validator: validator}
}

// pinParam parses the :pin path parameter.
func pinParam(c *gin.Context) (int, bool) {
	pin, err := strconv.Atoi(c.Param("pin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_pin",
			Message: "pin must be an integer",
		})
		return 0, false
	}
	return pin, true
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gpio.ErrInvalidPin):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_pin", Message: err.Error()})
	case errors.Is(err, remote.ErrValidation), errors.Is(err, remote.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, remote.ErrDuplicatePin):
		c.JSON(http.StatusConflict, types.ErrorResponse{Error: "duplicate_pin", Message: err.Error()})
	case errors.Is(err, remote.ErrNotFound), errors.Is(err, db.ErrRemoteNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: "remote not found"})
	case errors.Is(err, gpio.ErrAcquire):
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "hardware_error", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}

// decodeConfig validates the raw payload against the kind schema and
// decodes it into a typed configuration. Unknown fields are rejected by
// the schema, not silently merged.
func (h *RemotesHandler) decodeConfig(c *gin.Context) (remote.Config, bool) {
	var payload map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid request body",
		})
		return remote.Config{}, false
	}

	kind, _ := payload["kind"].(string)
	if err := h.validator.Validate(schema.ForKind(kind), payload); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return remote.Config{}, false
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		writeError(c, err)
		return remote.Config{}, false
	}
	var cfg remote.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		writeError(c, err)
		return remote.Config{}, false
	}

	if err := cfg.Validate(); err != nil {
		writeError(c, err)
		return remote.Config{}, false
	}
	return cfg, true
}

// ListRemotes handles GET /remotes.
func (h *RemotesHandler) ListRemotes(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	views := make([]types.RemoteView, 0, len(records))
	for _, r := range records {
		views = append(views, types.ViewFromRecord(r))
	}
	c.JSON(http.StatusOK, types.ListRemotesResponse{Remotes: views, Count: len(views)})
}

// GetRemote handles GET /remotes/:pin.
func (h *RemotesHandler) GetRemote(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}

	record, err := h.store.Get(c.Request.Context(), pin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.RemoteResponse{Remote: types.ViewFromRecord(record)})
}

// CreateRemote handles POST /remotes. The hardware is acquired before
// the record is stored; a storage failure rolls the acquisition back.
func (h *RemotesHandler) CreateRemote(c *gin.Context) {
	cfg, ok := h.decodeConfig(c)
	if !ok {
		return
	}

	if err := h.registry.Add(cfg); err != nil {
		writeError(c, err)
		return
	}

	if err := h.store.Create(c.Request.Context(), cfg); err != nil {
		if rmErr := h.registry.Remove(cfg.Pin); rmErr != nil {
			log.Error().Err(rmErr).Int("pin", cfg.Pin).Msg("rolling back remote after store failure")
		}
		writeError(c, err)
		return
	}

	record, err := h.store.Get(c.Request.Context(), cfg.Pin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.RemoteResponse{Remote: types.ViewFromRecord(record)})
}

// UpdateRemote handles PUT /remotes/:pin. Pin moves release the old
// line before acquiring the new one.
func (h *RemotesHandler) UpdateRemote(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}
	cfg, ok := h.decodeConfig(c)
	if !ok {
		return
	}

	if err := h.registry.Apply(pin, cfg); err != nil && !errors.Is(err, remote.ErrNotFound) {
		// A remote missing from the registry (e.g. its hardware failed
		// earlier) is rebuilt from the store on the next cycle.
		writeError(c, err)
		return
	}

	if err := h.store.UpdateConfig(c.Request.Context(), pin, cfg); err != nil {
		writeError(c, err)
		return
	}

	record, err := h.store.Get(c.Request.Context(), cfg.Pin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.RemoteResponse{Remote: types.ViewFromRecord(record)})
}

// DeleteRemote handles DELETE /remotes/:pin.
func (h *RemotesHandler) DeleteRemote(c *gin.Context) {
	pin, ok := pinParam(c)
	if !ok {
		return
	}

	if err := h.registry.Remove(pin); err != nil && !errors.Is(err, remote.ErrNotFound) {
		writeError(c, err)
		return
	}
	if err := h.store.Delete(c.Request.Context(), pin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
