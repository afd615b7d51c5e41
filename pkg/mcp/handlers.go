package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkeene/pihome/pkg/db"
	"github.com/dkeene/pihome/pkg/remote"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	remotes, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to query database: %s", err)), nil
	}

	out := GetHealthOutput{
		Status:    "healthy",
		Remotes:   len(remotes),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListRemotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	remotes, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list remotes: %s", err)), nil
	}

	infos := make([]RemoteInfo, 0, len(remotes))
	for _, r := range remotes {
		infos = append(infos, RemoteToInfo(r))
	}

	out := ListRemotesOutput{
		Remotes: infos,
		Count:   len(infos),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetRemote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pin, err := requiredPin(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.store.Get(ctx, pin)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remote not found: %s", err)), nil
	}

	out := GetRemoteOutput{Remote: RemoteToInfo(r)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetOutput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pin, err := requiredPin(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := requiredString(request, "state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if state != "ON" && state != "OFF" {
		return mcp.NewToolResultError(`parameter "state" must be ON or OFF`), nil
	}

	r, err := s.store.Get(ctx, pin)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("remote not found: %s", err)), nil
	}
	if r.Kind != remote.KindSimpleOutput {
		return mcp.NewToolResultError(fmt.Sprintf("remote on pin %d is a %s, not a plain output", pin, r.Kind)), nil
	}

	cfg := r.Config
	cfg.KeepOn = state == "ON"
	if err := s.store.UpdateConfig(ctx, pin, cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set output: %s", err)), nil
	}

	out := SetOutputOutput{
		Pin:     pin,
		State:   state,
		Message: fmt.Sprintf("Output %q set to %s", r.Name, state),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleArmAlarm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setArmed(ctx, request, true)
}

func (s *Server) handleDisarmAlarm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setArmed(ctx, request, false)
}

func (s *Server) setArmed(ctx context.Context, request mcp.CallToolRequest, armed bool) (*mcp.CallToolResult, error) {
	pin, err := requiredPin(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.alarmRecord(ctx, pin)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg := r.Config
	cfg.KeepOn = armed
	if err := s.store.UpdateConfig(ctx, pin, cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update alarm: %s", err)), nil
	}

	verb := "disarmed"
	if armed {
		verb = "armed"
	}
	out := AlarmOutput{
		Pin:     pin,
		Armed:   armed,
		Message: fmt.Sprintf("Alarm %q %s", r.Name, verb),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleTakeSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pin, err := requiredPin(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r, err := s.alarmRecord(ctx, pin)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// The toggle is an edge trigger: each flip requests one capture on
	// the controller's next cycle.
	cfg := r.Config
	cfg.PhotoToggle = !cfg.PhotoToggle
	if err := s.store.UpdateConfig(ctx, pin, cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to request snapshot: %s", err)), nil
	}

	out := SnapshotOutput{
		Pin:     pin,
		Message: fmt.Sprintf("Snapshot requested from alarm %q", r.Name),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) alarmRecord(ctx context.Context, pin int) (*db.Remote, error) {
	r, err := s.store.Get(ctx, pin)
	if err != nil {
		return nil, fmt.Errorf("remote not found: %s", err)
	}
	if r.Kind != remote.KindAlarm {
		return nil, fmt.Errorf("remote on pin %d is a %s, not an alarm", pin, r.Kind)
	}
	return r, nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func requiredPin(request mcp.CallToolRequest) (int, error) {
	v, ok := request.GetArguments()["pin"]
	if !ok || v == nil {
		return 0, fmt.Errorf(`required parameter "pin" is missing`)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf(`parameter "pin" must be a number`)
	}
	return int(f), nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
