package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	// Health check
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the health status of the pihome service and count configured remotes"),
		),
		s.handleGetHealth,
	)

	// List remotes
	s.mcpServer.AddTool(
		mcp.NewTool("list_remotes",
			mcp.WithDescription("List all configured remotes with their current state"),
		),
		s.handleListRemotes,
	)

	// Get remote
	s.mcpServer.AddTool(
		mcp.NewTool("get_remote",
			mcp.WithDescription("Get the configuration and last observed state of a remote by GPIO pin"),
			mcp.WithNumber("pin",
				mcp.Required(),
				mcp.Description("BCM GPIO pin number of the remote (4-26)"),
			),
		),
		s.handleGetRemote,
	)

	// Set output
	s.mcpServer.AddTool(
		mcp.NewTool("set_output",
			mcp.WithDescription("Turn a plain output remote (LED, relay) on or off"),
			mcp.WithNumber("pin",
				mcp.Required(),
				mcp.Description("BCM GPIO pin number of the remote"),
			),
			mcp.WithString("state",
				mcp.Required(),
				mcp.Description("Desired state, ON or OFF"),
			),
		),
		s.handleSetOutput,
	)

	// Arm alarm
	s.mcpServer.AddTool(
		mcp.NewTool("arm_alarm",
			mcp.WithDescription("Arm an alarm remote so it alerts while its door switch is open"),
			mcp.WithNumber("pin",
				mcp.Required(),
				mcp.Description("BCM GPIO pin number of the alarm's door switch"),
			),
		),
		s.handleArmAlarm,
	)

	// Disarm alarm
	s.mcpServer.AddTool(
		mcp.NewTool("disarm_alarm",
			mcp.WithDescription("Disarm an alarm remote, silencing the buzzer and resetting the email throttle"),
			mcp.WithNumber("pin",
				mcp.Required(),
				mcp.Description("BCM GPIO pin number of the alarm's door switch"),
			),
		),
		s.handleDisarmAlarm,
	)

	// Take snapshot
	s.mcpServer.AddTool(
		mcp.NewTool("take_snapshot",
			mcp.WithDescription("Request a one-off camera snapshot from an alarm remote"),
			mcp.WithNumber("pin",
				mcp.Required(),
				mcp.Description("BCM GPIO pin number of the alarm's door switch"),
			),
		),
		s.handleTakeSnapshot,
	)
}
