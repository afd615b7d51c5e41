package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/dkeene/pihome/pkg/db"
)

// Server wraps the MCP server with pihome's remote control functionality
type Server struct {
	mcpServer *server.MCPServer
	store     db.RemoteStore
}

// NewServer creates a new MCP server for remote control. The server
// works against the shared database only; the controller process picks
// configuration changes up on its next control cycle.
func NewServer(store db.RemoteStore) *Server {
	s := &Server{store: store}

	// Create MCP server
	s.mcpServer = server.NewMCPServer(
		"pihome",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register all tools
	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
