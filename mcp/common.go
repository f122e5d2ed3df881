package mcp

import (
	"context"
	"fmt"

	"github.com/KamdynS/go-miro-mcp/tools"
)

// ClientLike abstracts over different MCP client transports
type ClientLike interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	ExecuteTool(ctx context.Context, name string, args tools.Args) (string, error)
}

// ToolInfo describes a tool advertised by a server.
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Schema      map[string]interface{} `json:"schema"`
}

// ToolError is a failure reported by the server for one tool call.
type ToolError struct {
	Tool string
	// Kind is the server's classification (validation, unauthorized, ...)
	// when the transport carries one.
	Kind       string
	Message    string
	StatusCode int
}

func (e *ToolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tool %s failed (HTTP %d): %s", e.Tool, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tool %s failed: %s", e.Tool, e.Message)
}
