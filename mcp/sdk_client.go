package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KamdynS/go-miro-mcp/tools"
)

// SDKConfig defines how to launch and connect to an MCP server via the official SDK
type SDKConfig struct {
	// Command to launch the MCP server (e.g. path to binary)
	Command string
	// Args to pass to the command
	Args []string
	// Env is appended to the child's inherited environment
	Env []string
	// Optional implementation info
	ClientName    string
	ClientVersion string
}

// SDKClient is a protocol session with a server, usable wherever a ClientLike is.
type SDKClient struct {
	session *sdkmcp.ClientSession
}

// ConnectCommand launches cfg.Command and speaks the protocol over its stdio.
func ConnectCommand(ctx context.Context, cfg SDKConfig) (*SDKClient, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("empty SDK command")
	}
	cmd := exec.Command(cfg.Command, cfg.Args...)
	if len(cfg.Env) > 0 {
		cmd.Env = append(cmd.Environ(), cfg.Env...)
	}
	return Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, cfg.ClientName, cfg.ClientVersion)
}

// Connect opens a session over an arbitrary transport.
func Connect(ctx context.Context, transport sdkmcp.Transport, name, version string) (*SDKClient, error) {
	impl := &sdkmcp.Implementation{Name: name, Version: version}
	if impl.Name == "" {
		impl.Name = "miro-mcp-client"
	}
	session, err := sdkmcp.NewClient(impl, nil).Connect(ctx, transport, nil)
	if err != nil {
		return nil, err
	}
	return &SDKClient{session: session}, nil
}

// ListTools lists the tools the server advertises.
func (c *SDKClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	res, err := c.session.ListTools(ctx, &sdkmcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}
	out := make([]ToolInfo, 0, len(res.Tools))
	for _, t := range res.Tools {
		info := ToolInfo{Name: t.Name, Description: t.Description, Schema: map[string]interface{}{}}
		if t.InputSchema != nil {
			if raw, err := json.Marshal(t.InputSchema); err == nil {
				_ = json.Unmarshal(raw, &info.Schema)
			}
		}
		out = append(out, info)
	}
	return out, nil
}

// ExecuteTool calls a tool and concatenates its text content. An error result
// from the server is returned as a *ToolError.
func (c *SDKClient) ExecuteTool(ctx context.Context, name string, args tools.Args) (string, error) {
	if args == nil {
		args = tools.Args{}
	}
	res, err := c.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: map[string]interface{}(args),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, content := range res.Content {
		if txt, ok := content.(*sdkmcp.TextContent); ok {
			sb.WriteString(txt.Text)
		}
	}
	if res.IsError {
		return "", &ToolError{Tool: name, Message: sb.String()}
	}
	return sb.String(), nil
}

// ReadResource returns the text of the resource at uri.
func (c *SDKClient) ReadResource(ctx context.Context, uri string) (string, error) {
	res, err := c.session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: uri})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, rc := range res.Contents {
		sb.WriteString(rc.Text)
	}
	return sb.String(), nil
}

// ResourceInfo describes one concrete resource a server advertises.
type ResourceInfo struct {
	URI   string
	Name  string
	Title string
}

// ListResources lists the server's concrete resources.
func (c *SDKClient) ListResources(ctx context.Context) ([]ResourceInfo, error) {
	res, err := c.session.ListResources(ctx, &sdkmcp.ListResourcesParams{})
	if err != nil {
		return nil, err
	}
	out := make([]ResourceInfo, 0, len(res.Resources))
	for _, r := range res.Resources {
		out = append(out, ResourceInfo{URI: r.URI, Name: r.Name, Title: r.Title})
	}
	return out, nil
}

// Close ends the session and, for command transports, the child process.
func (c *SDKClient) Close() error {
	return c.session.Close()
}

var _ ClientLike = (*SDKClient)(nil)
