package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/KamdynS/go-miro-mcp/miro"
	"github.com/KamdynS/go-miro-mcp/tools"
	"github.com/KamdynS/go-miro-mcp/tools/board"
)

// ServerConfig names the implementation announced to clients.
type ServerConfig struct {
	Name    string
	Version string
	Logger  *logrus.Logger
}

// Server exposes a tool registry and the board resource over the Model
// Context Protocol using the official SDK.
type Server struct {
	reg    tools.Registry
	boards *board.BoardResource
	sdk    *sdkmcp.Server
	log    *logrus.Logger
}

// NewServer builds a protocol server. Every tool in reg is advertised; boards
// may be nil to serve tools only.
func NewServer(reg tools.Registry, boards *board.BoardResource, cfg ServerConfig) (*Server, error) {
	if reg == nil {
		return nil, fmt.Errorf("nil registry")
	}
	if cfg.Name == "" {
		cfg.Name = "miro-mcp"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{
		reg:    reg,
		boards: boards,
		sdk:    sdkmcp.NewServer(&sdkmcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil),
		log:    log,
	}
	for _, d := range reg.Describe() {
		schema, err := inputSchema(d.Schema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", d.Name, err)
		}
		s.sdk.AddTool(&sdkmcp.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: schema,
		}, s.callTool(d.Name))
	}
	if boards != nil {
		s.sdk.AddResourceTemplate(&sdkmcp.ResourceTemplate{
			Name:        "board",
			Description: "Items on a board as JSON",
			MIMEType:    board.ResourceMIMEType,
			URITemplate: board.ResourceTemplate,
		}, s.readBoard)
	}
	return s, nil
}

// PublishBoards advertises every board visible to the credential as a
// concrete resource and returns how many were added. Boards listed without a
// name are titled from their own record.
func (s *Server) PublishBoards(ctx context.Context) (int, error) {
	if s.boards == nil {
		return 0, nil
	}
	list, err := s.boards.Boards(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range list {
		title := b.Name
		if title == "" {
			title = s.boards.Name(ctx, b.ID)
		}
		s.sdk.AddResource(&sdkmcp.Resource{
			URI:         board.BoardURI(b.ID),
			Name:        b.ID,
			Title:       title,
			Description: b.Description,
			MIMEType:    board.ResourceMIMEType,
		}, s.readBoard)
	}
	return len(list), nil
}

// Run serves a single session on transport until the client disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport sdkmcp.Transport) error {
	s.log.WithField("tools", len(s.reg.List())).Info("mcp server started")
	return s.sdk.Run(ctx, transport)
}

// ServeStdio serves the protocol on the process's stdin and stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &sdkmcp.StdioTransport{})
}

// Connect starts a session on transport without blocking.
func (s *Server) Connect(ctx context.Context, transport sdkmcp.Transport) (*sdkmcp.ServerSession, error) {
	return s.sdk.Connect(ctx, transport, nil)
}

// callTool adapts a registry tool to the SDK. Tool failures are reported as
// error results so the session keeps serving.
func (s *Server) callTool(name string) sdkmcp.ToolHandler {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		args := tools.Args{}
		if raw := req.Params.Arguments; len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				return errorResult(&miro.ValidationError{Reason: "arguments must be a JSON object"}), nil
			}
		}
		out, err := s.reg.Execute(ctx, name, args)
		if err != nil {
			return errorResult(err), nil
		}
		return &sdkmcp.CallToolResult{Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: out}}}, nil
	}
}

func (s *Server) readBoard(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	uri := req.Params.URI
	boardID, err := board.ParseBoardURI(uri)
	if err != nil {
		return nil, sdkmcp.ResourceNotFoundError(uri)
	}
	text, err := s.boards.ReadBoard(ctx, boardID)
	if err != nil {
		s.log.WithError(err).WithField("uri", uri).Warn("board resource read failed")
		return nil, err
	}
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{{URI: uri, MIMEType: board.ResourceMIMEType, Text: text}},
	}, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: err.Error()}},
	}
}

func inputSchema(m map[string]interface{}) (*jsonschema.Schema, error) {
	if m == nil {
		return &jsonschema.Schema{Type: "object"}, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
