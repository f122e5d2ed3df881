package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KamdynS/go-miro-mcp/tools"
)

// ClientConfig holds MCP server connection details
type ClientConfig struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
}

// Client talks to the HTTP tool surface: list tools and execute
type Client struct {
	cfg    ClientConfig
	client *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.Timeout == 0 {
		hc.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: hc}
}

type listToolsResp struct {
	Tools []ToolInfo `json:"tools"`
}

// execReq carries the tool arguments as a JSON document in a string.
type execReq struct {
	Input string `json:"input"`
}

type execResp struct {
	Result string `json:"result"`
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ListTools fetches tool metadata from the server.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/tools", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("mcp list tools failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	var out listToolsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

// ExecuteTool runs the named tool with the given arguments.
func (c *Client) ExecuteTool(ctx context.Context, name string, args tools.Args) (string, error) {
	if args == nil {
		args = tools.Args{}
	}
	input, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode arguments: %w", err)
	}
	body, _ := json.Marshal(execReq{Input: string(input)})

	endpoint := fmt.Sprintf("%s/tools/%s/execute", c.cfg.BaseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		te := &ToolError{Tool: name, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(b))}
		var er errorResp
		if json.Unmarshal(b, &er) == nil && er.Error != "" {
			te.Message, te.Kind = er.Error, er.Kind
		}
		return "", te
	}
	var out execResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// ReadBoard fetches the board resource served at /resources/board/{id}.
func (c *Client) ReadBoard(ctx context.Context, boardID string) (string, error) {
	endpoint := fmt.Sprintf("%s/resources/board/%s", c.cfg.BaseURL, url.PathEscape(boardID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(b))
		var er errorResp
		if json.Unmarshal(b, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return "", fmt.Errorf("read board %s failed: %s: %s", boardID, resp.Status, msg)
	}
	return string(b), nil
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
}

var _ ClientLike = (*Client)(nil)
