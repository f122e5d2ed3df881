// Package miro is a minimal client for the Miro REST API v2. Every method
// performs exactly one HTTP round trip; nothing is retried or cached.
package miro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	obs "github.com/KamdynS/go-miro-mcp/observability"
)

const (
	DefaultBaseURL   = "https://api.miro.com/v2"
	DefaultItemLimit = 50
	MaxBulkItems     = 20

	defaultTimeout = 30 * time.Second
)

// ClientConfig holds the credential and connection details
type ClientConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client talks to the remote whiteboard service with a single bearer token.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("miro: access token is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     logger,
	}, nil
}

// ListBoards returns the boards visible to the credential, in service order.
func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var out listResponse[Board]
	if err := c.do(ctx, http.MethodGet, "/boards", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetBoard fetches a single board.
func (c *Client) GetBoard(ctx context.Context, boardID string) (*Board, error) {
	if err := requireID("boardId", boardID); err != nil {
		return nil, err
	}
	var out Board
	if err := c.do(ctx, http.MethodGet, boardPath(boardID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems returns the items of a board matching filter.
func (c *Client) ListItems(ctx context.Context, boardID string, filter ItemFilter) ([]Item, error) {
	if err := requireID("boardId", boardID); err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultItemLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if filter.Type != "" {
		q.Set("type", string(filter.Type))
	}
	if filter.ParentID != "" {
		q.Set("parent_item_id", filter.ParentID)
	}

	var out listResponse[Item]
	if err := c.do(ctx, http.MethodGet, boardPath(boardID)+"/items", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListFrames returns the frames on a board.
func (c *Client) ListFrames(ctx context.Context, boardID string) ([]Item, error) {
	items, err := c.ListItems(ctx, boardID, ItemFilter{Type: ItemTypeFrame})
	if err != nil {
		return nil, err
	}
	return filterItems(items, func(it Item) bool { return it.Type == ItemTypeFrame }), nil
}

// ListItemsInFrame returns the items whose parent is frameID.
func (c *Client) ListItemsInFrame(ctx context.Context, boardID, frameID string) ([]Item, error) {
	if err := requireID("frameId", frameID); err != nil {
		return nil, err
	}
	items, err := c.ListItems(ctx, boardID, ItemFilter{ParentID: frameID})
	if err != nil {
		return nil, err
	}
	return filterItems(items, func(it Item) bool { return it.ParentID() == frameID }), nil
}

// CreateStickyNote creates a sticky note. An empty color means yellow and a
// nil position means the board center.
func (c *Client) CreateStickyNote(ctx context.Context, boardID string, note StickyNote) (*Item, error) {
	if err := requireID("boardId", boardID); err != nil {
		return nil, err
	}
	color := note.Color
	if color == "" {
		color = DefaultStickyColor
	}
	if !IsStickyColor(color) {
		return nil, &ValidationError{Field: "color", Reason: fmt.Sprintf("%q is not a sticky note color", color)}
	}

	body := createRequest{
		Data:     StickyNoteData{Content: note.Content, Shape: "square"},
		Style:    Style{"fillColor": color},
		Position: positionOrCenter(note.Position),
		Parent:   note.Parent,
	}
	var out Item
	if err := c.do(ctx, http.MethodPost, boardPath(boardID)+"/sticky_notes", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateShape creates a shape. Geometry defaults to 200x200 unrotated and the
// position to the board center.
func (c *Client) CreateShape(ctx context.Context, boardID string, shape Shape) (*Item, error) {
	if err := requireID("boardId", boardID); err != nil {
		return nil, err
	}
	kind := shape.Kind
	if kind == "" {
		kind = DefaultShapeKind
	}
	if !IsShapeKind(kind) {
		return nil, &ValidationError{Field: "shape", Reason: fmt.Sprintf("%q is not a supported shape", kind)}
	}

	geometry := shape.Geometry
	if geometry == nil {
		geometry = &Geometry{Width: DefaultShapeSize, Height: DefaultShapeSize}
	}
	body := createRequest{
		Data:     ShapeData{Shape: kind, Content: shape.Content},
		Style:    shape.Style,
		Position: positionOrCenter(shape.Position),
		Geometry: geometry,
		Parent:   shape.Parent,
	}
	var out Item
	if err := c.do(ctx, http.MethodPost, boardPath(boardID)+"/shapes", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkCreate creates up to MaxBulkItems items in one request. The service
// decides whether the batch applies as a whole; its response is returned as is.
func (c *Client) BulkCreate(ctx context.Context, boardID string, specs []ItemSpec) ([]Item, error) {
	if err := requireID("boardId", boardID); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	if len(specs) > MaxBulkItems {
		return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("at most %d items per request, got %d", MaxBulkItems, len(specs))}
	}
	for i, spec := range specs {
		if !KnownItemType(spec.Type) {
			return nil, &ValidationError{Field: fmt.Sprintf("items[%d].type", i), Reason: fmt.Sprintf("unknown item type %q", spec.Type)}
		}
	}

	var out listResponse[Item]
	if err := c.do(ctx, http.MethodPost, boardPath(boardID)+"/items/bulk", nil, specs, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		obs.MetricsImpl.RecordAPIRequest(method, 0, elapsed)
		c.log.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("miro request failed")
		return fmt.Errorf("miro %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	obs.MetricsImpl.RecordAPIRequest(method, resp.StatusCode, elapsed)
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": elapsed,
	}).Debug("miro request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseTransportError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func boardPath(boardID string) string {
	return "/boards/" + url.PathEscape(boardID)
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}
	return nil
}

func positionOrCenter(p *Position) *Position {
	if p == nil {
		return &Position{X: 0, Y: 0}
	}
	return p
}

func filterItems(items []Item, keep func(Item) bool) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
