package board

import (
	"context"
	"net/url"
	"strings"

	"github.com/KamdynS/go-miro-mcp/miro"
)

const (
	// ResourceScheme prefixes every board resource URI.
	ResourceScheme = "miro://"
	// ResourceTemplate is the URI template clients address boards with.
	ResourceTemplate = ResourceScheme + "board/{boardId}"
	ResourceMIMEType = "application/json"
)

// BoardResource serves a board's items as read-only JSON text.
type BoardResource struct {
	api API
}

func NewBoardResource(api API) *BoardResource {
	return &BoardResource{api: api}
}

// BoardURI returns the resource address of boardID.
func BoardURI(boardID string) string {
	return ResourceScheme + "board/" + url.PathEscape(boardID)
}

// Boards lists the boards that can be read, in service order.
func (r *BoardResource) Boards(ctx context.Context) ([]miro.Board, error) {
	return r.api.ListBoards(ctx)
}

// Name returns the board's display name, falling back to its ID.
func (r *BoardResource) Name(ctx context.Context, boardID string) string {
	b, err := r.api.GetBoard(ctx, boardID)
	if err != nil || b.Name == "" {
		return boardID
	}
	return b.Name
}

// Read fetches the items of the board addressed by uri. Both
// "miro://board/<id>" and the bare "board/<id>" are accepted.
func (r *BoardResource) Read(ctx context.Context, uri string) (string, error) {
	boardID, err := ParseBoardURI(uri)
	if err != nil {
		return "", err
	}
	return r.ReadBoard(ctx, boardID)
}

// ReadBoard fetches the items of boardID.
func (r *BoardResource) ReadBoard(ctx context.Context, boardID string) (string, error) {
	items, err := r.api.ListItems(ctx, boardID, miro.ItemFilter{})
	if err != nil {
		return "", err
	}
	return toJSON(items)
}

// ParseBoardURI extracts the board ID from a board resource URI.
func ParseBoardURI(uri string) (string, error) {
	rest := strings.TrimPrefix(uri, ResourceScheme)
	id, ok := strings.CutPrefix(rest, "board/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", &miro.ValidationError{Field: "uri", Reason: "expected " + ResourceTemplate + ", got " + uri}
	}
	unescaped, err := url.PathUnescape(id)
	if err != nil {
		return "", &miro.ValidationError{Field: "uri", Reason: "bad escape in " + uri}
	}
	return unescaped, nil
}
