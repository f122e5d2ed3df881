package board

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/KamdynS/go-miro-mcp/miro"
	"github.com/KamdynS/go-miro-mcp/tools"
)

type boardParams struct {
	BoardID string `json:"boardId" validate:"required"`
}

type boardItemsParams struct {
	BoardID string `json:"boardId" validate:"required"`
	Type    string `json:"type" validate:"omitempty,item_type"`
}

type frameParams struct {
	BoardID string `json:"boardId" validate:"required"`
	FrameID string `json:"frameId" validate:"required"`
}

func (h *handlers) listBoards(ctx context.Context, _ tools.Args) (string, error) {
	boards, err := h.api.ListBoards(ctx)
	if err != nil {
		return "", err
	}
	return formatBoards(boards), nil
}

func (h *handlers) getBoardItems(ctx context.Context, args tools.Args) (string, error) {
	var p boardItemsParams
	if err := h.validator.Decode(args, &p); err != nil {
		return "", err
	}
	items, err := h.api.ListItems(ctx, p.BoardID, miro.ItemFilter{Type: miro.ItemType(p.Type)})
	if err != nil {
		return "", err
	}
	return toJSON(items)
}

func (h *handlers) getFrames(ctx context.Context, args tools.Args) (string, error) {
	var p boardParams
	if err := h.validator.Decode(args, &p); err != nil {
		return "", err
	}
	frames, err := h.api.ListFrames(ctx, p.BoardID)
	if err != nil {
		return "", err
	}
	return toJSON(frames)
}

func (h *handlers) getItemsInFrame(ctx context.Context, args tools.Args) (string, error) {
	var p frameParams
	if err := h.validator.Decode(args, &p); err != nil {
		return "", err
	}
	items, err := h.api.ListItemsInFrame(ctx, p.BoardID, p.FrameID)
	if err != nil {
		return "", err
	}
	return toJSON(items)
}

func formatBoards(boards []miro.Board) string {
	lines := make([]string, 0, len(boards))
	for _, b := range boards {
		lines = append(lines, fmt.Sprintf("Board ID: %s, Name: %s", b.ID, b.Name))
	}
	return strings.Join(lines, "\n")
}

// toJSON renders items exactly as the service reported them.
func toJSON(items []miro.Item) (string, error) {
	if items == nil {
		items = []miro.Item{}
	}
	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(out), nil
}
