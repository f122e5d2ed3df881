// Package board exposes whiteboard operations as agent tools. The catalog is
// a static table built once at startup; each entry pairs a name and argument
// schema with the handler that performs one API call and formats its result.
package board

import (
	"context"
	"fmt"

	"github.com/KamdynS/go-miro-mcp/miro"
	"github.com/KamdynS/go-miro-mcp/tools"
)

// API is the subset of the remote client the operations depend on.
type API interface {
	ListBoards(ctx context.Context) ([]miro.Board, error)
	GetBoard(ctx context.Context, boardID string) (*miro.Board, error)
	ListItems(ctx context.Context, boardID string, filter miro.ItemFilter) ([]miro.Item, error)
	ListFrames(ctx context.Context, boardID string) ([]miro.Item, error)
	ListItemsInFrame(ctx context.Context, boardID, frameID string) ([]miro.Item, error)
	CreateStickyNote(ctx context.Context, boardID string, note miro.StickyNote) (*miro.Item, error)
	CreateShape(ctx context.Context, boardID string, shape miro.Shape) (*miro.Item, error)
	BulkCreate(ctx context.Context, boardID string, specs []miro.ItemSpec) ([]miro.Item, error)
}

var _ API = (*miro.Client)(nil)

// Operation names.
const (
	OpListBoards       = "list_boards"
	OpGetBoardItems    = "get_board_items"
	OpCreateStickyNote = "create_sticky_note"
	OpBulkCreateItems  = "bulk_create_items"
	OpGetFrames        = "get_frames"
	OpGetItemsInFrame  = "get_items_in_frame"
	OpCreateShape      = "create_shape"
)

type handlerFunc func(ctx context.Context, args tools.Args) (string, error)

// operation is one catalog entry.
type operation struct {
	name        string
	description string
	schema      map[string]interface{}
	handle      handlerFunc
}

func (o *operation) Name() string                   { return o.name }
func (o *operation) Description() string            { return o.description }
func (o *operation) Schema() map[string]interface{} { return o.schema }
func (o *operation) Execute(ctx context.Context, args tools.Args) (string, error) {
	return o.handle(ctx, args)
}

var _ tools.Tool = (*operation)(nil)

// handlers binds the catalog to a client and validator.
type handlers struct {
	api       API
	validator *tools.Validator
}

// Catalog returns the board operations bound to api.
func Catalog(api API, v *tools.Validator) []tools.Tool {
	if v == nil {
		v = tools.NewValidator()
	}
	// Only fails on an empty tag.
	_ = v.RegisterEnum("font_family", fontFamilies)
	h := &handlers{api: api, validator: v}

	return []tools.Tool{
		&operation{
			name:        OpListBoards,
			description: "List all boards available to the configured access token",
			schema:      object(props{}),
			handle:      h.listBoards,
		},
		&operation{
			name:        OpGetBoardItems,
			description: "Get the items on a board, optionally restricted to one item type",
			schema: object(props{
				"boardId": str("ID of the board"),
				"type":    enum("Only return items of this type", itemTypes()),
			}, "boardId"),
			handle: h.getBoardItems,
		},
		&operation{
			name:        OpCreateStickyNote,
			description: "Create a sticky note on a board",
			schema: object(props{
				"boardId": str("ID of the board to create the sticky note on"),
				"content": str("Text content of the sticky note"),
				"color":   withDefault(enum("Fill color of the sticky note", miro.StickyNoteColors), miro.DefaultStickyColor),
				"x":       withDefault(num("X coordinate; board center is 0"), 0),
				"y":       withDefault(num("Y coordinate; board center is 0"), 0),
			}, "boardId", "content"),
			handle: h.createStickyNote,
		},
		&operation{
			name: OpBulkCreateItems,
			description: fmt.Sprintf("Create between 1 and %d items on a board in a single request. "+
				"Positions of items with a parent frame are relative to the frame's top-left corner.", miro.MaxBulkItems),
			schema: object(props{
				"boardId": str("ID of the board to create the items on"),
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Items to create",
					"minItems":    1,
					"maxItems":    miro.MaxBulkItems,
					"items": object(props{
						"type":     enum("Item type", []string{"sticky_note", "text", "shape", "card", "frame", "app_card", "image", "document", "embed"}),
						"data":     looseObject("Type-specific data, e.g. {content} or {shape, content}"),
						"style":    looseObject("Type-specific style"),
						"position": positionSchema(),
						"geometry": geometrySchema(),
						"parent":   object(props{"id": str("ID of the parent frame")}, "id"),
					}, "type"),
				},
			}, "boardId", "items"),
			handle: h.bulkCreateItems,
		},
		&operation{
			name:        OpGetFrames,
			description: "Get all frames on a board",
			schema:      object(props{"boardId": str("ID of the board")}, "boardId"),
			handle:      h.getFrames,
		},
		&operation{
			name:        OpGetItemsInFrame,
			description: "Get the items contained in a frame",
			schema: object(props{
				"boardId": str("ID of the board"),
				"frameId": str("ID of the frame"),
			}, "boardId", "frameId"),
			handle: h.getItemsInFrame,
		},
		&operation{
			name:        OpCreateShape,
			description: "Create a basic or flow-chart shape on a board",
			schema: object(props{
				"boardId":  str("ID of the board to create the shape on"),
				"shape":    withDefault(enum("Shape kind", miro.ShapeKinds()), miro.DefaultShapeKind),
				"content":  str("Text shown inside the shape"),
				"style":    shapeStyleSchema(),
				"position": positionSchema(),
				"geometry": geometrySchema(),
			}, "boardId"),
			handle: h.createShape,
		},
	}
}

// Register adds the board operations to reg.
func Register(reg tools.Registry, api API, v *tools.Validator) error {
	for _, t := range Catalog(api, v) {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func itemTypes() []string {
	return []string{
		string(miro.ItemTypeStickyNote), string(miro.ItemTypeShape), string(miro.ItemTypeText),
		string(miro.ItemTypeImage), string(miro.ItemTypeDocument), string(miro.ItemTypeCard),
		string(miro.ItemTypeFrame), string(miro.ItemTypeAppCard), string(miro.ItemTypeEmbed),
	}
}
