package board

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/KamdynS/go-miro-mcp/miro"
	"github.com/KamdynS/go-miro-mcp/tools"
)

type stickyNoteParams struct {
	BoardID string   `json:"boardId" validate:"required"`
	Content string   `json:"content" validate:"required"`
	Color   string   `json:"color" validate:"omitempty,sticky_color"`
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
}

type shapeStyleParams struct {
	Color             *string  `json:"color" validate:"omitempty,hex_color"`
	FillColor         *string  `json:"fillColor" validate:"omitempty,hex_color"`
	FillOpacity       *float64 `json:"fillOpacity" validate:"omitempty,gte=0,lte=1"`
	FontFamily        *string  `json:"fontFamily" validate:"omitempty,font_family"`
	FontSize          *float64 `json:"fontSize" validate:"omitempty,gte=10,lte=288"`
	TextAlign         *string  `json:"textAlign" validate:"omitempty,oneof=left center right"`
	TextAlignVertical *string  `json:"textAlignVertical" validate:"omitempty,oneof=top middle bottom"`
	BorderColor       *string  `json:"borderColor" validate:"omitempty,hex_color"`
	BorderWidth       *float64 `json:"borderWidth" validate:"omitempty,gte=1,lte=24"`
	BorderOpacity     *float64 `json:"borderOpacity" validate:"omitempty,gte=0,lte=1"`
	BorderStyle       *string  `json:"borderStyle" validate:"omitempty,oneof=normal dotted dashed"`
}

type shapeParams struct {
	BoardID  string            `json:"boardId" validate:"required"`
	Shape    string            `json:"shape" validate:"omitempty,shape_kind"`
	Content  string            `json:"content"`
	Style    *shapeStyleParams `json:"style"`
	Position *miro.Position    `json:"position"`
	Geometry *miro.Geometry    `json:"geometry"`
}

type bulkItemParams struct {
	Type     string                 `json:"type" validate:"required,item_type"`
	Data     map[string]interface{} `json:"data"`
	Style    map[string]interface{} `json:"style"`
	Position *miro.Position         `json:"position"`
	Geometry *miro.Geometry         `json:"geometry"`
	Parent   *miro.ParentRef        `json:"parent"`
}

type bulkParams struct {
	BoardID string           `json:"boardId" validate:"required"`
	Items   []bulkItemParams `json:"items" validate:"required,min=1,max=20,dive"`
}

func (h *handlers) createStickyNote(ctx context.Context, args tools.Args) (string, error) {
	var p stickyNoteParams
	if err := h.validator.Decode(args, &p); err != nil {
		return "", err
	}
	note := miro.StickyNote{
		Content:  h.validator.Sanitize(p.Content),
		Color:    p.Color,
		Position: &miro.Position{X: deref(p.X), Y: deref(p.Y)},
	}
	if note.Color == "" {
		note.Color = miro.DefaultStickyColor
	}

	item, err := h.api.CreateStickyNote(ctx, p.BoardID, note)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created sticky note %s on board %s", item.ID, p.BoardID), nil
}

func (h *handlers) createShape(ctx context.Context, args tools.Args) (string, error) {
	var p shapeParams
	if err := h.validator.Decode(args, &p); err != nil {
		return "", err
	}
	kind := p.Shape
	if kind == "" {
		kind = miro.DefaultShapeKind
	}
	style := p.Style.toStyle()

	geometry := p.Geometry
	if geometry != nil {
		g := *geometry
		if g.Width == 0 {
			g.Width = miro.DefaultShapeSize
		}
		if g.Height == 0 {
			g.Height = miro.DefaultShapeSize
		}
		geometry = &g
	}

	item, err := h.api.CreateShape(ctx, p.BoardID, miro.Shape{
		Kind:     kind,
		Content:  h.validator.Sanitize(p.Content),
		Style:    style,
		Position: p.Position,
		Geometry: geometry,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created %s shape %s on board %s", kind, item.ID, p.BoardID), nil
}

func (h *handlers) bulkCreateItems(ctx context.Context, args tools.Args) (string, error) {
	var p bulkParams
	if err := h.validator.Decode(args, &p); err != nil {
		return "", err
	}

	specs := make([]miro.ItemSpec, 0, len(p.Items))
	for _, it := range p.Items {
		specs = append(specs, miro.ItemSpec{
			Type:     miro.ItemType(it.Type),
			Data:     h.sanitizeData(it.Data),
			Style:    miro.Style(it.Style),
			Position: it.Position,
			Geometry: it.Geometry,
			Parent:   it.Parent,
		})
	}

	created, err := h.api.BulkCreate(ctx, p.BoardID, specs)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(created))
	for _, it := range created {
		ids = append(ids, it.ID)
	}
	return fmt.Sprintf("Created %d items on board %s: %s", len(created), p.BoardID, strings.Join(ids, ", ")), nil
}

// sanitizeData cleans the rich-text fields of a bulk item's data.
func (h *handlers) sanitizeData(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return nil
	}
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok && (k == "content" || k == "description") {
			v = h.validator.Sanitize(s)
		}
		out[k] = v
	}
	return out
}

// toStyle converts validated style parameters into the service's style map.
// Colors are normalized to #rrggbb; numbers are sent as strings.
func (s *shapeStyleParams) toStyle() miro.Style {
	if s == nil {
		return nil
	}
	style := miro.Style{}
	colors := []struct {
		key string
		val *string
	}{
		{"color", s.Color},
		{"fillColor", s.FillColor},
		{"borderColor", s.BorderColor},
	}
	for _, c := range colors {
		if c.val == nil {
			continue
		}
		// hex_color has already accepted the value.
		hex, _ := tools.NormalizeColor(*c.val)
		style[c.key] = hex
	}

	numbers := []struct {
		key string
		val *float64
	}{
		{"fillOpacity", s.FillOpacity},
		{"fontSize", s.FontSize},
		{"borderWidth", s.BorderWidth},
		{"borderOpacity", s.BorderOpacity},
	}
	for _, n := range numbers {
		if n.val != nil {
			style[n.key] = strconv.FormatFloat(*n.val, 'f', -1, 64)
		}
	}

	for key, val := range map[string]*string{
		"fontFamily":        s.FontFamily,
		"textAlign":         s.TextAlign,
		"textAlignVertical": s.TextAlignVertical,
		"borderStyle":       s.BorderStyle,
	} {
		if val != nil {
			style[key] = *val
		}
	}

	if len(style) == 0 {
		return nil
	}
	return style
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
