package miro

import (
	"encoding/json"
	"fmt"
)

// ItemType tags the kind of a board item.
type ItemType string

const (
	ItemTypeStickyNote ItemType = "sticky_note"
	ItemTypeShape      ItemType = "shape"
	ItemTypeText       ItemType = "text"
	ItemTypeImage      ItemType = "image"
	ItemTypeDocument   ItemType = "document"
	ItemTypeCard       ItemType = "card"
	ItemTypeFrame      ItemType = "frame"
	ItemTypeAppCard    ItemType = "app_card"
	ItemTypeEmbed      ItemType = "embed"
)

// KnownItemType reports whether t is one of the item types the service defines.
func KnownItemType(t ItemType) bool {
	switch t {
	case ItemTypeStickyNote, ItemTypeShape, ItemTypeText, ItemTypeImage, ItemTypeDocument,
		ItemTypeCard, ItemTypeFrame, ItemTypeAppCard, ItemTypeEmbed:
		return true
	}
	return false
}

// ItemData is the type-specific payload of an item. The concrete type is
// selected by the item's type tag; unknown or loosely modeled types decode
// into *GenericData.
type ItemData interface {
	Kind() ItemType
}

type StickyNoteData struct {
	Content string `json:"content"`
	Shape   string `json:"shape,omitempty"`
}

type ShapeData struct {
	Content string `json:"content,omitempty"`
	Shape   string `json:"shape"`
}

type TextData struct {
	Content string `json:"content"`
}

type FrameData struct {
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
	Type   string `json:"type,omitempty"`
}

type CardData struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

type AppCardData struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

type ImageData struct {
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type DocumentData struct {
	Title       string `json:"title,omitempty"`
	DocumentURL string `json:"documentUrl,omitempty"`
}

type EmbedData struct {
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

// GenericData carries the data of an item whose type has no dedicated variant.
type GenericData struct {
	ItemKind ItemType
	Fields   map[string]interface{}
}

func (StickyNoteData) Kind() ItemType { return ItemTypeStickyNote }
func (ShapeData) Kind() ItemType      { return ItemTypeShape }
func (TextData) Kind() ItemType       { return ItemTypeText }
func (FrameData) Kind() ItemType      { return ItemTypeFrame }
func (CardData) Kind() ItemType       { return ItemTypeCard }
func (AppCardData) Kind() ItemType    { return ItemTypeAppCard }
func (ImageData) Kind() ItemType      { return ItemTypeImage }
func (DocumentData) Kind() ItemType   { return ItemTypeDocument }
func (EmbedData) Kind() ItemType      { return ItemTypeEmbed }
func (g GenericData) Kind() ItemType  { return g.ItemKind }

func (g GenericData) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Fields)
}

// Item is any placeable object on a board.
type Item struct {
	ID       string
	Type     ItemType
	Parent   *ParentRef
	Position *Position
	Geometry *Geometry
	Style    Style
	Data     ItemData

	raw json.RawMessage
}

type itemEnvelope struct {
	ID       string          `json:"id"`
	Type     ItemType        `json:"type"`
	Parent   *ParentRef      `json:"parent,omitempty"`
	Position *Position       `json:"position,omitempty"`
	Geometry *Geometry       `json:"geometry,omitempty"`
	Style    Style           `json:"style,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// ParentID returns the id of the containing frame, or "" for top-level items.
func (it Item) ParentID() string {
	if it.Parent == nil {
		return ""
	}
	return it.Parent.ID
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var env itemEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	data, err := decodeItemData(env.Type, env.Data)
	if err != nil {
		return fmt.Errorf("decode %s item %s: %w", env.Type, env.ID, err)
	}
	*it = Item{
		ID:       env.ID,
		Type:     env.Type,
		Parent:   env.Parent,
		Position: env.Position,
		Geometry: env.Geometry,
		Style:    env.Style,
		Data:     data,
		raw:      append(json.RawMessage(nil), b...),
	}
	return nil
}

// MarshalJSON re-emits the document the item was decoded from, so fields the
// variants do not model survive a round trip. Items built in code are encoded
// from their typed fields.
func (it Item) MarshalJSON() ([]byte, error) {
	if len(it.raw) > 0 {
		return it.raw, nil
	}
	env := itemEnvelope{
		ID:       it.ID,
		Type:     it.Type,
		Parent:   it.Parent,
		Position: it.Position,
		Geometry: it.Geometry,
		Style:    it.Style,
	}
	if it.Data != nil {
		data, err := json.Marshal(it.Data)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return json.Marshal(env)
}

func decodeItemData(t ItemType, raw json.RawMessage) (ItemData, error) {
	var target ItemData
	switch t {
	case ItemTypeStickyNote:
		target = &StickyNoteData{}
	case ItemTypeShape:
		target = &ShapeData{}
	case ItemTypeText:
		target = &TextData{}
	case ItemTypeFrame:
		target = &FrameData{}
	case ItemTypeCard:
		target = &CardData{}
	case ItemTypeAppCard:
		target = &AppCardData{}
	case ItemTypeImage:
		target = &ImageData{}
	case ItemTypeDocument:
		target = &DocumentData{}
	case ItemTypeEmbed:
		target = &EmbedData{}
	default:
		g := &GenericData{ItemKind: t}
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &g.Fields); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return target, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return target, nil
}
