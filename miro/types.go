package miro

// Board is a whiteboard canvas as reported by the remote service.
type Board struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Position places an item on a board. Coordinates are relative to the board
// center for top-level items and to the parent's top-left corner for items
// inside a frame.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Origin string  `json:"origin,omitempty"`
}

// Geometry is the size and rotation of an item.
type Geometry struct {
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
}

// Style maps style attribute names (fillColor, borderWidth, ...) to values.
type Style map[string]interface{}

// ParentRef points at the frame that contains an item.
type ParentRef struct {
	ID string `json:"id"`
}

// ItemFilter narrows ListItems. Zero fields mean no restriction.
type ItemFilter struct {
	Type     ItemType
	ParentID string
	Limit    int
}

// StickyNote describes a sticky note to create.
type StickyNote struct {
	Content  string
	Color    string
	Position *Position
	Parent   *ParentRef
}

// Shape describes a shape to create.
type Shape struct {
	Kind     string
	Content  string
	Style    Style
	Position *Position
	Geometry *Geometry
	Parent   *ParentRef
}

// ItemSpec is one entry of a bulk create request.
type ItemSpec struct {
	Type     ItemType               `json:"type"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Style    Style                  `json:"style,omitempty"`
	Position *Position              `json:"position,omitempty"`
	Geometry *Geometry              `json:"geometry,omitempty"`
	Parent   *ParentRef             `json:"parent,omitempty"`
}

// createRequest is the body shared by the single-item write endpoints.
type createRequest struct {
	Data     interface{} `json:"data,omitempty"`
	Style    Style       `json:"style,omitempty"`
	Position *Position   `json:"position,omitempty"`
	Geometry *Geometry   `json:"geometry,omitempty"`
	Parent   *ParentRef  `json:"parent,omitempty"`
}

type listResponse[T any] struct {
	Data   []T    `json:"data"`
	Total  int    `json:"total,omitempty"`
	Size   int    `json:"size,omitempty"`
	Cursor string `json:"cursor,omitempty"`
}
