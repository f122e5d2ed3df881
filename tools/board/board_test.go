package board

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/KamdynS/go-miro-mcp/miro"
	"github.com/KamdynS/go-miro-mcp/tools"
)

type fakeAPI struct {
	boards []miro.Board
	items  []miro.Item
	err    error

	calls     int
	lastBoard string
	lastNote  miro.StickyNote
	lastShape miro.Shape
	lastBulk  []miro.ItemSpec
	lastType  miro.ItemType
}

func (f *fakeAPI) ListBoards(ctx context.Context) ([]miro.Board, error) {
	f.calls++
	return f.boards, f.err
}

func (f *fakeAPI) GetBoard(ctx context.Context, boardID string) (*miro.Board, error) {
	f.calls++
	for _, b := range f.boards {
		if b.ID == boardID {
			return &b, nil
		}
	}
	return nil, &miro.TransportError{StatusCode: 404}
}

func (f *fakeAPI) ListItems(ctx context.Context, boardID string, filter miro.ItemFilter) ([]miro.Item, error) {
	f.calls++
	f.lastBoard = boardID
	f.lastType = filter.Type
	return f.items, f.err
}

func (f *fakeAPI) ListFrames(ctx context.Context, boardID string) ([]miro.Item, error) {
	f.calls++
	var out []miro.Item
	for _, it := range f.items {
		if it.Type == miro.ItemTypeFrame {
			out = append(out, it)
		}
	}
	return out, f.err
}

func (f *fakeAPI) ListItemsInFrame(ctx context.Context, boardID, frameID string) ([]miro.Item, error) {
	f.calls++
	var out []miro.Item
	for _, it := range f.items {
		if it.ParentID() == frameID {
			out = append(out, it)
		}
	}
	return out, f.err
}

func (f *fakeAPI) CreateStickyNote(ctx context.Context, boardID string, note miro.StickyNote) (*miro.Item, error) {
	f.calls++
	f.lastBoard = boardID
	f.lastNote = note
	if f.err != nil {
		return nil, f.err
	}
	return &miro.Item{ID: "3458764517517852417", Type: miro.ItemTypeStickyNote}, nil
}

func (f *fakeAPI) CreateShape(ctx context.Context, boardID string, shape miro.Shape) (*miro.Item, error) {
	f.calls++
	f.lastShape = shape
	if f.err != nil {
		return nil, f.err
	}
	return &miro.Item{ID: "shape-1", Type: miro.ItemTypeShape}, nil
}

func (f *fakeAPI) BulkCreate(ctx context.Context, boardID string, specs []miro.ItemSpec) ([]miro.Item, error) {
	f.calls++
	f.lastBulk = specs
	if f.err != nil {
		return nil, f.err
	}
	out := make([]miro.Item, len(specs))
	for i, s := range specs {
		out[i] = miro.Item{ID: "bulk-" + string(rune('a'+i)), Type: s.Type}
	}
	return out, nil
}

func newTestRegistry(t *testing.T, api API) *tools.DefaultRegistry {
	t.Helper()
	reg := tools.NewRegistry()
	if err := Register(reg, api, nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func TestCatalogNames(t *testing.T) {
	reg := newTestRegistry(t, &fakeAPI{})
	want := []string{
		OpBulkCreateItems, OpCreateShape, OpCreateStickyNote, OpGetBoardItems,
		OpGetFrames, OpGetItemsInFrame, OpListBoards,
	}
	got := reg.List()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
	for _, d := range reg.Describe() {
		if d.Schema["type"] != "object" {
			t.Fatalf("%s schema is not an object", d.Name)
		}
	}
}

func TestListBoardsFormatsLines(t *testing.T) {
	api := &fakeAPI{boards: []miro.Board{{ID: "b1", Name: "Roadmap"}, {ID: "b2", Name: "Retro"}}}
	out, err := newTestRegistry(t, api).Execute(context.Background(), OpListBoards, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "Board ID: b1, Name: Roadmap\nBoard ID: b2, Name: Retro"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestCreateStickyNoteDefaults(t *testing.T) {
	api := &fakeAPI{}
	out, err := newTestRegistry(t, api).Execute(context.Background(), OpCreateStickyNote, tools.Args{
		"boardId": "b1",
		"content": "hello",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.lastNote.Color != "yellow" {
		t.Fatalf("color = %q", api.lastNote.Color)
	}
	if p := api.lastNote.Position; p == nil || p.X != 0 || p.Y != 0 {
		t.Fatalf("position = %+v", p)
	}
	if !strings.Contains(out, "3458764517517852417") {
		t.Fatalf("confirmation %q lacks item id", out)
	}
}

func TestCreateStickyNoteRejectsUnknownColor(t *testing.T) {
	api := &fakeAPI{}
	_, err := newTestRegistry(t, api).Execute(context.Background(), OpCreateStickyNote, tools.Args{
		"boardId": "b1", "content": "x", "color": "mauve",
	})
	var ve *miro.ValidationError
	if !errors.As(err, &ve) || ve.Field != "color" {
		t.Fatalf("expected color validation error, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no api calls, got %d", api.calls)
	}
}

func TestCreateStickyNoteSanitizesContent(t *testing.T) {
	api := &fakeAPI{}
	_, err := newTestRegistry(t, api).Execute(context.Background(), OpCreateStickyNote, tools.Args{
		"boardId": "b1", "content": `<p>ok</p><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.lastNote.Content != "<p>ok</p>" {
		t.Fatalf("content = %q", api.lastNote.Content)
	}

	_, err = newTestRegistry(t, api).Execute(context.Background(), OpCreateStickyNote, tools.Args{
		"boardId": "b1", "content": `Q&A: it's "done"`,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.lastNote.Content != `Q&A: it's "done"` {
		t.Fatalf("plain content = %q", api.lastNote.Content)
	}
}

func TestBulkCreateBounds(t *testing.T) {
	items := func(n int) []interface{} {
		out := make([]interface{}, n)
		for i := range out {
			out[i] = map[string]interface{}{"type": "sticky_note", "data": map[string]interface{}{"content": "n"}}
		}
		return out
	}

	for _, n := range []int{0, 21} {
		api := &fakeAPI{}
		_, err := newTestRegistry(t, api).Execute(context.Background(), OpBulkCreateItems, tools.Args{
			"boardId": "b1", "items": items(n),
		})
		if !miro.IsValidation(err) {
			t.Fatalf("n=%d: expected validation error, got %v", n, err)
		}
		if api.calls != 0 {
			t.Fatalf("n=%d: expected no api calls, got %d", n, api.calls)
		}
	}

	for _, n := range []int{1, 20} {
		api := &fakeAPI{}
		out, err := newTestRegistry(t, api).Execute(context.Background(), OpBulkCreateItems, tools.Args{
			"boardId": "b1", "items": items(n),
		})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if api.calls != 1 || len(api.lastBulk) != n {
			t.Fatalf("n=%d: calls=%d specs=%d", n, api.calls, len(api.lastBulk))
		}
		if !strings.HasPrefix(out, "Created ") || !strings.Contains(out, "bulk-a") {
			t.Fatalf("n=%d: confirmation %q", n, out)
		}
	}
}

func TestBulkCreateUnknownItemType(t *testing.T) {
	api := &fakeAPI{}
	_, err := newTestRegistry(t, api).Execute(context.Background(), OpBulkCreateItems, tools.Args{
		"boardId": "b1",
		"items":   []interface{}{map[string]interface{}{"type": "sticky_note"}, map[string]interface{}{"type": "hologram"}},
	})
	var ve *miro.ValidationError
	if !errors.As(err, &ve) || ve.Field != "items[1].type" {
		t.Fatalf("expected items[1].type validation error, got %v", err)
	}
}

func TestCreateShapeDefaultsAndStyle(t *testing.T) {
	api := &fakeAPI{}
	out, err := newTestRegistry(t, api).Execute(context.Background(), OpCreateShape, tools.Args{
		"boardId": "b1",
		"content": "Start",
		"style": map[string]interface{}{
			"fillColor":   "#FFF",
			"borderWidth": 2,
			"borderStyle": "dashed",
		},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.lastShape.Kind != "rectangle" {
		t.Fatalf("kind = %q", api.lastShape.Kind)
	}
	if api.lastShape.Style["fillColor"] != "#ffffff" {
		t.Fatalf("fillColor = %v", api.lastShape.Style["fillColor"])
	}
	if api.lastShape.Style["borderWidth"] != "2" || api.lastShape.Style["borderStyle"] != "dashed" {
		t.Fatalf("style = %v", api.lastShape.Style)
	}
	if out != "Created rectangle shape shape-1 on board b1" {
		t.Fatalf("confirmation %q", out)
	}
}

func TestCreateShapeRangeChecks(t *testing.T) {
	cases := []struct {
		style map[string]interface{}
		field string
	}{
		{map[string]interface{}{"fillOpacity": 1.5}, "style.fillOpacity"},
		{map[string]interface{}{"borderWidth": 0.5}, "style.borderWidth"},
		{map[string]interface{}{"fontSize": 300}, "style.fontSize"},
		{map[string]interface{}{"borderStyle": "wavy"}, "style.borderStyle"},
		{map[string]interface{}{"fontFamily": "comic_sans"}, "style.fontFamily"},
		{map[string]interface{}{"borderColor": "blue-ish"}, "style.borderColor"},
	}
	for _, tc := range cases {
		api := &fakeAPI{}
		_, err := newTestRegistry(t, api).Execute(context.Background(), OpCreateShape, tools.Args{
			"boardId": "b1", "style": tc.style,
		})
		var ve *miro.ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("%v: expected %s error, got %v", tc.style, tc.field, err)
		}
		if api.calls != 0 {
			t.Fatalf("%v: expected no api calls", tc.style)
		}
	}
}

func TestCreateShapeUnknownKind(t *testing.T) {
	api := &fakeAPI{}
	_, err := newTestRegistry(t, api).Execute(context.Background(), OpCreateShape, tools.Args{
		"boardId": "b1", "shape": "blob",
	})
	if !miro.IsValidation(err) || api.calls != 0 {
		t.Fatalf("expected validation error without calls, got %v (calls=%d)", err, api.calls)
	}
}

func frameFixture() []miro.Item {
	return []miro.Item{
		{ID: "F1", Type: miro.ItemTypeFrame},
		{ID: "a", Type: miro.ItemTypeStickyNote, Parent: &miro.ParentRef{ID: "F1"}},
		{ID: "b", Type: miro.ItemTypeShape, Parent: &miro.ParentRef{ID: "F1"}},
		{ID: "c", Type: miro.ItemTypeText, Parent: &miro.ParentRef{ID: "F2"}},
	}
}

func TestGetItemsInFrame(t *testing.T) {
	api := &fakeAPI{items: frameFixture()}
	out, err := newTestRegistry(t, api).Execute(context.Background(), OpGetItemsInFrame, tools.Args{
		"boardId": "b1", "frameId": "F1",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d: %s", len(got), out)
	}
}

func TestGetFramesRequiresBoard(t *testing.T) {
	api := &fakeAPI{items: frameFixture()}
	_, err := newTestRegistry(t, api).Execute(context.Background(), OpGetFrames, tools.Args{})
	var ve *miro.ValidationError
	if !errors.As(err, &ve) || ve.Field != "boardId" {
		t.Fatalf("expected boardId error, got %v", err)
	}
}

func TestGetBoardItemsPassesTypeFilter(t *testing.T) {
	api := &fakeAPI{items: frameFixture()}
	if _, err := newTestRegistry(t, api).Execute(context.Background(), OpGetBoardItems, tools.Args{
		"boardId": "b1", "type": "frame",
	}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if api.lastType != miro.ItemTypeFrame {
		t.Fatalf("type filter = %q", api.lastType)
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	api := &fakeAPI{err: &miro.TransportError{Method: "GET", Path: "/boards", StatusCode: 401, Message: "token expired"}}
	_, err := newTestRegistry(t, api).Execute(context.Background(), OpListBoards, nil)
	if !errors.Is(err, miro.ErrUnauthorized) || !strings.Contains(err.Error(), "token expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBoardResource(t *testing.T) {
	api := &fakeAPI{items: frameFixture(), boards: []miro.Board{{ID: "b1", Name: "Roadmap"}}}
	r := NewBoardResource(api)

	out, err := r.Read(context.Background(), "miro://board/b1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if api.lastBoard != "b1" || !strings.Contains(out, `"F1"`) {
		t.Fatalf("unexpected read: board=%s out=%s", api.lastBoard, out)
	}
	if _, err := r.Read(context.Background(), "board/b1"); err != nil {
		t.Fatalf("bare uri: %v", err)
	}
	for _, bad := range []string{"miro://board/", "miro://frames/b1", "board/b1/items", "miro://board/%zz"} {
		if _, err := r.Read(context.Background(), bad); !miro.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", bad, err)
		}
	}
	if r.Name(context.Background(), "b1") != "Roadmap" || r.Name(context.Background(), "zz") != "zz" {
		t.Fatalf("resource name lookup")
	}
	boards, err := r.Boards(context.Background())
	if err != nil || len(boards) != 1 || boards[0].ID != "b1" {
		t.Fatalf("boards: %v %+v", err, boards)
	}
}

func TestBoardURIRoundTrip(t *testing.T) {
	for _, id := range []string{"uXjVOD6LSME=", "a b", "50%"} {
		uri := BoardURI(id)
		got, err := ParseBoardURI(uri)
		if err != nil || got != id {
			t.Fatalf("%q: uri %s parsed to %q, %v", id, uri, got, err)
		}
	}
	if BoardURI("b1") != "miro://board/b1" {
		t.Fatalf("unexpected uri %s", BoardURI("b1"))
	}
}
