package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KamdynS/go-miro-mcp/tools"
)

func TestClientListAndExecute(t *testing.T) {
	var gotInput string
	mux := http.NewServeMux()
	mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listToolsResp{Tools: []ToolInfo{{Name: "list_boards", Description: "List", Schema: map[string]any{"type": "object"}}}})
	})
	mux.HandleFunc("/tools/get_frames/execute", func(w http.ResponseWriter, r *http.Request) {
		var req execReq
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotInput = req.Input
		_ = json.NewEncoder(w).Encode(execResp{Result: "[]"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/", Timeout: time.Second})
	list, err := c.ListTools(context.Background())
	if err != nil || len(list) != 1 || list[0].Name != "list_boards" {
		t.Fatalf("list: %v %+v", err, list)
	}
	res, err := c.ExecuteTool(context.Background(), "get_frames", tools.Args{"boardId": "b1"})
	if err != nil || res != "[]" {
		t.Fatalf("exec: %v %q", err, res)
	}
	if gotInput != `{"boardId":"b1"}` {
		t.Fatalf("input = %s", gotInput)
	}
}

func TestClientHTTPErrorPaths(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_, _ = w.Write([]byte("bad"))
	})
	mux.HandleFunc("/tools/x/execute", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		_ = json.NewEncoder(w).Encode(errorResp{Error: "invalid boardId: required", Kind: "validation"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	if _, err := c.ListTools(context.Background()); err == nil {
		t.Fatalf("expected list error")
	}
	_, err := c.ExecuteTool(context.Background(), "x", nil)
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if te.StatusCode != 400 || te.Kind != "validation" || te.Message != "invalid boardId: required" {
		t.Fatalf("unexpected tool error %+v", te)
	}
}

func TestClientReadBoard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/resources/board/b1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"s1"}]`))
	})
	mux.HandleFunc("/resources/board/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(errorResp{Error: "board not found", Kind: "transport"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL})
	text, err := c.ReadBoard(context.Background(), "b1")
	if err != nil || text != `[{"id":"s1"}]` {
		t.Fatalf("read: %v %q", err, text)
	}
	if _, err := c.ReadBoard(context.Background(), "gone"); err == nil {
		t.Fatalf("expected error")
	}
}
