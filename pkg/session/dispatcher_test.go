package session

import (
	"testing"

	"github.com/lumell/parley/internal/log"
	"github.com/lumell/parley/pkg/live"
)

func TestDispatcherEveryCallGetsOneResponse(t *testing.T) {
	tests := []struct {
		name   string
		call   live.FunctionCall
		wantOK bool
	}{
		{
			name: "valid update",
			call: live.FunctionCall{
				ID: "c1", Name: UpdateContextTool,
				Args: map[string]any{"key": "Budget", "value": "$2k"},
			},
			wantOK: true,
		},
		{
			name: "unknown key accepted",
			call: live.FunctionCall{
				ID: "c2", Name: UpdateContextTool,
				Args: map[string]any{"key": "Mood", "value": "great"},
			},
			wantOK: true,
		},
		{
			name: "unknown tool",
			call: live.FunctionCall{
				ID: "c3", Name: "launch_rocket",
				Args: map[string]any{"key": "x", "value": "y"},
			},
			wantOK: false,
		},
		{
			name: "missing value",
			call: live.FunctionCall{
				ID: "c4", Name: UpdateContextTool,
				Args: map[string]any{"key": "Budget"},
			},
			wantOK: false,
		},
		{
			name: "non-string key",
			call: live.FunctionCall{
				ID: "c5", Name: UpdateContextTool,
				Args: map[string]any{"key": 42, "value": "y"},
			},
			wantOK: false,
		},
		{
			name: "nil args",
			call: live.FunctionCall{
				ID: "c6", Name: UpdateContextTool,
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewContextStore([]string{"Budget"})
			d := NewDispatcher(store, log.L())
			transport := NewMockTransport()

			d.Dispatch([]live.FunctionCall{tt.call}, transport)

			responses := transport.ToolResponses()
			if len(responses) != 1 {
				t.Fatalf("expected exactly 1 response, got %d", len(responses))
			}
			resp := responses[0]
			if resp.ID != tt.call.ID {
				t.Errorf("expected response for %s, got %s", tt.call.ID, resp.ID)
			}
			if resp.OK != tt.wantOK {
				t.Errorf("expected ok=%v, got ok=%v (%s)", tt.wantOK, resp.OK, resp.Result)
			}
		})
	}
}

func TestDispatcherUpdatesStore(t *testing.T) {
	store := NewContextStore([]string{"Budget", "Dates"})
	d := NewDispatcher(store, log.L())
	transport := NewMockTransport()

	d.Dispatch([]live.FunctionCall{
		{ID: "c1", Name: UpdateContextTool, Args: map[string]any{"key": "Budget", "value": "around $2k"}},
		{ID: "c2", Name: UpdateContextTool, Args: map[string]any{"key": "Dates", "value": "next spring"}},
	}, transport)

	if got := store.Verified(); got != 2 {
		t.Errorf("expected 2 verified fields, got %d", got)
	}
	if got := len(transport.ToolResponses()); got != 2 {
		t.Errorf("expected 2 responses, got %d", got)
	}
}

func TestDispatcherFailedUpdateLeavesStoreUntouched(t *testing.T) {
	store := NewContextStore([]string{"Budget"})
	d := NewDispatcher(store, log.L())
	transport := NewMockTransport()

	d.Dispatch([]live.FunctionCall{
		{ID: "c1", Name: UpdateContextTool, Args: map[string]any{"value": "orphan"}},
	}, transport)

	if got := store.Verified(); got != 0 {
		t.Errorf("expected no verified fields, got %d", got)
	}
}

func TestUpdateContextDeclaration(t *testing.T) {
	decl := UpdateContextDeclaration()
	if decl.Name != UpdateContextTool {
		t.Errorf("expected %s, got %s", UpdateContextTool, decl.Name)
	}
	if decl.Parameters == nil {
		t.Fatal("expected parameters schema")
	}
	for _, required := range []string{"key", "value"} {
		if _, ok := decl.Parameters.Properties[required]; !ok {
			t.Errorf("expected %q property", required)
		}
	}
}
