package persona

import (
	"errors"
	"strings"
	"testing"
)

func TestCatalogIntegrity(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range List() {
		if p.ID == "" {
			t.Errorf("persona %q has empty ID", p.Name)
		}
		if seen[p.ID] {
			t.Errorf("duplicate persona ID %q", p.ID)
		}
		seen[p.ID] = true

		if p.Name == "" || p.Role == "" || p.Category == "" {
			t.Errorf("persona %s is missing identity fields: %+v", p.ID, p)
		}
		switch p.Voice {
		case VoicePuck, VoiceCharon, VoiceKore, VoiceFenrir, VoiceZephyr:
		default:
			t.Errorf("persona %s has unknown voice %q", p.ID, p.Voice)
		}
		if len(p.Traits) < 2 {
			t.Errorf("persona %s has too few traits", p.ID)
		}
		if len(p.ContextKeys) == 0 {
			t.Errorf("persona %s has no context keys", p.ID)
		}
		if !strings.Contains(p.Instruction, "update_context") {
			t.Errorf("persona %s instruction does not mention the context tool", p.ID)
		}
		if !strings.Contains(p.Instruction, p.Name) {
			t.Errorf("persona %s instruction does not name the persona", p.ID)
		}
	}
	if len(seen) < 40 {
		t.Errorf("expected a full catalog, got %d personas", len(seen))
	}
}

func TestGet(t *testing.T) {
	p, err := Get("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Elara" {
		t.Errorf("expected Elara, got %s", p.Name)
	}

	if _, err := Get("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListReturnsCopy(t *testing.T) {
	first := List()
	first[0].Name = "mutated"
	if List()[0].Name == "mutated" {
		t.Error("List must not expose the underlying catalog")
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) == 0 {
		t.Fatal("expected categories")
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Errorf("categories not sorted: %q before %q", cats[i-1], cats[i])
		}
	}
	for _, want := range []string{"Medical", "Technology", "Hospitality"} {
		found := false
		for _, c := range cats {
			if c == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected category %q", want)
		}
	}
}

func TestByCategory(t *testing.T) {
	medical := ByCategory("Medical")
	if len(medical) != 5 {
		t.Errorf("expected 5 medical personas, got %d", len(medical))
	}
	for _, p := range medical {
		if p.Category != "Medical" {
			t.Errorf("expected Medical, got %s", p.Category)
		}
	}
	if got := ByCategory("medical"); len(got) != len(medical) {
		t.Errorf("expected case-insensitive match, got %d", len(got))
	}
	if got := ByCategory("no-such-category"); len(got) != 0 {
		t.Errorf("expected no personas, got %d", len(got))
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"by name", "elara", 1},
		{"by role fragment", "planner", 2}, // event and wedding planners
		{"by category", "utilities", 2},
		{"no match", "zzzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Search(tt.query); len(got) != tt.want {
				t.Errorf("expected %d results, got %d", tt.want, len(got))
			}
		})
	}

	if got := Search("  "); len(got) != len(List()) {
		t.Errorf("expected blank query to match everything, got %d", len(got))
	}
}
