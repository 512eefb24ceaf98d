package session

import (
	"testing"

	"github.com/lumell/parley/pkg/live"
)

func TestAssemblerMergesRoleRuns(t *testing.T) {
	a := NewAssembler()
	a.Append(live.RoleModel, "Hi")
	a.Append(live.RoleModel, "!")
	a.Append(live.RoleModel, "")
	a.EndTurn()
	a.Append(live.RoleModel, "ok")

	msgs := a.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text != "Hi!" || !msgs[0].Final {
		t.Errorf("expected final message %q, got %+v", "Hi!", msgs[0])
	}
	if msgs[1].Text != "ok" || msgs[1].Final {
		t.Errorf("expected open message %q, got %+v", "ok", msgs[1])
	}
	if msgs[0].ID == msgs[1].ID {
		t.Error("expected distinct message IDs")
	}
}

func TestAssemblerRoleChangeStartsNewMessage(t *testing.T) {
	a := NewAssembler()
	a.Append(live.RoleUser, "where to")
	a.Append(live.RoleModel, "Paris")
	a.Append(live.RoleModel, ", of course")

	msgs := a.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != live.RoleUser || msgs[0].Text != "where to" {
		t.Errorf("unexpected user message: %+v", msgs[0])
	}
	if msgs[1].Role != live.RoleModel || msgs[1].Text != "Paris, of course" {
		t.Errorf("unexpected model message: %+v", msgs[1])
	}
}

func TestAssemblerEmptyFragmentsCreateNothing(t *testing.T) {
	a := NewAssembler()
	a.Append(live.RoleModel, "")
	a.EndTurn()
	if got := len(a.Messages()); got != 0 {
		t.Errorf("expected no messages, got %d", got)
	}
}

func TestAssemblerEndTurnIsBoundaryForBothRoles(t *testing.T) {
	a := NewAssembler()
	a.Append(live.RoleUser, "hello")
	a.Append(live.RoleModel, "hey")
	a.EndTurn()
	a.Append(live.RoleUser, "again")

	msgs := a.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if !msgs[0].Final || !msgs[1].Final {
		t.Error("expected earlier messages to be finalized")
	}
	if msgs[2].Final {
		t.Error("expected new message to be open")
	}
}

func TestAssemblerOnUpdate(t *testing.T) {
	a := NewAssembler()
	var updates []Message
	a.OnUpdate(func(m Message) { updates = append(updates, m) })

	a.Append(live.RoleModel, "Hi")
	a.Append(live.RoleModel, "!")
	a.EndTurn()

	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	if updates[1].Text != "Hi!" {
		t.Errorf("expected grown message, got %q", updates[1].Text)
	}
	if !updates[2].Final {
		t.Error("expected final update")
	}
}

func TestAssemblerReset(t *testing.T) {
	a := NewAssembler()
	a.Append(live.RoleUser, "hello")
	a.Reset()
	if got := len(a.Messages()); got != 0 {
		t.Errorf("expected empty transcript, got %d messages", got)
	}
}
