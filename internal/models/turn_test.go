// ABOUTME: Tests for ConversationTurn creation
// ABOUTME: Verifies ID generation, role assignment, and timestamps

package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewAssistantTurn(t *testing.T) {
	turn := NewAssistantTurn("The answer is 42.", []string{"entry_a", "entry_b"})

	if turn.Role != RoleAssistant {
		t.Errorf("Role = %q, want %q", turn.Role, RoleAssistant)
	}
	if turn.Content != "The answer is 42." {
		t.Errorf("Content = %q", turn.Content)
	}
	if len(turn.Sources) != 2 {
		t.Errorf("Sources = %v, want 2 entries", turn.Sources)
	}
	if !strings.HasPrefix(turn.TurnID, "turn_") {
		t.Errorf("TurnID = %q, want turn_ prefix", turn.TurnID)
	}
	if time.Since(turn.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v, want recent", turn.Timestamp)
	}
}

func TestNewAssistantTurn_UniqueIDs(t *testing.T) {
	a := NewAssistantTurn("one", nil)
	b := NewAssistantTurn("two", nil)
	if a.TurnID == b.TurnID {
		t.Errorf("expected unique turn IDs, both were %q", a.TurnID)
	}
}

func TestNewIndexedEntry(t *testing.T) {
	chunk := Chunk{SourceID: "doc-1", Index: 3, Text: "Cats are mammals."}
	entry := NewIndexedEntry(chunk, []float64{0.1, 0.2})

	if !strings.HasPrefix(entry.ID, "entry_") {
		t.Errorf("ID = %q, want entry_ prefix", entry.ID)
	}
	if entry.SourceID != "doc-1" || entry.ChunkIndex != 3 {
		t.Errorf("entry metadata = %q/%d, want doc-1/3", entry.SourceID, entry.ChunkIndex)
	}
	if entry.Text != chunk.Text {
		t.Errorf("Text = %q, want %q", entry.Text, chunk.Text)
	}

	other := NewIndexedEntry(chunk, []float64{0.1, 0.2})
	if other.ID == entry.ID {
		t.Error("expected fresh unique IDs for each entry")
	}
}
