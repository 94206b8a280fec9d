// ABOUTME: Tests for context assembly
// ABOUTME: Verifies the budget bound, truncation exception, and stable ordering

package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/harper/docchat/internal/models"
)

func match(id, text string, score float64) models.RetrievalMatch {
	return models.RetrievalMatch{EntryID: id, Text: text, Score: score}
}

func TestAssembleContext_Empty(t *testing.T) {
	text, sources := AssembleContext(nil, 100)
	if text != "" || sources != nil {
		t.Errorf("AssembleContext(nil) = %q, %v, want empty", text, sources)
	}

	text, sources = AssembleContext([]models.RetrievalMatch{}, 100)
	if text != "" || sources != nil {
		t.Errorf("AssembleContext([]) = %q, %v, want empty", text, sources)
	}
}

func TestAssembleContext_ZeroBudget(t *testing.T) {
	text, sources := AssembleContext([]models.RetrievalMatch{match("a", "hello", 1)}, 0)
	if text != "" || sources != nil {
		t.Errorf("budget 0 = %q, %v, want empty", text, sources)
	}
}

func TestAssembleContext_JoinsInOrder(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("a", "first", 0.9),
		match("b", "second", 0.8),
		match("c", "third", 0.7),
	}
	text, sources := AssembleContext(matches, 100)

	want := "first" + ContextDelimiter + "second" + ContextDelimiter + "third"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if len(sources) != 3 || sources[0] != "a" || sources[2] != "c" {
		t.Errorf("sources = %v, want [a b c]", sources)
	}
}

func TestAssembleContext_StopsBeforeBudget(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("a", strings.Repeat("x", 40), 0.9),
		match("b", strings.Repeat("y", 40), 0.8),
		match("c", strings.Repeat("z", 40), 0.7),
	}
	text, sources := AssembleContext(matches, 90)

	if n := utf8.RuneCountInString(text); n > 90 {
		t.Errorf("assembled length = %d, want <= 90", n)
	}
	if len(sources) != 2 {
		t.Errorf("sources = %v, want [a b]", sources)
	}
	if strings.Contains(text, "z") {
		t.Error("third match should not fit in budget")
	}
}

func TestAssembleContext_OversizedFirstMatchTruncated(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("a", strings.Repeat("a", 500), 0.9),
		match("b", "small", 0.8),
	}
	text, sources := AssembleContext(matches, 100)

	if n := utf8.RuneCountInString(text); n != 100 {
		t.Errorf("assembled length = %d, want exactly 100 (truncated)", n)
	}
	if len(sources) != 1 || sources[0] != "a" {
		t.Errorf("sources = %v, want [a] only", sources)
	}
}

func TestAssembleContext_NeverExceedsBudget(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("a", "The quick brown fox.", 0.9),
		match("b", "Jumps over the lazy dog.", 0.8),
		match("c", "Pack my box.", 0.7),
		match("d", "Five dozen liquor jugs.", 0.6),
	}
	for budget := 1; budget <= 120; budget++ {
		text, _ := AssembleContext(matches, budget)
		if n := utf8.RuneCountInString(text); n > budget {
			t.Fatalf("budget %d: assembled length %d exceeds it", budget, n)
		}
	}
}

func TestAssembleContext_SkipsEmptyMatchText(t *testing.T) {
	matches := []models.RetrievalMatch{
		match("a", "", 0.9),
		match("b", "real content", 0.8),
	}
	text, sources := AssembleContext(matches, 100)
	if text != "real content" {
		t.Errorf("text = %q, want %q", text, "real content")
	}
	if len(sources) != 1 || sources[0] != "b" {
		t.Errorf("sources = %v, want [b]", sources)
	}
}
