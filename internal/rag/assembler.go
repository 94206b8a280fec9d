// ABOUTME: Context assembler that trims ranked retrieval matches into a bounded prompt context
// ABOUTME: Joins match texts best-first with a delimiter, never exceeding the character budget
package rag

import (
	"strings"
	"unicode/utf8"

	"github.com/harper/docchat/internal/models"
)

// ContextDelimiter separates match texts inside an assembled context.
const ContextDelimiter = "\n\n"

// AssembleContext concatenates match texts in the order given (the store
// returns best similarity first; ties keep store order), stopping before
// the accumulated length would exceed budget characters. A first match
// that alone exceeds the budget is included truncated at the budget, so a
// non-empty match list never yields zero context. Returns the assembled
// text and the entry IDs actually included.
func AssembleContext(matches []models.RetrievalMatch, budget int) (string, []string) {
	if budget <= 0 || len(matches) == 0 {
		return "", nil
	}

	var b strings.Builder
	var included []string
	used := 0

	for _, m := range matches {
		if m.Text == "" {
			continue
		}
		textLen := utf8.RuneCountInString(m.Text)

		if used == 0 {
			if textLen > budget {
				b.WriteString(truncateRunes(m.Text, budget))
				included = append(included, m.EntryID)
				break
			}
			b.WriteString(m.Text)
			used = textLen
			included = append(included, m.EntryID)
			continue
		}

		if used+len(ContextDelimiter)+textLen > budget {
			break
		}
		b.WriteString(ContextDelimiter)
		b.WriteString(m.Text)
		used += len(ContextDelimiter) + textLen
		included = append(included, m.EntryID)
	}

	return b.String(), included
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
