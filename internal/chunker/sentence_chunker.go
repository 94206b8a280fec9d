// ABOUTME: Sentence-based greedy chunker bounding chunks by a max character length
// ABOUTME: Splits on terminal punctuation and never drops trailing content
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/harper/docchat/internal/models"
)

// DefaultMaxLength is the chunk size used when none is configured.
const DefaultMaxLength = 500

// Chunker splits raw text into ordered chunks no longer than maxLength
// characters, accumulating whole sentences greedily.
type Chunker struct {
	maxLength int
}

// New creates a Chunker. A non-positive maxLength falls back to
// DefaultMaxLength.
func New(maxLength int) *Chunker {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Chunker{maxLength: maxLength}
}

// MaxLength returns the configured chunk size bound.
func (c *Chunker) MaxLength() int {
	return c.maxLength
}

// Split chunks text into ordered, contiguous spans. Sentences are
// accumulated into a buffer; when the next sentence would push the buffer
// past maxLength, the buffer is flushed as a chunk and the sentence starts
// a new one. A single sentence longer than maxLength is emitted whole as
// its own oversized chunk: truncating or re-splitting it would silently
// lose content, so we trade the strict size guarantee for completeness.
// Empty input yields no chunks; no returned chunk is empty.
func (c *Chunker) Split(sourceID, text string) []models.Chunk {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []models.Chunk
	var buf string

	flush := func() {
		if buf == "" {
			return
		}
		chunks = append(chunks, models.Chunk{
			SourceID: sourceID,
			Index:    len(chunks),
			Text:     buf,
		})
		buf = ""
	}

	for _, sentence := range sentences {
		candidate := sentence
		if buf != "" {
			candidate = buf + " " + sentence
		}
		if utf8.RuneCountInString(candidate) > c.maxLength && buf != "" {
			flush()
			buf = sentence
			continue
		}
		buf = candidate
	}
	flush()

	return chunks
}

// splitSentences segments text into sentence-like units on terminal
// punctuation. A run of terminal punctuation ("Really?!") stays with its
// sentence. Text with no terminal punctuation at all, and any trailing
// fragment after the last terminator, are kept as sentences of their own.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if !isTerminal(r) {
			continue
		}
		if i+1 < len(runes) && isTerminal(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
