// ABOUTME: Vector store backends implementing the pipeline's VectorStore capability
// ABOUTME: Shared cosine similarity and dimension pinning helpers
package vectorstore

import (
	"fmt"
	"math"

	"github.com/harper/docchat/internal/models"
)

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// checkDimensions verifies that every entry's vector matches the pinned
// dimension. A dimension of 0 pins to the first entry's vector: mixing
// embedding models in one store would make similarity scores meaningless.
func checkDimensions(entries []models.IndexedEntry, pinned int) (int, error) {
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return 0, fmt.Errorf("entry %s has an empty vector", e.ID)
		}
		if pinned == 0 {
			pinned = len(e.Vector)
		}
		if len(e.Vector) != pinned {
			return 0, fmt.Errorf("entry %s has dimension %d, store is pinned to %d",
				e.ID, len(e.Vector), pinned)
		}
	}
	return pinned, nil
}
