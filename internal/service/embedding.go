package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding maps recipe text onto a small deterministic vector so
// similar names and descriptions land near each other under L2 distance.
// Dimensions: word count, total letter count, distinct letters.
func GenerateEmbedding(text string) pgvector.Vector {
	lower := strings.ToLower(text)

	words := float32(len(strings.Fields(lower)))
	var letters float32
	seen := make(map[rune]bool)
	for _, r := range lower {
		if r < 'a' || r > 'z' {
			continue
		}
		letters++
		seen[r] = true
	}

	return pgvector.NewVector([]float32{words, letters, float32(len(seen))})
}
