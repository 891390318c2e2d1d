package memory

import "math"

// Composite score weights.
const (
	similarityWeight = 0.7
	diversityWeight  = 0.2
	lengthBonus      = 0.1

	// lengthBonusThreshold is the chunk length, in characters, above which lengthBonus applies.
	lengthBonusThreshold = 200
)

// CosineSimilarity returns dot(a, b) / (|a| * |b|).
// It is 0 when either vector has zero norm, the dimensions differ or the
// result is not finite.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return sim
}

// finite reports whether every component of v is a real number.
func finite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// CompositeScore weighs similarity, diversity and a length bonus.
//
// Diversity is measured against the query (1 - similarity), not between
// retrieved chunks, so the score reduces to 0.5*similarity + 0.2 + bonus.
// The ranking is still monotonic in similarity for equal length bonus.
func CompositeScore(similarity float64, chunkLength int) float64 {
	diversity := 1 - similarity
	bonus := 0.0
	if chunkLength > lengthBonusThreshold {
		bonus = lengthBonus
	}
	return similarityWeight*similarity + diversityWeight*diversity + bonus
}
