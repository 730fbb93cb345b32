package matching

import "math"

// SemanticScore is the cosine similarity of two embeddings clipped to [0,1].
// ok is false when either vector is missing, the lengths differ, or a vector has zero norm.
func SemanticScore(a, b []float32) (score float64, ok bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, false
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) || sim < 0 {
		return 0, true
	}
	if sim > 1 {
		sim = 1
	}
	return sim, true
}
