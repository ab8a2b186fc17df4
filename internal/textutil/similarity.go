package textutil

// CosineSimilarity computes the cosine similarity of two fingerprints.
// Nil or zero-norm fingerprints compare as 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for term, weight := range a.terms {
		if other, ok := b.terms[term]; ok {
			dot += weight * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Similarity compares two texts directly. Shorthand for fingerprinting
// both sides and taking their cosine similarity.
func Similarity(a, b string) float64 {
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b))
}
