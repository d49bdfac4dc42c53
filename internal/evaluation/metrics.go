package evaluation

// RecallAtK computes Recall@K: the fraction of relevant items found in the top-K retrieved results.
// Returns 0.0 if relevant is empty.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}

	relevantSet := toSet(relevant)
	found := 0
	for _, r := range topK(retrieved, k) {
		if _, ok := relevantSet[r]; ok {
			found++
		}
	}

	return float64(found) / float64(len(relevantSet))
}

// MRRAtK computes the reciprocal rank of the first relevant item in the
// top-K retrieved results. Returns 0.0 if none is found.
func MRRAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 || len(retrieved) == 0 {
		return 0.0
	}

	relevantSet := toSet(relevant)
	for i, r := range topK(retrieved, k) {
		if _, ok := relevantSet[r]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

// PrecisionAtK is the share of the top-K retrieved results that are relevant.
func PrecisionAtK(relevant, retrieved []string, k int) float64 {
	top := topK(retrieved, k)
	if len(top) == 0 {
		return 0.0
	}

	relevantSet := toSet(relevant)
	hits := 0
	for _, r := range top {
		if _, ok := relevantSet[r]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(top))
}

func topK(items []string, k int) []string {
	if k >= 0 && k < len(items) {
		return items[:k]
	}
	return items
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
