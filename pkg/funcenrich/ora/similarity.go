package ora

// Edge links two enriched pathways that share query genes.
type Edge struct {
	From, To   int // indices into the rows passed to Similarity
	Similarity float64
}

// Jaccard returns |a ∩ b| / |a ∪ b| over distinct elements.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, g := range a {
		set[g] = struct{}{}
	}
	inter := 0
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, g := range b {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := set[g]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// Similarity returns an edge for every pair of rows whose gene sets have
// a Jaccard index of at least cutoff. Edges are ordered by (From, To).
func Similarity(rows []Result, cutoff float64) []Edge {
	var edges []Edge
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			sim := Jaccard(rows[i].GeneIDs, rows[j].GeneIDs)
			if sim > 0 && sim >= cutoff {
				edges = append(edges, Edge{From: i, To: j, Similarity: sim})
			}
		}
	}
	return edges
}
