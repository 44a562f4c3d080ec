package selector

import (
	"sort"

	"github.com/cognicore/funcenrich/pkg/funcenrich/annotate"
)

// Ellipsis is appended to truncated labels.
const Ellipsis = "..."

// MinLabelLen is the smallest label budget Truncate can honour.
const MinLabelLen = len(Ellipsis) + 1

// TopN returns the first min(n, len(rows)) rows. rows must already be
// sorted by the relevant metric; the prefix is returned unchanged.
func TopN[T any](rows []T, n int) []T {
	if n <= 0 {
		return rows[:0:0]
	}
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]T, n)
	copy(out, rows[:n])
	return out
}

// PerCategoryTopN groups rows into BP, CC and MF blocks (in that order),
// sorts each block by descending count and keeps at most n per block.
// Rows without a valid ontology are ignored. Equal counts keep input order.
func PerCategoryTopN(rows []annotate.Row, n int) []annotate.Row {
	if n <= 0 {
		return nil
	}
	blocks := make(map[annotate.Ontology][]annotate.Row, len(annotate.Order))
	for _, r := range rows {
		if !r.Ontology.Valid() {
			continue
		}
		blocks[r.Ontology] = append(blocks[r.Ontology], r)
	}

	var out []annotate.Row
	for _, cat := range annotate.Order {
		block := blocks[cat]
		sort.SliceStable(block, func(i, j int) bool {
			return block[i].Count > block[j].Count
		})
		if len(block) > n {
			block = block[:n]
		}
		out = append(out, block...)
	}
	return out
}

// Truncate shortens s to at most maxLen runes. Longer strings keep their
// first maxLen-3 runes followed by Ellipsis. maxLen below MinLabelLen
// returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen < MinLabelLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len(Ellipsis)]) + Ellipsis
}
