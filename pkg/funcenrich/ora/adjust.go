package ora

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
)

// Adjust methods accepted by AdjustFunc (case-insensitive).
const (
	AdjustBH         = "BH"
	AdjustBY         = "BY"
	AdjustBonferroni = "bonferroni"
	AdjustHolm       = "holm"
	AdjustHochberg   = "hochberg"
	AdjustNone       = "none"
)

// Adjuster maps raw p-values to adjusted p-values, index for index.
type Adjuster func(p []float64) []float64

// AdjustFunc returns the multiple-testing correction for method.
// An empty method selects Benjamini-Hochberg.
func AdjustFunc(method string) (Adjuster, error) {
	switch strings.ToLower(method) {
	case "", "bh", "fdr":
		return BenjaminiHochberg, nil
	case "by":
		return BenjaminiYekutieli, nil
	case "bonferroni":
		return Bonferroni, nil
	case "holm":
		return Holm, nil
	case "hochberg":
		return Hochberg, nil
	case "none":
		return func(p []float64) []float64 { return append([]float64(nil), p...) }, nil
	default:
		return nil, fmt.Errorf("%w: unknown adjust method %q", internalerr.ErrInvalidInput, method)
	}
}

// order returns indices of p sorted ascending (desc=false) or descending.
func order(p []float64, desc bool) []int {
	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if desc {
			return p[idx[a]] > p[idx[b]]
		}
		return p[idx[a]] < p[idx[b]]
	})
	return idx
}

// BenjaminiHochberg controls the false discovery rate.
func BenjaminiHochberg(p []float64) []float64 {
	return stepUp(p, 1)
}

// BenjaminiYekutieli is BH under arbitrary dependence.
func BenjaminiYekutieli(p []float64) []float64 {
	var q float64
	for i := 1; i <= len(p); i++ {
		q += 1 / float64(i)
	}
	return stepUp(p, q)
}

// stepUp walks p from largest to smallest keeping the running minimum
// of scale * n/rank * p.
func stepUp(p []float64, scale float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	running := math.Inf(1)
	for pos, i := range order(p, true) {
		rank := n - pos
		v := scale * float64(n) / float64(rank) * p[i]
		running = math.Min(running, v)
		out[i] = math.Min(1, running)
	}
	return out
}

// Bonferroni multiplies every p-value by the number of tests.
func Bonferroni(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = math.Min(1, v*float64(len(p)))
	}
	return out
}

// Holm is the step-down Bonferroni procedure.
func Holm(p []float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	running := 0.0
	for pos, i := range order(p, false) {
		v := float64(n-pos) * p[i]
		running = math.Max(running, v)
		out[i] = math.Min(1, running)
	}
	return out
}

// Hochberg is the step-up counterpart of Holm.
func Hochberg(p []float64) []float64 {
	out := make([]float64, len(p))
	running := math.Inf(1)
	for pos, i := range order(p, true) {
		v := float64(pos+1) * p[i]
		running = math.Min(running, v)
		out[i] = math.Min(1, running)
	}
	return out
}

// QValues estimates Storey q-values using a single lambda of 0.5 for
// the null proportion. With fewer than two p-values it falls back to BH.
func QValues(p []float64) []float64 {
	m := len(p)
	if m < 2 {
		return BenjaminiHochberg(p)
	}

	const lambda = 0.5
	above := 0
	for _, v := range p {
		if v > lambda {
			above++
		}
	}
	pi0 := float64(above) / (float64(m) * (1 - lambda))
	if pi0 > 1 {
		pi0 = 1
	}
	if pi0 == 0 {
		// no p-value above lambda, the estimate is undefined
		pi0 = 1
	}

	bh := BenjaminiHochberg(p)
	out := make([]float64, m)
	for i, v := range bh {
		out[i] = math.Min(1, pi0*v)
	}
	return out
}
