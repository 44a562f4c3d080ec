package freq

import "sort"

// Row is one distinct identifier and the number of times it occurred.
type Row struct {
	ID    string
	Count int
}

// Counter accumulates identifier occurrences. Identifiers are compared
// byte for byte; no trimming or case folding is applied.
type Counter struct {
	counts map[string]int
	order  []string // first-seen order, used as the tie-break
	total  int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add records one occurrence of id.
func (c *Counter) Add(id string) {
	c.AddN(id, 1)
}

// AddN records n occurrences of id. Non-positive n is ignored.
func (c *Counter) AddN(id string, n int) {
	if n <= 0 {
		return
	}
	if _, ok := c.counts[id]; !ok {
		c.order = append(c.order, id)
	}
	c.counts[id] += n
	c.total += n
}

// Total returns the number of occurrences recorded.
func (c *Counter) Total() int { return c.total }

// Distinct returns the number of distinct identifiers.
func (c *Counter) Distinct() int { return len(c.order) }

// Rows returns the frequency table ordered by descending count.
// Equal counts keep first-seen order.
func (c *Counter) Rows() []Row {
	rows := make([]Row, 0, len(c.order))
	for _, id := range c.order {
		rows = append(rows, Row{ID: id, Count: c.counts[id]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// Count builds the frequency table for ids in one call.
func Count(ids []string) []Row {
	c := NewCounter()
	for _, id := range ids {
		c.Add(id)
	}
	return c.Rows()
}

// Unique returns the distinct identifiers of ids in first-seen order.
func Unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
