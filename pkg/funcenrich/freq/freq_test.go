package freq

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestCountExample(t *testing.T) {
	rows := Count([]string{"K00001", "K00002", "K00001", "K00003", "K00002", "K00001"})
	want := []Row{{"K00001", 3}, {"K00002", 2}, {"K00003", 1}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("got %v, want %v", rows, want)
	}
}

func TestCountEmpty(t *testing.T) {
	if rows := Count(nil); len(rows) != 0 {
		t.Errorf("expected empty table, got %v", rows)
	}
}

func TestCountTiesKeepFirstSeenOrder(t *testing.T) {
	rows := Count([]string{"b", "a", "c", "a", "b", "c", "d"})
	want := []Row{{"b", 2}, {"a", 2}, {"c", 2}, {"d", 1}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("got %v, want %v", rows, want)
	}
}

func TestCountExactEquality(t *testing.T) {
	rows := Count([]string{"K00001", "k00001", "K00001 ", "K00001"})
	if len(rows) != 3 {
		t.Fatalf("expected 3 distinct ids, got %v", rows)
	}
	if rows[0] != (Row{"K00001", 2}) {
		t.Errorf("unexpected top row %v", rows[0])
	}
}

func TestCountInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []string{"K1", "K2", "K3", "K4", "K5", "K6", "K7", "K8"}

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(200)
		ids := make([]string, n)
		expected := make(map[string]int)
		for i := range ids {
			ids[i] = alphabet[rng.Intn(len(alphabet))]
			expected[ids[i]]++
		}

		rows := Count(ids)
		sum := 0
		seen := make(map[string]bool)
		for i, r := range rows {
			if seen[r.ID] {
				t.Fatalf("trial %d: duplicate id %s", trial, r.ID)
			}
			seen[r.ID] = true
			if r.Count != expected[r.ID] {
				t.Fatalf("trial %d: %s count %d, want %d", trial, r.ID, r.Count, expected[r.ID])
			}
			if i > 0 && rows[i-1].Count < r.Count {
				t.Fatalf("trial %d: table not sorted at %d", trial, i)
			}
			sum += r.Count
		}
		if sum != n {
			t.Fatalf("trial %d: counts sum to %d, want %d", trial, sum, n)
		}
		if len(rows) != len(expected) {
			t.Fatalf("trial %d: %d rows, want %d", trial, len(rows), len(expected))
		}
	}
}

func TestCounterAddN(t *testing.T) {
	c := NewCounter()
	c.AddN("x", 3)
	c.AddN("y", 0)
	c.AddN("y", -2)
	c.Add("z")
	if c.Total() != 4 || c.Distinct() != 2 {
		t.Errorf("total=%d distinct=%d", c.Total(), c.Distinct())
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
