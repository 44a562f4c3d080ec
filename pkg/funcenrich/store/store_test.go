package store

import (
	"reflect"
	"testing"
)

func TestUniqueStrings(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"K1", "K2", "K1"}, []string{"K1", "K2"}},
		{[]string{" K1", "K1 ", "", "  "}, []string{"K1"}},
		{[]string{"K3", "K2", "K1"}, []string{"K3", "K2", "K1"}},
	}
	for _, tt := range tests {
		if got := UniqueStrings(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("UniqueStrings(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
