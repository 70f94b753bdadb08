package sequence

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToIndex(t *testing.T) {
	seq := []string{"A", "B", "C", "D", "E"}

	tests := []struct {
		name     string
		src, dst int
		want     []string
	}{
		{"forward two", 0, 2, []string{"B", "C", "A", "D", "E"}},
		{"forward to end", 0, 4, []string{"B", "C", "D", "E", "A"}},
		{"backward to start", 4, 0, []string{"E", "A", "B", "C", "D"}},
		{"backward one", 3, 2, []string{"A", "B", "D", "C", "E"}},
		{"same index", 2, 2, []string{"A", "B", "C", "D", "E"}},
		{"src out of range", 7, 1, []string{"A", "B", "C", "D", "E"}},
		{"dst out of range", 1, -1, []string{"A", "B", "C", "D", "E"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveToIndex(seq, tt.src, tt.dst)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"A", "B", "C", "D", "E"}, seq, "input must not be mutated")
		})
	}
}

func TestMoveToIndex_RoundTripRestoresOrder(t *testing.T) {
	seq := []int{10, 11, 12, 13, 14, 15}
	for i := range seq {
		for j := range seq {
			moved := MoveToIndex(seq, i, j)
			require.Equal(t, seq[i], moved[j], "element %d should land at %d", i, j)
			assert.Equal(t, seq, MoveToIndex(moved, j, i), "round trip %d -> %d", i, j)
		}
	}
}

func TestMoveToIndex_PreservesMembership(t *testing.T) {
	seq := []string{"a", "b", "b", "c", "d"}
	want := slices.Clone(seq)
	slices.Sort(want)

	for i := range seq {
		for j := range seq {
			got := MoveToIndex(seq, i, j)
			require.Len(t, got, len(seq))
			slices.Sort(got)
			assert.Equal(t, want, got)
		}
	}
}
