// Package sequence reorders ordered slices without mutating them.
package sequence

// MoveToIndex returns a copy of seq with the element at src relocated so the
// elements between src and dst shift one step toward the vacated slot.
//
// Moving backwards removes the element first and inserts it at dst. Moving
// forwards inserts a copy at dst+1 and then removes the original, so the
// element ends up at dst. Indices outside seq leave the order unchanged.
func MoveToIndex[T any](seq []T, src, dst int) []T {
	out := make([]T, len(seq))
	copy(out, seq)

	if src < 0 || src >= len(seq) || dst < 0 || dst >= len(seq) || src == dst {
		return out
	}

	item := seq[src]
	if dst < src {
		out = remove(out, src)
		return insert(out, dst, item)
	}
	out = insert(out, dst+1, item)
	return remove(out, src)
}

func insert[T any](s []T, at int, v T) []T {
	s = append(s, v)
	copy(s[at+1:], s[at:len(s)-1])
	s[at] = v
	return s
}

func remove[T any](s []T, at int) []T {
	copy(s[at:], s[at+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
