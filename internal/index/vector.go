package index

import "math"

// SparseVector is a vector over the vocabulary space holding only non-zero
// components. Indices are strictly ascending; Values[i] belongs to Indices[i].
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Dot returns the inner product of v and o. Components are combined by a
// merge over the sorted indices, so the summation order is fixed.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// IsZero reports whether v has no non-zero component.
func (v SparseVector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine returns the cosine similarity of a and b, defined as 0 when either
// is the zero vector. The result is clamped to [0, 1].
func Cosine(a, b SparseVector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return min(1, max(0, a.Dot(b)/(na*nb)))
}

// valid reports whether v is well formed for dimension dim.
func (v SparseVector) valid(dim int) bool {
	if v.Dim != dim || len(v.Indices) != len(v.Values) {
		return false
	}
	for k, idx := range v.Indices {
		if idx < 0 || idx >= dim {
			return false
		}
		if k > 0 && idx <= v.Indices[k-1] {
			return false
		}
	}
	return true
}
