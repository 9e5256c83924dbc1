package tfidf

import "math"

// Vector is a sparse term vector. Indices are vocabulary columns in strictly
// ascending order; Weights holds the matching non-negative weights.
type Vector struct {
	Indices []int
	Weights []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int { return len(v.Indices) }

// IsZero reports whether the vector has no non-zero entries.
func (v Vector) IsZero() bool { return len(v.Indices) == 0 }

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of two vectors.
// Terms are summed in ascending column order so Dot(a, b) == Dot(b, a) exactly.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Weights[i] * o.Weights[j]
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

// Weight returns the weight stored for column idx, or 0.
func (v Vector) Weight(idx int) float64 {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case v.Indices[mid] == idx:
			return v.Weights[mid]
		case v.Indices[mid] < idx:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// Equal reports whether two vectors hold identical entries.
func (v Vector) Equal(o Vector) bool {
	if len(v.Indices) != len(o.Indices) {
		return false
	}
	for i := range v.Indices {
		if v.Indices[i] != o.Indices[i] || v.Weights[i] != o.Weights[i] {
			return false
		}
	}
	return true
}

func (v *Vector) normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for i := range v.Weights {
		v.Weights[i] /= n
	}
}
