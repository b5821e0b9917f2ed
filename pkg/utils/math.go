package utils

import "math"

// NormalizeL2 scales the vector in place to unit length. A zero vector is
// left as is so empty inputs embed to all zeros rather than NaN.
func NormalizeL2(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] *= inv
	}
}
