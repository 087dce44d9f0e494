package vecstore

import (
	"encoding/binary"
	"math"
)

// vectorToBlob serializes a float32 slice into a little-endian binary blob.
func vectorToBlob(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// blobToVector deserializes a binary blob back to a float32 slice.
func blobToVector(blob []byte) []float32 {
	n := len(blob) / 4
	vec := make([]float32, n)
	for i := 0; i < n; i++ {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec
}

// l2Normalize normalizes a vector in place and returns it. Near-zero
// magnitudes collapse to the zero vector instead of dividing by zero.
func l2Normalize(vec []float32) []float32 {
	var sumSquares float32
	for _, v := range vec {
		sumSquares += v * v
	}
	magnitude := float32(math.Sqrt(float64(sumSquares)))
	if magnitude < 1e-10 {
		for i := range vec {
			vec[i] = 0
		}
		return vec
	}
	invMag := 1.0 / magnitude
	for i := range vec {
		vec[i] *= invMag
	}
	return vec
}

// dotProduct of two vectors. Both sides are L2-normalized at write/query
// time, so this equals cosine similarity.
func dotProduct(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
