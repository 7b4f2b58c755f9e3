package generic

import "github.com/cwbudde/algo-qnn/internal/requant"

// UVAdd adds two quantized vectors element-wise with requantization.
func UVAdd(n int, a, b, y []uint8, q *requant.AddParams) {
	a, b, y = a[:n], b[:n], y[:n]
	for i := range y {
		y[i] = q.Add(a[i], b[i])
	}
}
