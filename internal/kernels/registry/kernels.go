package registry

import "github.com/cwbudde/algo-qnn/internal/requant"

// PackedWeights is one NR-wide column block of a weight matrix: NR biases
// followed by K rows of NR weights, row-major. Columns past the end of the
// matrix are zero-padded.
type PackedWeights struct {
	NR     int
	Bias   []int32
	Kernel []uint8
}

// DepthwiseWeights holds per-channel biases and a tap-major kernel:
// Kernel[t*Channels+c] is tap t of channel c.
type DepthwiseWeights struct {
	Channels int
	Taps     int
	Bias     []int32
	Kernel   []uint8
}

// GEMMFunc computes an mr x nr output tile:
//
//	c[i*cStride+j] = requant(bias[j] + sum_k (a[i*aStride+k]-izp) * (w[k][j]-kzp))
type GEMMFunc func(mr, nr, k int, a []uint8, aStride int, w *PackedWeights, c []uint8, cStride int, q *requant.ConvParams)

// ConvFunc is the indirect GEMM: for kernel position s and row i, the kc
// input channels are read from indirectA[s*mr+i]. Weights hold ks*kc rows.
type ConvFunc func(mr, nr, kc, ks int, indirectA [][]uint8, w *PackedWeights, c []uint8, cStride int, q *requant.ConvParams)

// XZPGEMMFunc computes a tile without zero-point arithmetic in the inner loop:
// acc = bias[j] + aSum[i] + sum_k a[i][k]*w[k][j]. Zero-point corrections are
// folded into the packed bias and the precomputed row sums.
type XZPGEMMFunc func(mr, nr, k int, a []uint8, aStride int, aSum []int32, w *PackedWeights, c []uint8, cStride int, q *requant.Params)

// SumRowsFunc writes sums[i] = multiplier * sum_k a[i*stride+k] for i < m.
type SumRowsFunc func(a []uint8, m, k, stride int, multiplier int32, sums []int32)

// DWUpFunc computes one output pixel of a depthwise convolution in a single
// pass over all taps.
type DWUpFunc func(channels int, taps [][]uint8, w *DepthwiseWeights, output []uint8, q *requant.ConvParams)

// DWMpFunc computes one output pixel in several passes, keeping partial sums
// in buffer (at least channels entries).
type DWMpFunc func(channels int, taps [][]uint8, w *DepthwiseWeights, buffer []int32, output []uint8, q *requant.ConvParams)

// UVAddFunc adds two quantized vectors element-wise: y[i] = a[i] + b[i].
type UVAddFunc func(n int, a, b, y []uint8, q *requant.AddParams)

// GAvgPoolUpFunc reduces m rows of n channels in one pass:
// output[c] = requant(sum_r input[r*inputStride+c]).
type GAvgPoolUpFunc func(m, n int, input []uint8, inputStride int, output []uint8, q *requant.Params)

// GAvgPoolMpFunc reduces m rows in passes of several rows, keeping partial
// sums in buffer (at least n entries rounded up to the channel tile).
type GAvgPoolMpFunc func(m, n int, input []uint8, inputStride int, buffer []int32, output []uint8, q *requant.Params)

// ZipFunc interleaves k channel planes of n elements (k fixed by the slot):
// y[i*k+j] = x[j*n+i].
type ZipFunc func(n int, x, y []uint8)

// ZipXMFunc interleaves m channel planes of n elements.
type ZipXMFunc func(n, m int, x, y []uint8)
