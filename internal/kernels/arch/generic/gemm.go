package generic

import (
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
	"github.com/cwbudde/algo-qnn/internal/requant"
)

// GEMM computes an mr x nr tile of requantized products of a (mr rows of k
// inputs) and one packed weight block.
func GEMM(mr, nr, k int, a []uint8, aStride int, w *registry.PackedWeights, c []uint8, cStride int, q *requant.ConvParams) {
	for i := 0; i < mr; i++ {
		row := a[i*aStride : i*aStride+k]
		for j := 0; j < nr; j++ {
			acc := w.Bias[j]
			for kk, x := range row {
				acc += (int32(x) - q.InputZeroPoint) * (int32(w.Kernel[kk*w.NR+j]) - q.KernelZeroPoint)
			}
			c[i*cStride+j] = q.Output.Requantize(acc)
		}
	}
}

// Conv is the indirect variant of GEMM used by convolutions: the input rows
// of kernel position s are gathered through indirectA[s*mr : s*mr+mr].
func Conv(mr, nr, kc, ks int, indirectA [][]uint8, w *registry.PackedWeights, c []uint8, cStride int, q *requant.ConvParams) {
	for i := 0; i < mr; i++ {
		for j := 0; j < nr; j++ {
			acc := w.Bias[j]
			for s := 0; s < ks; s++ {
				px := indirectA[s*mr+i][:kc]
				base := s * kc
				for kk, x := range px {
					acc += (int32(x) - q.InputZeroPoint) * (int32(w.Kernel[(base+kk)*w.NR+j]) - q.KernelZeroPoint)
				}
			}
			c[i*cStride+j] = q.Output.Requantize(acc)
		}
	}
}

// XZPGEMM multiplies raw quantized values; zero-point corrections arrive
// through the packed bias and aSum (see SumRows).
func XZPGEMM(mr, nr, k int, a []uint8, aStride int, aSum []int32, w *registry.PackedWeights, c []uint8, cStride int, q *requant.Params) {
	for i := 0; i < mr; i++ {
		row := a[i*aStride : i*aStride+k]
		for j := 0; j < nr; j++ {
			acc := w.Bias[j] + aSum[i]
			for kk, x := range row {
				acc += int32(x) * int32(w.Kernel[kk*w.NR+j])
			}
			c[i*cStride+j] = q.Requantize(acc)
		}
	}
}

// SumRows computes scaled row sums for XZPGEMM. With multiplier set to the
// negated kernel zero point, sums carry the row term of the zero-point
// expansion.
func SumRows(a []uint8, m, k, stride int, multiplier int32, sums []int32) {
	for i := 0; i < m; i++ {
		var s int32
		for _, x := range a[i*stride : i*stride+k] {
			s += int32(x)
		}
		sums[i] = s * multiplier
	}
}
