package generic

import (
	"testing"

	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
	"github.com/cwbudde/algo-qnn/internal/requant"
	"github.com/cwbudde/algo-qnn/internal/testutil"
)

const (
	testMR = 4
	testNR = 4
	testK  = 11
)

func testWeights(seed uint64, k, nr int) *registry.PackedWeights {
	bias := make([]int32, nr)
	for j := range bias {
		bias[j] = int32(j*37) - 50
	}
	return &registry.PackedWeights{
		NR:     nr,
		Bias:   bias,
		Kernel: testutil.DeterministicBytes(seed, k*nr),
	}
}

func testConvParams(t *testing.T) requant.ConvParams {
	t.Helper()
	q, err := requant.NewConv(0.5, 0.25, 16, 127, 131, 100, 0, 255)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func naiveGEMM(mr, nr, k int, a []uint8, aStride int, w *registry.PackedWeights, q *requant.ConvParams) []uint8 {
	out := make([]uint8, mr*nr)
	for i := 0; i < mr; i++ {
		for j := 0; j < nr; j++ {
			acc := w.Bias[j]
			for kk := 0; kk < k; kk++ {
				acc += (int32(a[i*aStride+kk]) - q.InputZeroPoint) * (int32(w.Kernel[kk*nr+j]) - q.KernelZeroPoint)
			}
			out[i*nr+j] = q.Output.Requantize(acc)
		}
	}
	return out
}

func TestGEMM(t *testing.T) {
	q := testConvParams(t)
	aStride := testK + 2
	a := testutil.DeterministicBytes(1, (testMR-1)*aStride+testK)
	w := testWeights(2, testK, testNR)

	c := make([]uint8, testMR*testNR)
	GEMM(testMR, testNR, testK, a, aStride, w, c, testNR, &q)
	testutil.RequireBytesWithin(t, c, naiveGEMM(testMR, testNR, testK, a, aStride, w, &q), 0)
}

func TestConvMatchesGEMM(t *testing.T) {
	const (
		kc = 3
		ks = 4
	)
	q := testConvParams(t)
	w := testWeights(5, kc*ks, testNR)

	// Contiguous rows of ks*kc inputs, gathered per kernel position.
	a := testutil.DeterministicBytes(6, testMR*kc*ks)
	indirect := make([][]uint8, ks*testMR)
	for s := 0; s < ks; s++ {
		for i := 0; i < testMR; i++ {
			indirect[s*testMR+i] = a[i*kc*ks+s*kc:]
		}
	}

	got := make([]uint8, testMR*testNR)
	Conv(testMR, testNR, kc, ks, indirect, w, got, testNR, &q)

	want := make([]uint8, testMR*testNR)
	GEMM(testMR, testNR, kc*ks, a, kc*ks, w, want, testNR, &q)
	testutil.RequireBytesWithin(t, got, want, 0)
}

func TestXZPGEMMMatchesGEMM(t *testing.T) {
	q := testConvParams(t)
	a := testutil.DeterministicBytes(7, testMR*testK)
	w := testWeights(8, testK, testNR)

	// Expand (a-izp)(w-kzp) = a*w - kzp*a - izp*w + k*izp*kzp. The last two
	// terms go into the bias, the row term comes from SumRows.
	izp, kzp := q.InputZeroPoint, q.KernelZeroPoint
	bias := make([]int32, testNR)
	for j := range bias {
		var colSum int32
		for kk := 0; kk < testK; kk++ {
			colSum += int32(w.Kernel[kk*testNR+j])
		}
		bias[j] = w.Bias[j] - izp*colSum + int32(testK)*izp*kzp
	}
	xw := &registry.PackedWeights{NR: testNR, Bias: bias, Kernel: w.Kernel}

	sums := make([]int32, testMR)
	SumRows(a, testMR, testK, testK, -kzp, sums)

	got := make([]uint8, testMR*testNR)
	XZPGEMM(testMR, testNR, testK, a, testK, sums, xw, got, testNR, &q.Output)

	testutil.RequireBytesWithin(t, got, naiveGEMM(testMR, testNR, testK, a, testK, w, &q), 0)
}

func TestSumRows(t *testing.T) {
	a := []uint8{
		1, 2, 3, 99,
		4, 5, 6, 99,
	}
	sums := make([]int32, 2)
	SumRows(a, 2, 3, 4, -2, sums)
	if sums[0] != -12 || sums[1] != -30 {
		t.Fatalf("SumRows = %v, want [-12 -30]", sums)
	}
}
