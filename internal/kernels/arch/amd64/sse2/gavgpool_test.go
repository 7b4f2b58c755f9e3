//go:build (386 || amd64) && !purego

package sse2

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-qnn/internal/kernels/arch/generic"
	"github.com/cwbudde/algo-qnn/internal/requant"
	"github.com/cwbudde/algo-qnn/internal/testutil"
)

func reference(t *testing.T, m, n, stride int, input []uint8, q *requant.Params) []uint8 {
	t.Helper()
	want := make([]uint8, n)
	generic.GAvgPoolUp(m, n, input, stride, want, q)
	return want
}

func TestGAvgPoolUp8xM_SSE2(t *testing.T) {
	for _, m := range []int{1, 2, 7, 8, 16} {
		for n := 1; n < lanes; n++ {
			t.Run(fmt.Sprintf("m=%d_n=%d", m, n), func(t *testing.T) {
				stride := 5 * lanes
				input := testutil.Strided(rows(m, n, uint64(m*lanes+n)), n, stride)
				q := params(t, m)

				got := make([]uint8, n)
				GAvgPoolUp8xM(m, n, input, stride, got, &q)
				testutil.RequireBytesWithin(t, got, reference(t, m, n, stride, input, &q), 0)
			})
		}
	}
}

func TestGAvgPoolUp8x7_SSE2(t *testing.T) {
	for m := 1; m <= passRows; m++ {
		for _, n := range []int{8, 9, 15, 16, 17, 24, 31} {
			t.Run(fmt.Sprintf("m=%d_n=%d", m, n), func(t *testing.T) {
				stride := n + 5
				input := testutil.Strided(rows(m, n, uint64(m*100+n)), n, stride)
				q := params(t, m)

				got := testutil.Fill(testutil.Sentinel, n+3)
				GAvgPoolUp8x7(m, n, input, stride, got, &q)
				testutil.RequireBytesWithin(t, got[:n], reference(t, m, n, stride, input, &q), 0)
				testutil.RequirePadding(t, got, n, len(got))
			})
		}
	}
}

func TestGAvgPoolMp8x7_SSE2(t *testing.T) {
	for _, m := range []int{8, 13, 14, 15, 21, 28} {
		for _, n := range []int{8, 9, 16, 23, 24} {
			t.Run(fmt.Sprintf("m=%d_n=%d", m, n), func(t *testing.T) {
				stride := n + 2
				input := testutil.Strided(rows(m, n, uint64(m*1000+n)), n, stride)
				q := params(t, m)

				buffer := make([]int32, (n+lanes-1)&^(lanes-1))
				got := make([]uint8, n)
				GAvgPoolMp8x7(m, n, input, stride, buffer, got, &q)
				testutil.RequireBytesWithin(t, got, reference(t, m, n, stride, input, &q), 0)
			})
		}
	}
}

func rows(m, n int, seed uint64) [][]uint8 {
	out := make([][]uint8, m)
	for r := range out {
		out[r] = testutil.DeterministicBytes(seed+uint64(r), n)
	}
	return out
}

func params(t *testing.T, m int) requant.Params {
	t.Helper()
	q, err := requant.New(1.5/float64(m), 100, 0, 255)
	if err != nil {
		t.Fatal(err)
	}
	return q
}
