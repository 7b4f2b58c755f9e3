//go:build (arm || arm64) && !purego

package neon

import "github.com/cwbudde/algo-qnn/internal/requant"

const (
	lanes    = 8
	passRows = 7
)

// sum7 widens up to seven rows of eight bytes into 16-bit lanes. Seven
// bytes never exceed 7*255, so the lanes cannot overflow.
func sum7(input []uint8, stride, r0, r1, c int) (s [lanes]uint16) {
	for r := r0; r < r1; r++ {
		p := (*[lanes]uint8)(input[r*stride+c:])
		for i, x := range p {
			s[i] += uint16(x)
		}
	}
	return s
}

func widen(acc []int32, s *[lanes]uint16) {
	a := (*[lanes]int32)(acc)
	for i, v := range s {
		a[i] += int32(v)
	}
}

// GAvgPoolUp8xM reduces any number of rows of fewer than eight channels.
func GAvgPoolUp8xM(m, n int, input []uint8, inputStride int, output []uint8, q *requant.Params) {
	var acc [lanes]int32
	for r := 0; r < m; r++ {
		for c, x := range input[r*inputStride : r*inputStride+n] {
			acc[c] += int32(x)
		}
	}
	for c := 0; c < n; c++ {
		output[c] = q.Requantize(acc[c])
	}
}

// GAvgPoolUp8x7 reduces up to seven rows of at least eight channels. The
// last partial block overlaps the previous one.
func GAvgPoolUp8x7(m, n int, input []uint8, inputStride int, output []uint8, q *requant.Params) {
	var acc [lanes]int32
	for c := 0; c < n; c += lanes {
		c = min(c, n-lanes)
		s := sum7(input, inputStride, 0, m, c)
		clear(acc[:])
		widen(acc[:], &s)
		out := (*[lanes]uint8)(output[c:])
		for i, v := range acc {
			out[i] = q.Requantize(v)
		}
	}
}

// GAvgPoolMp8x7 reduces more than seven rows in passes of seven, widening
// each pass into buffer. buffer must hold n rounded up to eight entries.
func GAvgPoolMp8x7(m, n int, input []uint8, inputStride int, buffer []int32, output []uint8, q *requant.Params) {
	full := n &^ (lanes - 1)
	acc := buffer[:n]
	clear(acc)

	for r0 := 0; r0 < m; r0 += passRows {
		r1 := min(r0+passRows, m)
		for c := 0; c < full; c += lanes {
			s := sum7(input, inputStride, r0, r1, c)
			widen(acc[c:], &s)
		}
		for r := r0; r < r1; r++ {
			for c, x := range input[r*inputStride+full : r*inputStride+n] {
				acc[full+c] += int32(x)
			}
		}
	}

	for c, v := range acc {
		output[c] = q.Requantize(v)
	}
}
