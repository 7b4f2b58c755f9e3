//go:build (386 || amd64) && !purego

package sse2

import "github.com/cwbudde/algo-qnn/internal/requant"

const (
	// lanes is the channel tile: eight 16-bit lanes of one XMM register,
	// widened to two registers of 32-bit accumulators.
	lanes = 8

	// passRows is the row tile of the multipass kernel.
	passRows = 7
)

type block [lanes]int32

// addRows accumulates rows [r0, r1) of the eight channels starting at c.
func (acc *block) addRows(input []uint8, stride, r0, r1, c int) {
	for r := r0; r < r1; r++ {
		p := (*[lanes]uint8)(input[r*stride+c:])
		acc[0] += int32(p[0])
		acc[1] += int32(p[1])
		acc[2] += int32(p[2])
		acc[3] += int32(p[3])
		acc[4] += int32(p[4])
		acc[5] += int32(p[5])
		acc[6] += int32(p[6])
		acc[7] += int32(p[7])
	}
}

func (acc *block) store(output []uint8, q *requant.Params) {
	out := (*[lanes]uint8)(output)
	for i, v := range acc {
		out[i] = q.Requantize(v)
	}
}

// GAvgPoolUp8xM reduces any number of rows of fewer than eight channels.
func GAvgPoolUp8xM(m, n int, input []uint8, inputStride int, output []uint8, q *requant.Params) {
	var acc block
	for r := 0; r < m; r++ {
		for c, x := range input[r*inputStride : r*inputStride+n] {
			acc[c] += int32(x)
		}
	}
	for c := 0; c < n; c++ {
		output[c] = q.Requantize(acc[c])
	}
}

// GAvgPoolUp8x7 reduces up to seven rows of at least eight channels. A
// partial last block is recomputed over the final eight channels, so no
// byte outside [0, n) of a row is touched.
func GAvgPoolUp8x7(m, n int, input []uint8, inputStride int, output []uint8, q *requant.Params) {
	c := 0
	for ; c+lanes <= n; c += lanes {
		var acc block
		acc.addRows(input, inputStride, 0, m, c)
		acc.store(output[c:], q)
	}
	if c < n {
		c = n - lanes
		var acc block
		acc.addRows(input, inputStride, 0, m, c)
		acc.store(output[c:], q)
	}
}

// GAvgPoolMp8x7 reduces more than seven rows of at least eight channels in
// passes of seven rows. buffer must hold n rounded up to eight entries.
func GAvgPoolMp8x7(m, n int, input []uint8, inputStride int, buffer []int32, output []uint8, q *requant.Params) {
	full := n &^ (lanes - 1)
	acc := buffer[:n]
	clear(acc)

	for r0 := 0; r0 < m; r0 += passRows {
		r1 := min(r0+passRows, m)
		for c := 0; c < full; c += lanes {
			(*block)(acc[c:]).addRows(input, inputStride, r0, r1, c)
		}
		for r := r0; r < r1; r++ {
			for c, x := range input[r*inputStride+full : r*inputStride+n] {
				acc[full+c] += int32(x)
			}
		}
	}

	for c := 0; c < full; c += lanes {
		(*block)(acc[c:]).store(output[c:], q)
	}
	for c := full; c < n; c++ {
		output[c] = q.Requantize(acc[c])
	}
}
