package generic

import "github.com/cwbudde/algo-qnn/internal/requant"

// passRows is the number of rows the multipass kernel folds into its buffer
// per pass. It matches the row tile of the pooling parameters.
const passRows = 7

// GAvgPoolUp sums all m rows of each of n channels and requantizes. It has no
// restriction on m or n and serves both single-pass slots.
func GAvgPoolUp(m, n int, input []uint8, inputStride int, output []uint8, q *requant.Params) {
	for c := 0; c < n; c++ {
		var acc int32
		for r := 0; r < m; r++ {
			acc += int32(input[r*inputStride+c])
		}
		output[c] = q.Requantize(acc)
	}
}

// GAvgPoolMp sums m rows in passes of passRows rows through buffer.
func GAvgPoolMp(m, n int, input []uint8, inputStride int, buffer []int32, output []uint8, q *requant.Params) {
	acc := buffer[:n]
	clear(acc)

	for r0 := 0; r0 < m; r0 += passRows {
		r1 := min(r0+passRows, m)
		for r := r0; r < r1; r++ {
			row := input[r*inputStride : r*inputStride+n]
			for c, x := range row {
				acc[c] += int32(x)
			}
		}
	}

	for c, sum := range acc {
		output[c] = q.Requantize(sum)
	}
}
