package generic

import (
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
	"github.com/cwbudde/algo-qnn/internal/requant"
)

// dwPassTaps is the number of taps accumulated per pass by DWMp.
const dwPassTaps = 10

// DWUp computes one depthwise output pixel over all taps in a single pass.
func DWUp(channels int, taps [][]uint8, w *registry.DepthwiseWeights, output []uint8, q *requant.ConvParams) {
	for c := 0; c < channels; c++ {
		acc := w.Bias[c]
		for t := 0; t < w.Taps; t++ {
			acc += (int32(taps[t][c]) - q.InputZeroPoint) * (int32(w.Kernel[t*w.Channels+c]) - q.KernelZeroPoint)
		}
		output[c] = q.Output.Requantize(acc)
	}
}

// DWMp computes one depthwise output pixel in passes of dwPassTaps taps,
// carrying partial sums in buffer.
func DWMp(channels int, taps [][]uint8, w *registry.DepthwiseWeights, buffer []int32, output []uint8, q *requant.ConvParams) {
	acc := buffer[:channels]
	copy(acc, w.Bias[:channels])

	for t0 := 0; t0 < w.Taps; t0 += dwPassTaps {
		t1 := min(t0+dwPassTaps, w.Taps)
		for c := range acc {
			sum := acc[c]
			for t := t0; t < t1; t++ {
				sum += (int32(taps[t][c]) - q.InputZeroPoint) * (int32(w.Kernel[t*w.Channels+c]) - q.KernelZeroPoint)
			}
			acc[c] = sum
		}
	}

	for c, sum := range acc {
		output[c] = q.Output.Requantize(sum)
	}
}
