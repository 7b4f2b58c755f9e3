// Package gavgpool implements quantized global average pooling.
//
// An Operator reduces a uint8 tensor of shape [batch, width, channels] along
// the width axis to [batch, 1, channels]:
//
//	out = clamp(round_half_even(sum * inputScale / (width * outputScale)) + outputZeroPoint, min, max)
//
// The sum is exact in 32 bits. The kernel is chosen per batch from the
// global Parameters: the LTNR kernel for fewer channels than the channel
// tile, the LEMR kernel for widths up to the row tile and the multipass
// GTMR kernel otherwise. All three produce identical results.
package gavgpool

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-qnn/internal/requant"
	"github.com/cwbudde/algo-qnn/internal/scratch"
	"github.com/cwbudde/algo-qnn/qnn"
)

const (
	// MinScaleRatio is the smallest supported inputScale/outputScale.
	MinScaleRatio = 0x1p-8

	// MaxScaleRatio is the exclusive upper bound on inputScale/outputScale.
	MaxScaleRatio = 0x1p8

	// MaxWidth keeps width*255 within a 32-bit accumulator.
	MaxWidth = math.MaxInt32 / math.MaxUint8
)

var errNotSetUp = fmt.Errorf("gavgpool: %w: Run before Setup", qnn.ErrInvalidParameter)

var buffers = scratch.NewPool()

// Operator is a configured global average pooling operator. Create one with
// New, bind buffers with Setup and execute with Run. An Operator is not safe
// for concurrent use; distinct operators may run concurrently.
type Operator struct {
	params   *qnn.Parameters
	channels int
	cfg      config

	batchSize    int
	width        int
	input        []byte
	inputStride  int
	output       []byte
	outputStride int
	requant      requant.Params
	ready        bool
}

// New creates an operator for tensors with the given channel count.
// params must come from a successful qnn.Initialize.
func New(params *qnn.Parameters, channels int, opts ...Option) (*Operator, error) {
	if params == nil {
		return nil, fmt.Errorf("gavgpool: %w", qnn.ErrUninitialized)
	}

	cfg := applyOptions(opts...)

	if channels <= 0 {
		return nil, fmt.Errorf("gavgpool: %w: channels must be > 0: %d", qnn.ErrInvalidParameter, channels)
	}
	if err := checkScale("input", cfg.inputScale); err != nil {
		return nil, err
	}
	if err := checkScale("output", cfg.outputScale); err != nil {
		return nil, err
	}
	if cfg.outputMin > cfg.outputMax {
		return nil, fmt.Errorf("gavgpool: %w: output min %d exceeds max %d", qnn.ErrInvalidParameter, cfg.outputMin, cfg.outputMax)
	}

	ratio := float64(cfg.inputScale) / float64(cfg.outputScale)
	if ratio < MinScaleRatio || ratio >= MaxScaleRatio {
		return nil, fmt.Errorf("gavgpool: %w: scale ratio %g not in [%g, %g)",
			qnn.ErrUnsupportedParameter, ratio, MinScaleRatio, MaxScaleRatio)
	}

	return &Operator{params: params, channels: channels, cfg: cfg}, nil
}

func checkScale(name string, scale float32) error {
	s := float64(scale)
	if !(s > 0) || math.IsInf(s, 0) {
		return fmt.Errorf("gavgpool: %w: %s scale must be positive and finite: %g", qnn.ErrInvalidParameter, name, s)
	}
	return nil
}

// Channels returns the channel count the operator was created with.
func (op *Operator) Channels() int {
	return op.channels
}

// Setup binds input and output buffers. Row r of batch b starts at
// input[(b*width+r)*inputStride]; the pooled row of batch b starts at
// output[b*outputStride]. Only the first Channels bytes of each row are
// accessed.
func (op *Operator) Setup(batchSize, width int, input []byte, inputStride int, output []byte, outputStride int) error {
	op.ready = false

	if batchSize <= 0 {
		return fmt.Errorf("gavgpool: %w: batch size must be > 0: %d", qnn.ErrInvalidParameter, batchSize)
	}
	if width <= 0 {
		return fmt.Errorf("gavgpool: %w: width must be > 0: %d", qnn.ErrInvalidParameter, width)
	}
	if width > MaxWidth {
		return fmt.Errorf("gavgpool: %w: width %d exceeds %d", qnn.ErrUnsupportedParameter, width, MaxWidth)
	}
	if inputStride < op.channels {
		return fmt.Errorf("gavgpool: %w: input stride %d < channels %d", qnn.ErrInvalidParameter, inputStride, op.channels)
	}
	if outputStride < op.channels {
		return fmt.Errorf("gavgpool: %w: output stride %d < channels %d", qnn.ErrInvalidParameter, outputStride, op.channels)
	}
	if need := (batchSize*width-1)*inputStride + op.channels; len(input) < need {
		return fmt.Errorf("gavgpool: %w: input length %d < %d", qnn.ErrInvalidParameter, len(input), need)
	}
	if need := (batchSize-1)*outputStride + op.channels; len(output) < need {
		return fmt.Errorf("gavgpool: %w: output length %d < %d", qnn.ErrInvalidParameter, len(output), need)
	}

	scale := float64(op.cfg.inputScale) / (float64(width) * float64(op.cfg.outputScale))
	q, err := requant.New(scale, op.cfg.outputZeroPoint, op.cfg.outputMin, op.cfg.outputMax)
	if err != nil {
		return fmt.Errorf("gavgpool: %w: %w", qnn.ErrUnsupportedParameter, err)
	}

	op.batchSize = batchSize
	op.width = width
	op.input = input
	op.inputStride = inputStride
	op.output = output
	op.outputStride = outputStride
	op.requant = q
	op.ready = true

	return nil
}

// Run pools every batch of the bound input into the bound output.
func (op *Operator) Run() error {
	if !op.ready {
		return errNotSetUp
	}

	gp := &op.params.GAvgPool
	n, m := op.channels, op.width

	var buffer []int32
	if n >= gp.NR && m > gp.MR {
		b := buffers.Get(scratch.RoundUp(n, gp.NR))
		defer buffers.Put(b)
		buffer = *b
	}

	for b := 0; b < op.batchSize; b++ {
		in := op.input[b*m*op.inputStride:]
		out := op.output[b*op.outputStride:]

		switch {
		case n < gp.NR:
			gp.LTNR(m, n, in, op.inputStride, out, &op.requant)
		case m <= gp.MR:
			gp.LEMR(m, n, in, op.inputStride, out, &op.requant)
		default:
			gp.GTMR(m, n, in, op.inputStride, buffer, out, &op.requant)
		}
	}

	return nil
}
