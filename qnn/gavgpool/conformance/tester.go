// Package conformance checks global average pooling kernels against a
// real-valued reference.
//
// A Tester describes one pooling problem. Run initializes the library,
// pools seeded random input through the kernels selected for the host and
// compares every output with the exact average computed in float64. Stride
// padding is filled with a sentinel and must survive untouched.
//
//	conformance.New().Width(2).Channels(8).TestQ8(t)
package conformance

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-qnn/internal/testutil"
	"github.com/cwbudde/algo-qnn/qnn"
	"github.com/cwbudde/algo-qnn/qnn/gavgpool"
)

// Tolerance is the largest accepted distance, in quantized units, between a
// kernel output and the real-valued reference.
const Tolerance = 1.0

// Tester configures one conformance problem. Setters return the receiver so
// calls can be chained. The zero value is not usable; start from New.
type Tester struct {
	batchSize       int
	width           int
	channels        int
	inputStride     int
	outputStride    int
	inputScale      float32
	inputZeroPoint  uint8
	outputScale     float32
	outputZeroPoint uint8
	outputMin       uint8
	outputMax       uint8
	iterations      int
	seed            uint64
}

// New returns a Tester with default quantization: zero points 128, scales
// 1.0 and the full output range. Width and Channels must be set.
func New() *Tester {
	return &Tester{
		batchSize:       1,
		inputScale:      1,
		inputZeroPoint:  128,
		outputScale:     1,
		outputZeroPoint: 128,
		outputMin:       0,
		outputMax:       255,
		iterations:      1,
		seed:            0x9a7e,
	}
}

// Clone returns an independent copy of t.
func (t *Tester) Clone() *Tester {
	c := *t
	return &c
}

// Chained setters. Unset strides default to the channel count.

func (t *Tester) BatchSize(n int) *Tester          { t.batchSize = n; return t }
func (t *Tester) Width(n int) *Tester              { t.width = n; return t }
func (t *Tester) Channels(n int) *Tester           { t.channels = n; return t }
func (t *Tester) InputStride(n int) *Tester        { t.inputStride = n; return t }
func (t *Tester) OutputStride(n int) *Tester       { t.outputStride = n; return t }
func (t *Tester) InputScale(s float32) *Tester     { t.inputScale = s; return t }
func (t *Tester) OutputScale(s float32) *Tester    { t.outputScale = s; return t }
func (t *Tester) InputZeroPoint(zp uint8) *Tester  { t.inputZeroPoint = zp; return t }
func (t *Tester) OutputZeroPoint(zp uint8) *Tester { t.outputZeroPoint = zp; return t }
func (t *Tester) OutputMin(v uint8) *Tester        { t.outputMin = v; return t }
func (t *Tester) OutputMax(v uint8) *Tester        { t.outputMax = v; return t }
func (t *Tester) Iterations(n int) *Tester         { t.iterations = n; return t }
func (t *Tester) Seed(s uint64) *Tester            { t.seed = s; return t }

func (t *Tester) strides() (in, out int) {
	in, out = t.inputStride, t.outputStride
	if in == 0 {
		in = t.channels
	}
	if out == 0 {
		out = t.channels
	}
	return in, out
}

// String describes the problem for failure messages.
func (t *Tester) String() string {
	in, out := t.strides()
	return fmt.Sprintf("batch=%d width=%d channels=%d stride=%d/%d scale=%g/%g zp=%d/%d range=[%d,%d]",
		t.batchSize, t.width, t.channels, in, out,
		t.inputScale, t.outputScale, t.inputZeroPoint, t.outputZeroPoint,
		t.outputMin, t.outputMax)
}

// MismatchError reports the first output that failed a check.
type MismatchError struct {
	Problem   string
	Iteration int
	Batch     int
	Channel   int
	Got       uint8
	Want      float64
	Reason    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("conformance: %s: iteration %d batch %d channel %d: got %d, want %.4f (%s)",
		e.Problem, e.Iteration, e.Batch, e.Channel, e.Got, e.Want, e.Reason)
}

// TestQ8 runs the problem and fails tb on any error.
func (t *Tester) TestQ8(tb testing.TB) {
	tb.Helper()
	if err := t.Run(); err != nil {
		tb.Fatal(err)
	}
}

// Run executes every iteration of the problem and returns the first
// failure, or a *MismatchError for a result outside tolerance.
func (t *Tester) Run() error {
	params, err := qnn.Initialize()
	if err != nil {
		return fmt.Errorf("conformance: initialize: %w", err)
	}

	op, err := gavgpool.New(params, t.channels,
		gavgpool.WithInputQuantization(t.inputZeroPoint, t.inputScale),
		gavgpool.WithOutputQuantization(t.outputZeroPoint, t.outputScale),
		gavgpool.WithOutputRange(t.outputMin, t.outputMax),
	)
	if err != nil {
		return fmt.Errorf("conformance: %s: %w", t, err)
	}
	if t.batchSize <= 0 || t.width <= 0 {
		return fmt.Errorf("conformance: %s: %w: batch size and width must be > 0", t, qnn.ErrInvalidParameter)
	}

	inStride, outStride := t.strides()
	inLen := (t.batchSize*t.width-1)*inStride + t.channels
	outLen := (t.batchSize-1)*outStride + t.channels

	for it := 0; it < t.iterations; it++ {
		input := testutil.DeterministicBytes(t.seed+uint64(it), inLen)
		pad(input, t.channels, inStride)
		pristine := bytes.Clone(input)
		output := testutil.Fill(testutil.Sentinel, outLen)

		if err := op.Setup(t.batchSize, t.width, input, inStride, output, outStride); err != nil {
			return fmt.Errorf("conformance: %s: %w", t, err)
		}
		if err := op.Run(); err != nil {
			return fmt.Errorf("conformance: %s: %w", t, err)
		}

		if !bytes.Equal(input, pristine) {
			return fmt.Errorf("conformance: %s: iteration %d: input modified", t, it)
		}
		if err := t.check(it, input, inStride, output, outStride); err != nil {
			return err
		}
	}

	return nil
}

// scaleFactors returns the per-channel factor mapping a channel sum to
// output units. Every channel of a problem shares inputScale/(width*outputScale),
// so the vector is uniform; it is built once per check and applied to each
// batch with one block multiply.
func (t *Tester) scaleFactors() []float64 {
	scale := float64(t.inputScale) / (float64(t.width) * float64(t.outputScale))
	factors := make([]float64, t.channels)
	for c := range factors {
		factors[c] = scale
	}
	return factors
}

// reference returns the unclamped real-valued result of each channel of
// batch b.
func (t *Tester) reference(b int, input []uint8, inStride int, factors []float64) []float64 {
	sums := make([]float64, t.channels)
	for r := 0; r < t.width; r++ {
		row := input[(b*t.width+r)*inStride:]
		for c := range sums {
			sums[c] += float64(row[c])
		}
	}

	vecmath.MulBlockInPlace(sums, factors)

	for c := range sums {
		sums[c] += float64(t.outputZeroPoint)
	}
	return sums
}

func (t *Tester) check(it int, input []uint8, inStride int, output []uint8, outStride int) error {
	lo, hi := float64(t.outputMin), float64(t.outputMax)
	factors := t.scaleFactors()

	for b := 0; b < t.batchSize; b++ {
		ref := t.reference(b, input, inStride, factors)
		row := output[b*outStride:]

		for c, want := range ref {
			want = math.Min(math.Max(want, lo), hi)
			got := row[c]

			fail := func(reason string) error {
				return &MismatchError{Problem: t.String(), Iteration: it, Batch: b, Channel: c, Got: got, Want: want, Reason: reason}
			}
			if got < t.outputMin || got > t.outputMax {
				return fail("outside output range")
			}
			if math.Abs(float64(got)-want) > Tolerance {
				return fail("exceeds tolerance")
			}
		}

		if b == t.batchSize-1 {
			break
		}
		for c := t.channels; c < outStride; c++ {
			if row[c] != testutil.Sentinel {
				return &MismatchError{Problem: t.String(), Iteration: it, Batch: b, Channel: c,
					Got: row[c], Want: float64(testutil.Sentinel), Reason: "padding written"}
			}
		}
	}

	return nil
}

// pad overwrites bytes [width, stride) of every row with the sentinel.
func pad(buf []uint8, width, stride int) {
	for base := 0; base < len(buf); base += stride {
		for i := base + width; i < min(base+stride, len(buf)); i++ {
			buf[i] = testutil.Sentinel
		}
	}
}
