// Package requant converts 32-bit kernel accumulators back to 8-bit
// quantized values.
//
// Every kernel tier shares the same arithmetic: the real scale factor is
// represented as a 31-bit fixed-point multiplier and a right shift, products
// are computed in 64 bits, and the shift rounds half to even. The result
// differs from exact real-valued requantization by at most one quantized unit.
package requant

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinScale is the smallest representable requantization scale.
	MinScale = 0x1p-32

	// MaxScale is the exclusive upper bound on requantization scales.
	MaxScale = 0x1p8

	// MinAddScale is the smallest per-input scale ratio accepted by NewAdd.
	MinAddScale = 0x1p-14

	multiplierBits = 31
)

var (
	// ErrInvalidScale reports a scale that is not positive and finite.
	ErrInvalidScale = errors.New("requant: scale must be positive and finite")

	// ErrScaleRange reports a finite scale that the fixed-point form cannot represent.
	ErrScaleRange = errors.New("requant: scale outside supported range")

	// ErrInvalidRange reports an output range with min > max.
	ErrInvalidRange = errors.New("requant: output min exceeds output max")
)

// Params requantizes a signed 32-bit accumulator:
//
//	y = clamp(round_half_even(acc * Scale) + ZeroPoint, Min, Max)
type Params struct {
	Scale      float64
	Multiplier int64
	Shift      uint
	ZeroPoint  int32
	Min, Max   uint8
}

// New derives fixed-point parameters for scale, which must lie in
// [MinScale, MaxScale).
func New(scale float64, zeroPoint, outputMin, outputMax uint8) (Params, error) {
	if err := checkScale(scale, MinScale); err != nil {
		return Params{}, err
	}
	if outputMin > outputMax {
		return Params{}, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, outputMin, outputMax)
	}

	m, shift := fixedPoint(scale)

	return Params{
		Scale:      scale,
		Multiplier: m,
		Shift:      shift,
		ZeroPoint:  int32(zeroPoint),
		Min:        outputMin,
		Max:        outputMax,
	}, nil
}

// Requantize maps one accumulator to its quantized output.
func (p *Params) Requantize(acc int32) uint8 {
	v := roundShift(int64(acc)*p.Multiplier, p.Shift) + int64(p.ZeroPoint)
	return clamp(v, p.Min, p.Max)
}

// ConvParams extends Params with the zero points subtracted from inputs and
// weights before accumulation.
type ConvParams struct {
	InputZeroPoint  int32
	KernelZeroPoint int32
	Output          Params
}

// NewConv derives parameters for y = x*w products, where the effective scale
// is inputScale*kernelScale/outputScale.
func NewConv(inputScale, kernelScale, outputScale float64, inputZeroPoint, kernelZeroPoint, outputZeroPoint, outputMin, outputMax uint8) (ConvParams, error) {
	for _, s := range []float64{inputScale, kernelScale, outputScale} {
		if err := checkScale(s, 0); err != nil {
			return ConvParams{}, err
		}
	}

	out, err := New(inputScale*kernelScale/outputScale, outputZeroPoint, outputMin, outputMax)
	if err != nil {
		return ConvParams{}, err
	}

	return ConvParams{
		InputZeroPoint:  int32(inputZeroPoint),
		KernelZeroPoint: int32(kernelZeroPoint),
		Output:          out,
	}, nil
}

// AddParams requantizes the sum of two independently quantized inputs. Both
// multipliers share one shift so the sum is rounded once.
type AddParams struct {
	AZeroPoint, BZeroPoint   int32
	AMultiplier, BMultiplier int64
	Shift                    uint
	ZeroPoint                int32
	Min, Max                 uint8
}

// NewAdd derives parameters for y = a + b. The ratios aScale/yScale and
// bScale/yScale must lie in [MinAddScale, MaxScale).
func NewAdd(aScale, bScale, yScale float64, aZeroPoint, bZeroPoint, yZeroPoint, outputMin, outputMax uint8) (AddParams, error) {
	if err := checkScale(yScale, 0); err != nil {
		return AddParams{}, err
	}
	ra, rb := aScale/yScale, bScale/yScale
	if err := checkScale(ra, MinAddScale); err != nil {
		return AddParams{}, fmt.Errorf("a: %w", err)
	}
	if err := checkScale(rb, MinAddScale); err != nil {
		return AddParams{}, fmt.Errorf("b: %w", err)
	}
	if outputMin > outputMax {
		return AddParams{}, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, outputMin, outputMax)
	}

	_, shift := fixedPoint(math.Max(ra, rb))

	return AddParams{
		AZeroPoint:  int32(aZeroPoint),
		BZeroPoint:  int32(bZeroPoint),
		AMultiplier: int64(math.RoundToEven(math.Ldexp(ra, int(shift)))),
		BMultiplier: int64(math.RoundToEven(math.Ldexp(rb, int(shift)))),
		Shift:       shift,
		ZeroPoint:   int32(yZeroPoint),
		Min:         outputMin,
		Max:         outputMax,
	}, nil
}

// Add requantizes a + b.
func (p *AddParams) Add(a, b uint8) uint8 {
	acc := int64(int32(a)-p.AZeroPoint)*p.AMultiplier + int64(int32(b)-p.BZeroPoint)*p.BMultiplier
	return clamp(roundShift(acc, p.Shift)+int64(p.ZeroPoint), p.Min, p.Max)
}

// fixedPoint splits scale into a multiplier in [2^30, 2^31] and a right shift.
func fixedPoint(scale float64) (int64, uint) {
	frac, exp := math.Frexp(scale)
	m := int64(math.RoundToEven(math.Ldexp(frac, multiplierBits)))
	return m, uint(multiplierBits - exp)
}

func checkScale(scale, lower float64) error {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidScale, scale)
	}
	if scale < lower || scale >= MaxScale {
		return fmt.Errorf("%w: %g not in [%g, %g)", ErrScaleRange, scale, lower, MaxScale)
	}
	return nil
}

// RoundShift divides x by 2^shift, rounding half to even. It is symmetric
// around zero.
func RoundShift(x int64, shift uint) int64 {
	return roundShift(x, shift)
}

func roundShift(x int64, shift uint) int64 {
	if shift == 0 {
		return x
	}

	neg := x < 0
	mag := uint64(x)
	if neg {
		mag = uint64(-x)
	}

	q := mag >> shift
	rem := mag & (uint64(1)<<shift - 1)
	half := uint64(1) << (shift - 1)
	if rem > half || (rem == half && q&1 == 1) {
		q++
	}

	if neg {
		return -int64(q)
	}
	return int64(q)
}

func clamp(v int64, lo, hi uint8) uint8 {
	if v < int64(lo) {
		return lo
	}
	if v > int64(hi) {
		return hi
	}
	return uint8(v)
}
