package qnn

import (
	"fmt"

	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/initgate"
	"github.com/cwbudde/algo-qnn/internal/kernels"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle state of the global configuration.
type State = initgate.State

const (
	Unconstructed = initgate.Unconstructed
	Constructing  = initgate.Constructing
	Ready         = initgate.Ready
	Unsupported   = initgate.Unsupported
)

// lifecycle owns the capability probe and the run-once construction of the
// global Parameters.
type lifecycle struct {
	probe   func() (cpu.Features, error)
	release func()
	build   func(cpu.Features) (*Parameters, error)
	gate    initgate.Gate[*Parameters]
}

var global = newLifecycle()

func newLifecycle() *lifecycle {
	return &lifecycle{
		probe:   probeHost,
		release: cpu.Deinitialize,
		build:   newParameters,
	}
}

func probeHost() (cpu.Features, error) {
	if err := cpu.Initialize(); err != nil {
		return cpu.Features{}, err
	}
	return cpu.DetectFeatures(), nil
}

// Initialize probes the host and constructs the global Parameters once.
// It is safe to call from many goroutines; all callers observe the same
// result. A probe failure returns ErrOutOfMemory and leaves construction for
// a later call. A host without SSE2 (x86) or NEON (ARM) returns
// ErrUnsupportedHardware, permanently.
func Initialize() (*Parameters, error) {
	return global.initialize()
}

// Deinitialize releases the capability snapshot. The constructed Parameters
// stay valid and are not rebuilt by a later Initialize.
func Deinitialize() error {
	global.release()
	return nil
}

// CurrentState reports the lifecycle state without blocking.
func CurrentState() State {
	return global.gate.State()
}

func (l *lifecycle) initialize() (*Parameters, error) {
	f, err := l.probe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return l.gate.Do(func() (*Parameters, error) {
		return l.build(f)
	})
}

// newParameters binds kernels and tile geometry for f.
func newParameters(f cpu.Features) (*Parameters, error) {
	if !f.HasBaseline() {
		log.Error().
			Stringer("family", f.Family).
			Str("arch", f.Architecture).
			Msg("host lacks mandatory SIMD support")
		return nil, fmt.Errorf("%w: %s host without %s", ErrUnsupportedHardware, f.Family, baselineName(f.Family))
	}

	lay, ok := layouts[f.Family]
	if !ok {
		return nil, fmt.Errorf("%w: no layout for %s", ErrUnsupportedHardware, f.Family)
	}

	k := kernels.Resolve(f)
	p := &Parameters{
		Features: f,
		Kernels:  k.Name,
		Conv: ConvParameters{
			GEMM: k.GEMM,
			Conv: k.Conv,
			MR:   lay.conv.mr,
			NR:   lay.conv.nr,
			KR:   lay.conv.kr,
		},
		XZP: XZPParameters{
			KThreshold: xzpThreshold(f),
		},
		DW9:  DepthwiseParameters{Up: k.DW9, CR: lay.dwCR},
		DW25: DepthwiseParameters{Mp: k.DW25, CR: lay.dwCR},
		Add:  AddParameters{Kernel: k.UVAdd},
		GAvgPool: GAvgPoolParameters{
			LTNR: k.GAvgPoolLTNR,
			LEMR: k.GAvgPoolLEMR,
			GTMR: k.GAvgPoolGTMR,
			MR:   lay.gavgpool.mr,
			NR:   lay.gavgpool.nr,
		},
		Zip: ZipParameters{X2: k.ZipX2, X3: k.ZipX3, X4: k.ZipX4, XM: k.ZipXM},
	}

	if lay.xzp.mr > 0 {
		p.XZP.GEMM = k.XZPGEMM
		p.XZP.MR, p.XZP.NR, p.XZP.KR = lay.xzp.mr, lay.xzp.nr, lay.xzp.kr
		p.XZP.KC = lay.xzpKC
	}
	if lay.sumRowsM > 0 {
		p.SumRows = SumRowsParameters{Kernel: k.SumRows, M: lay.sumRowsM}
	}

	log.Debug().
		Stringer("family", f.Family).
		Stringer("uarch", f.Uarch).
		Str("kernels", p.Kernels).
		Int("xzp_threshold", p.XZP.KThreshold).
		Msg("qnn parameters initialized")

	return p, nil
}

func baselineName(f cpu.Family) string {
	if f == cpu.FamilyX86 {
		return "SSE2"
	}
	return "NEON"
}
