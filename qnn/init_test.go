package qnn

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-qnn/internal/cpu"
)

func fakeLifecycle(f cpu.Features, probeErr error) (*lifecycle, *atomic.Int32) {
	var builds atomic.Int32
	l := newLifecycle()
	l.probe = func() (cpu.Features, error) {
		if probeErr != nil {
			return cpu.Features{}, probeErr
		}
		return f, nil
	}
	l.release = func() {}
	l.build = func(f cpu.Features) (*Parameters, error) {
		builds.Add(1)
		return newParameters(f)
	}
	return l, &builds
}

var x86Host = cpu.Features{Family: cpu.FamilyX86, HasSSE2: true, Architecture: "amd64"}

func TestInitializeConcurrentIdempotent(t *testing.T) {
	l, builds := fakeLifecycle(x86Host, nil)

	const callers = 64
	results := make([]*Parameters, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := l.initialize()
			if err != nil {
				t.Errorf("initialize: %v", err)
			}
			results[i] = p
		}()
	}
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Fatalf("build ran %d times, want 1", n)
	}
	for i, p := range results {
		if p != results[0] {
			t.Fatalf("caller %d got a different *Parameters", i)
		}
	}
	if s := l.gate.State(); s != Ready {
		t.Fatalf("state = %v, want ready", s)
	}
}

func TestInitializeUnsupportedHardware(t *testing.T) {
	l, builds := fakeLifecycle(cpu.Features{Family: cpu.FamilyX86}, nil)

	for range 3 {
		p, err := l.initialize()
		if !errors.Is(err, ErrUnsupportedHardware) {
			t.Fatalf("err = %v, want ErrUnsupportedHardware", err)
		}
		if p != nil {
			t.Fatal("expected nil Parameters")
		}
	}
	if n := builds.Load(); n != 1 {
		t.Fatalf("build ran %d times, want 1", n)
	}
	if s := l.gate.State(); s != Unsupported {
		t.Fatalf("state = %v, want unsupported", s)
	}
}

func TestInitializeProbeFailureLeavesGate(t *testing.T) {
	probeErr := errors.New("cpuinfo unreadable")
	l, builds := fakeLifecycle(x86Host, probeErr)

	_, err := l.initialize()
	if !errors.Is(err, ErrOutOfMemory) || !errors.Is(err, probeErr) {
		t.Fatalf("err = %v, want ErrOutOfMemory wrapping probe error", err)
	}
	if s := l.gate.State(); s != Unconstructed {
		t.Fatalf("state = %v, want unconstructed", s)
	}
	if builds.Load() != 0 {
		t.Fatal("build ran after probe failure")
	}

	// The probe recovers; construction proceeds.
	l.probe = func() (cpu.Features, error) { return x86Host, nil }
	if _, err := l.initialize(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s := l.gate.State(); s != Ready {
		t.Fatalf("state = %v, want ready", s)
	}
}

func TestTileTables(t *testing.T) {
	tests := []struct {
		name string
		f    cpu.Features
		conv [3]int
		xzp  [4]int // mr, nr, kr, kc
		sumM int
	}{
		{"x86", x86Host, [3]int{4, 4, 2}, [4]int{}, 0},
		{"arm32", cpu.Features{Family: cpu.FamilyARM32, HasNEON: true}, [3]int{4, 8, 1}, [4]int{4, 8, 2, 8}, 4},
		{"arm64", cpu.Features{Family: cpu.FamilyARM64, HasNEON: true}, [3]int{8, 8, 1}, [4]int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := newParameters(tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if got := [3]int{p.Conv.MR, p.Conv.NR, p.Conv.KR}; got != tt.conv {
				t.Fatalf("conv tile = %v, want %v", got, tt.conv)
			}
			if got := [4]int{p.XZP.MR, p.XZP.NR, p.XZP.KR, p.XZP.KC}; got != tt.xzp {
				t.Fatalf("xzp tile = %v, want %v", got, tt.xzp)
			}
			if (p.XZP.GEMM != nil) != (tt.xzp[0] > 0) {
				t.Fatalf("xzp kernel bound = %v", p.XZP.GEMM != nil)
			}
			if p.SumRows.M != tt.sumM || (p.SumRows.Kernel != nil) != (tt.sumM > 0) {
				t.Fatalf("sum rows = %+v, want m=%d", p.SumRows, tt.sumM)
			}
			if p.DW9.CR != 8 || p.DW25.CR != 8 || p.DW9.Up == nil || p.DW25.Mp == nil {
				t.Fatalf("depthwise = %+v / %+v", p.DW9, p.DW25)
			}
			if p.GAvgPool.MR != 7 || p.GAvgPool.NR != 8 {
				t.Fatalf("gavgpool tile = %d/%d, want 7/8", p.GAvgPool.MR, p.GAvgPool.NR)
			}
			if p.GAvgPool.LTNR == nil || p.GAvgPool.LEMR == nil || p.GAvgPool.GTMR == nil {
				t.Fatal("gavgpool kernels not bound")
			}
			if p.Add.Kernel == nil || p.Zip.X2 == nil || p.Zip.X3 == nil || p.Zip.X4 == nil || p.Zip.XM == nil {
				t.Fatal("add or zip kernels not bound")
			}
		})
	}
}

func TestXZPThreshold(t *testing.T) {
	tests := []struct {
		family cpu.Family
		uarch  cpu.Uarch
		want   int
	}{
		{cpu.FamilyARM32, cpu.UarchCortexA72, 64},
		{cpu.FamilyARM32, cpu.UarchCortexA73, 256},
		{cpu.FamilyARM32, cpu.UarchCortexA75, 32},
		{cpu.FamilyARM32, cpu.UarchCortexA53, Unbounded},
		{cpu.FamilyARM32, cpu.UarchUnknown, Unbounded},
		{cpu.FamilyARM64, cpu.UarchCortexA72, Unbounded},
		{cpu.FamilyX86, cpu.UarchUnknown, Unbounded},
	}

	for _, tt := range tests {
		f := cpu.Features{Family: tt.family, Uarch: tt.uarch, HasSSE2: true, HasNEON: true}
		p, err := newParameters(f)
		if err != nil {
			t.Fatal(err)
		}
		if p.XZP.KThreshold != tt.want {
			t.Fatalf("%s/%s: KThreshold = %d, want %d", tt.family, tt.uarch, p.XZP.KThreshold, tt.want)
		}
	}
}

func TestXZPSelects(t *testing.T) {
	p, err := newParameters(cpu.Features{Family: cpu.FamilyARM32, Uarch: cpu.UarchCortexA72, HasNEON: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.XZP.Selects(63) || !p.XZP.Selects(64) || !p.XZP.Selects(4096) {
		t.Fatalf("Selects around threshold 64: 63=%v 64=%v 4096=%v",
			p.XZP.Selects(63), p.XZP.Selects(64), p.XZP.Selects(4096))
	}

	unbound := XZPParameters{KThreshold: Unbounded}
	if unbound.Selects(1) {
		t.Fatal("unbound xzp kernel must never be selected")
	}
}

func TestXZPDisabledOnUnlistedCores(t *testing.T) {
	for _, u := range []cpu.Uarch{cpu.UarchCortexA53, cpu.UarchUnknown} {
		p, err := newParameters(cpu.Features{Family: cpu.FamilyARM32, Uarch: u, HasNEON: true})
		if err != nil {
			t.Fatal(err)
		}
		if p.XZP.GEMM == nil {
			t.Fatalf("%s: xzp kernel not bound on ARM32", u)
		}
		for _, k := range []int{0, 1, 8, 64, 256, 4096, 1 << 30} {
			if p.XZP.Selects(k) {
				t.Fatalf("%s: Selects(%d) = true with threshold %d", u, k, p.XZP.KThreshold)
			}
		}
	}
}

func TestForceGenericKernels(t *testing.T) {
	f := x86Host
	f.ForceGeneric = true
	p, err := newParameters(f)
	if err != nil {
		t.Fatal(err)
	}
	if p.Kernels != "generic" {
		t.Fatalf("Kernels = %q, want generic", p.Kernels)
	}
}

func TestInitializeHost(t *testing.T) {
	p, err := Initialize()
	if err != nil {
		t.Skipf("host not supported: %v", err)
	}
	if CurrentState() != Ready {
		t.Fatalf("state = %v, want ready", CurrentState())
	}
	if !p.Features.HasBaseline() {
		t.Fatal("Ready without baseline SIMD")
	}
	if err := Deinitialize(); err != nil {
		t.Fatal(err)
	}
	p2, err := Initialize()
	if err != nil || p2 != p {
		t.Fatalf("re-Initialize = %p, %v; want %p", p2, err, p)
	}
}
