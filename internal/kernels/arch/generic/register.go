package generic

import (
	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
)

// init registers the generic (pure Go) kernels with the kernel registry.
//
// Generic kernels fill every slot and serve as the fallback when no SIMD tier
// is available, when a SIMD tier leaves a slot empty, or when ForceGeneric is
// enabled for testing.
//
// Priority: 0 (lowest)
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,

		// Matrix multiplication
		GEMM:    GEMM,
		Conv:    Conv,
		XZPGEMM: XZPGEMM,
		SumRows: SumRows,

		// Depthwise convolution
		DW9:  DWUp,
		DW25: DWMp,

		// Elementwise
		UVAdd: UVAdd,

		// Global average pooling
		GAvgPoolLTNR: GAvgPoolUp,
		GAvgPoolLEMR: GAvgPoolUp,
		GAvgPoolGTMR: GAvgPoolMp,

		// Channel interleave
		ZipX2: ZipX2,
		ZipX3: ZipX3,
		ZipX4: ZipX4,
		ZipXM: ZipXM,
	})
}
