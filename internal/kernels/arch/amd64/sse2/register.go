//go:build (386 || amd64) && !purego

package sse2

import (
	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
)

// init registers the SSE2 tier with the kernel registry.
//
// SSE2 is the x86 baseline, so this tier is selected on every supported
// x86 host unless ForceGeneric is set. Only the global average pooling
// kernels are lane-blocked here; other slots fall back to the generic tier.
//
// Priority: 10
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "sse2",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,

		GAvgPoolLTNR: GAvgPoolUp8xM,
		GAvgPoolLEMR: GAvgPoolUp8x7,
		GAvgPoolGTMR: GAvgPoolMp8x7,
	})
}
