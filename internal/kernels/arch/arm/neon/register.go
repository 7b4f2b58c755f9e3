//go:build (arm || arm64) && !purego

package neon

import (
	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
)

// init registers the NEON tier with the kernel registry.
//
// NEON (ASIMD on arm64) is required on every supported ARM host. The tier
// provides lane-blocked global average pooling and the two- and four-way
// zip kernels; remaining slots fall back to the generic tier.
//
// Priority: 15
func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "neon",
		SIMDLevel: cpu.SIMDNEON,
		Priority:  15,

		GAvgPoolLTNR: GAvgPoolUp8xM,
		GAvgPoolLEMR: GAvgPoolUp8x7,
		GAvgPoolGTMR: GAvgPoolMp8x7,

		ZipX2: ZipX2,
		ZipX4: ZipX4,
	})
}
