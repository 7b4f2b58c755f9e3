package qnn

import "github.com/cwbudde/algo-qnn/internal/cpu"

type tile struct{ mr, nr, kr int }

// layout holds the tile geometry of one instruction-set family. A zero tile
// leaves the corresponding kernel unbound.
type layout struct {
	conv     tile
	xzp      tile
	xzpKC    int
	dwCR     int
	sumRowsM int
	gavgpool tile
}

var layouts = map[cpu.Family]layout{
	cpu.FamilyX86: {
		conv:     tile{4, 4, 2},
		dwCR:     8,
		gavgpool: tile{7, 8, 0},
	},
	cpu.FamilyARM32: {
		conv:     tile{4, 8, 1},
		xzp:      tile{4, 8, 2},
		xzpKC:    8,
		dwCR:     8,
		sumRowsM: 4,
		gavgpool: tile{7, 8, 0},
	},
	cpu.FamilyARM64: {
		conv:     tile{8, 8, 1},
		dwCR:     8,
		gavgpool: tile{7, 8, 0},
	},
}

// xzpThresholds maps ARM32 cores to the reduction size from which the xzp
// GEMM outperforms the standard one. Other cores never select it.
var xzpThresholds = map[cpu.Uarch]int{
	cpu.UarchCortexA72: 64,
	cpu.UarchCortexA73: 256,
	cpu.UarchCortexA75: 32,
}

// xzpThreshold returns the xzp threshold for a host.
func xzpThreshold(f cpu.Features) int {
	if f.Family != cpu.FamilyARM32 {
		return Unbounded
	}
	if k, ok := xzpThresholds[f.Uarch]; ok {
		return k
	}
	return Unbounded
}
