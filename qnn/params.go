package qnn

import (
	"math"

	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
)

// Unbounded is the xzp threshold of hosts on which the xzp kernel is never
// preferred.
const Unbounded = math.MaxInt

// ConvParameters describe the standard GEMM and indirect convolution kernels.
type ConvParameters struct {
	GEMM registry.GEMMFunc
	Conv registry.ConvFunc
	MR   int // output rows per tile
	NR   int // output channels per tile
	KR   int // reduction elements packed together
}

// XZPParameters describe the GEMM variant that moves zero-point corrections
// out of the inner loop. GEMM is nil on hosts where it is not used.
type XZPParameters struct {
	GEMM       registry.XZPGEMMFunc
	MR, NR, KR int
	KC         int // reduction block
	KThreshold int // reduction size from which xzp is preferred
}

// Selects reports whether a reduction of size k should use the xzp kernel
// instead of the standard GEMM.
func (p XZPParameters) Selects(k int) bool {
	return p.GEMM != nil && k >= p.KThreshold
}

// DepthwiseParameters describe a depthwise convolution kernel. Exactly one
// of Up and Mp is set depending on the tap count.
type DepthwiseParameters struct {
	Up registry.DWUpFunc
	Mp registry.DWMpFunc
	CR int // channels per tile
}

// SumRowsParameters describe the row-sum kernel that feeds XZPParameters.
type SumRowsParameters struct {
	Kernel registry.SumRowsFunc
	M      int
}

// AddParameters describe the element-wise addition kernel.
type AddParameters struct {
	Kernel registry.UVAddFunc
}

// GAvgPoolParameters describe the global average pooling kernels. LTNR is
// used for fewer than NR channels, LEMR for at most MR rows and GTMR for
// everything else.
type GAvgPoolParameters struct {
	LTNR registry.GAvgPoolUpFunc
	LEMR registry.GAvgPoolUpFunc
	GTMR registry.GAvgPoolMpFunc
	MR   int
	NR   int
}

// ZipParameters describe the channel interleave kernels.
type ZipParameters struct {
	X2, X3, X4 registry.ZipFunc
	XM         registry.ZipXMFunc
}

// Parameters is the immutable configuration produced by Initialize.
type Parameters struct {
	Features cpu.Features

	// Kernels names the tiers that contributed kernels, e.g. "sse2+generic".
	Kernels string

	Conv     ConvParameters
	XZP      XZPParameters
	DW9      DepthwiseParameters
	DW25     DepthwiseParameters
	SumRows  SumRowsParameters
	Add      AddParameters
	GAvgPool GAvgPoolParameters
	Zip      ZipParameters
}
