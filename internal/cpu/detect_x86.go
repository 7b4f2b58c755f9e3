//go:build 386 || amd64

package cpu

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs capability detection on x86 systems.
//
// SSE2 is always true on amd64 as it's part of the x86-64 baseline; on 386
// it depends on the processor.
func detectFeaturesImpl() (Features, error) {
	return Features{
		Family:       FamilyX86,
		HasSSE2:      cpu.X86.HasSSE2,
		Architecture: runtime.GOARCH,
		Vendor:       cpuid.CPU.VendorString,
		Brand:        cpuid.CPU.BrandName,
		Cores:        coreCount(cpuid.CPU.PhysicalCores),
	}, nil
}
