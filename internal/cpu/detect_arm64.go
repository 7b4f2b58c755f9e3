//go:build arm64

package cpu

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs capability detection on arm64 systems.
//
// On ARMv8 NEON is mandatory, so HasNEON should always be true.
func detectFeaturesImpl() (Features, error) {
	id, err := readMIDR()
	if err != nil {
		return Features{Family: FamilyARM64, Architecture: runtime.GOARCH}, err
	}

	brand := cpuid.CPU.BrandName
	if brand == "" {
		brand = id.model
	}

	return Features{
		Family:       FamilyARM64,
		Uarch:        DecodeUarch(id.implementer, id.part),
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
		Vendor:       cpuid.CPU.VendorString,
		Brand:        brand,
		Cores:        coreCount(cpuid.CPU.PhysicalCores),
	}, nil
}
