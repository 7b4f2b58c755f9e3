//go:build arm

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs capability detection on 32-bit ARM systems.
//
// NEON is optional on ARMv7; its absence makes the host unsupported.
func detectFeaturesImpl() (Features, error) {
	id, err := readMIDR()
	if err != nil {
		return Features{Family: FamilyARM32, Architecture: runtime.GOARCH}, err
	}

	return Features{
		Family:       FamilyARM32,
		Uarch:        DecodeUarch(id.implementer, id.part),
		HasNEON:      cpu.ARM.HasNEON,
		Architecture: runtime.GOARCH,
		Brand:        id.model,
		Cores:        coreCount(0),
	}, nil
}
