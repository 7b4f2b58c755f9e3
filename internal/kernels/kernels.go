// Package kernels links the kernel tiers for the target architecture into
// the registry and resolves the kernel set for a host.
package kernels

import (
	"github.com/cwbudde/algo-qnn/internal/cpu"
	"github.com/cwbudde/algo-qnn/internal/kernels/registry"
)

// Resolve returns the kernel set for features: every slot filled from the
// highest-priority tier the host supports.
func Resolve(features cpu.Features) registry.OpEntry {
	return registry.Global.Resolve(features)
}

// Preferred returns the highest-priority tier usable on a host, or nil when
// none is registered.
func Preferred(features cpu.Features) *registry.OpEntry {
	return registry.Global.Lookup(features)
}

// Tiers lists the registered tiers, highest priority first.
func Tiers() []registry.OpEntry {
	return registry.Global.ListEntries()
}
