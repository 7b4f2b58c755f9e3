// Package registry provides the kernel registry for quantized operators.
//
// Multiple implementation tiers (generic, SSE2, NEON) coexist. Each tier
// registers itself from an init() function with the kernels it implements;
// Resolve picks, for every kernel slot, the highest-priority tier the host
// supports that provides that slot.
package registry

import (
	"strings"
	"sync"

	"github.com/cwbudde/algo-qnn/internal/cpu"
)

// OpEntry is one registered implementation tier. Only the kernels available
// at that tier need to be populated.
type OpEntry struct {
	// Name is a human-readable identifier for this tier (e.g., "sse2", "neon").
	Name string

	// SIMDLevel indicates the SIMD instruction set required for this tier.
	SIMDLevel cpu.SIMDLevel

	// Priority determines selection order when multiple compatible tiers
	// exist. Higher priority tiers are preferred. Suggested priorities:
	//   - Generic (SIMDNone): 0
	//   - SSE2: 10
	//   - NEON: 15
	Priority int

	GEMM    GEMMFunc
	Conv    ConvFunc
	XZPGEMM XZPGEMMFunc
	SumRows SumRowsFunc

	DW9  DWUpFunc
	DW25 DWMpFunc

	UVAdd UVAddFunc

	// GAvgPoolLTNR handles fewer channels than the channel tile.
	GAvgPoolLTNR GAvgPoolUpFunc
	// GAvgPoolLEMR handles widths up to the row tile.
	GAvgPoolLEMR GAvgPoolUpFunc
	// GAvgPoolGTMR handles widths above the row tile.
	GAvgPoolGTMR GAvgPoolMpFunc

	ZipX2 ZipFunc
	ZipX3 ZipFunc
	ZipX4 ZipFunc
	ZipXM ZipXMFunc
}

// OpRegistry manages the registration and lookup of implementation tiers.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool // true if entries are sorted by priority (descending)
}

// Global is the default registry instance populated by the arch packages.
var Global = &OpRegistry{}

// Register adds an implementation tier to the registry.
//
// This function is typically called from init() functions in
// architecture-specific packages. All registrations should complete before
// the first call to Lookup or Resolve.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority tier compatible with features, or nil
// if none is registered.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.sortOnce()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			e := *entry
			return &e
		}
	}

	return nil
}

// Resolve merges all tiers compatible with features into one entry. Each
// kernel slot comes from the highest-priority tier providing it; slots no
// compatible tier provides stay nil. Name lists the contributing tiers,
// highest priority first, joined by "+".
func (r *OpRegistry) Resolve(features cpu.Features) OpEntry {
	r.sortOnce()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		out   OpEntry
		names []string
		first = true
	)
	for i := range r.entries {
		e := &r.entries[i]
		if !cpu.Supports(features, e.SIMDLevel) {
			continue
		}
		if first {
			out.SIMDLevel = e.SIMDLevel
			out.Priority = e.Priority
			first = false
		}
		if fill(&out, e) {
			names = append(names, e.Name)
		}
	}
	out.Name = strings.Join(names, "+")

	return out
}

// fill copies the slots of src that dst still lacks and reports whether any
// slot was taken from src.
func fill(dst, src *OpEntry) bool {
	used := false

	if dst.GEMM == nil && src.GEMM != nil {
		dst.GEMM, used = src.GEMM, true
	}
	if dst.Conv == nil && src.Conv != nil {
		dst.Conv, used = src.Conv, true
	}
	if dst.XZPGEMM == nil && src.XZPGEMM != nil {
		dst.XZPGEMM, used = src.XZPGEMM, true
	}
	if dst.SumRows == nil && src.SumRows != nil {
		dst.SumRows, used = src.SumRows, true
	}
	if dst.DW9 == nil && src.DW9 != nil {
		dst.DW9, used = src.DW9, true
	}
	if dst.DW25 == nil && src.DW25 != nil {
		dst.DW25, used = src.DW25, true
	}
	if dst.UVAdd == nil && src.UVAdd != nil {
		dst.UVAdd, used = src.UVAdd, true
	}
	if dst.GAvgPoolLTNR == nil && src.GAvgPoolLTNR != nil {
		dst.GAvgPoolLTNR, used = src.GAvgPoolLTNR, true
	}
	if dst.GAvgPoolLEMR == nil && src.GAvgPoolLEMR != nil {
		dst.GAvgPoolLEMR, used = src.GAvgPoolLEMR, true
	}
	if dst.GAvgPoolGTMR == nil && src.GAvgPoolGTMR != nil {
		dst.GAvgPoolGTMR, used = src.GAvgPoolGTMR, true
	}
	if dst.ZipX2 == nil && src.ZipX2 != nil {
		dst.ZipX2, used = src.ZipX2, true
	}
	if dst.ZipX3 == nil && src.ZipX3 != nil {
		dst.ZipX3, used = src.ZipX3, true
	}
	if dst.ZipX4 == nil && src.ZipX4 != nil {
		dst.ZipX4, used = src.ZipX4, true
	}
	if dst.ZipXM == nil && src.ZipXM != nil {
		dst.ZipXM, used = src.ZipXM, true
	}

	return used
}

func (r *OpRegistry) sortOnce() {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()
}

// sortByPriority sorts entries by priority in descending order.
// Must be called with r.mu held (write lock).
func (r *OpRegistry) sortByPriority() {
	// Simple insertion sort (registry holds a handful of tiers)
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of all registered entries, highest priority
// first. This function is primarily intended for testing and debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.sortOnce()

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Reset clears all registered entries.
// This function is intended for testing purposes only.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.sorted = false
}
