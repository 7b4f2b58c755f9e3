// Package cpu provides host capability detection for quantized kernel selection.
//
// The probe detects the instruction-set family (x86, ARM32, ARM64), the SIMD
// extensions the kernels depend on (SSE2, NEON), and on ARM the identity of
// the first core. The result is cached as an immutable snapshot until
// Deinitialize releases it.
//
// Detection is performed lazily on the first call to Initialize or
// DetectFeatures and cached for subsequent calls using sync.Once.
package cpu

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// ForceGenericEnv names the environment variable that disables all SIMD
// kernel tiers. Any non-empty value that does not parse as false enables it.
const ForceGenericEnv = "QNN_FORCE_GENERIC"

// ErrProbeFailed reports that the capability snapshot could not be populated.
var ErrProbeFailed = errors.New("cpu: capability probe failed")

// Family is the instruction-set architecture family of the host.
type Family int

const (
	// FamilyUnknown is only seen in zero-valued Features.
	FamilyUnknown Family = iota

	// FamilyX86 covers 386 and amd64.
	FamilyX86

	// FamilyARM32 covers 32-bit ARM (GOARCH=arm).
	FamilyARM32

	// FamilyARM64 covers AArch64.
	FamilyARM64
)

// String returns a human-readable name for the family.
func (f Family) String() string {
	switch f {
	case FamilyX86:
		return "x86"
	case FamilyARM32:
		return "arm32"
	case FamilyARM64:
		return "arm64"
	default:
		return "unknown"
	}
}

// SIMDLevel represents a SIMD instruction set extension level.
// Levels are not comparable across architectures.
type SIMDLevel int

const (
	// SIMDNone indicates no SIMD optimization (pure Go fallback).
	SIMDNone SIMDLevel = iota

	// SIMDSSE2 indicates x86 SSE2 (baseline for amd64).
	SIMDSSE2

	// SIMDNEON indicates ARM NEON / Advanced SIMD.
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Features describes the host capabilities relevant to kernel selection.
// A Features value is a snapshot and is never mutated after detection.
type Features struct {
	Family Family

	// Uarch identifies the first core. Thresholds only consult it on ARM32.
	Uarch Uarch

	HasSSE2 bool // Streaming SIMD Extensions 2 (x86 baseline)
	HasNEON bool // ARM Advanced SIMD (NEON / ASIMD)

	// ForceGeneric disables all SIMD kernel tiers (testing/debugging).
	ForceGeneric bool

	Architecture string // runtime.GOARCH
	Vendor       string
	Brand        string
	Cores        int
}

// HasBaseline reports whether the mandatory SIMD extension of the family is
// present: SSE2 on x86, NEON on ARM.
func (f Features) HasBaseline() bool {
	switch f.Family {
	case FamilyX86:
		return f.HasSSE2
	case FamilyARM32, FamilyARM64:
		return f.HasNEON
	default:
		return false
	}
}

var (
	// detectImpl is replaced in tests to observe or fail probing.
	detectImpl = detectFeaturesImpl

	detectedFeatures Features
	detectErr        error
	detectOnce       sync.Once

	// detectMutex serializes access to detectOnce/detectedFeatures.
	detectMutex sync.Mutex

	// forcedFeatures allows overriding actual hardware detection for testing.
	forcedFeatures *Features
	forcedMutex    sync.RWMutex
)

// Initialize probes the host once and caches the snapshot. Calling it again
// returns the memoized outcome until Deinitialize is called.
func Initialize() error {
	_, err := snapshot()
	return err
}

// Deinitialize releases the cached snapshot. Forced features are kept.
func Deinitialize() {
	detectMutex.Lock()
	detectOnce = sync.Once{}
	detectedFeatures = Features{}
	detectErr = nil
	detectMutex.Unlock()
}

// DetectFeatures returns the capabilities of the current host. When probing
// fails, the zero Features value is returned; use Initialize to observe the
// error.
func DetectFeatures() Features {
	f, _ := snapshot()
	return f
}

func snapshot() (Features, error) {
	forcedMutex.RLock()
	forced := forcedFeatures
	forcedMutex.RUnlock()

	if forced != nil {
		return *forced, nil
	}

	detectMutex.Lock()
	defer detectMutex.Unlock()

	detectOnce.Do(func() {
		f, err := detectImpl()
		if err != nil {
			detectErr = fmt.Errorf("%w: %w", ErrProbeFailed, err)
			log.Error().Err(err).Str("arch", f.Architecture).Msg("capability probe failed")
			return
		}
		f.ForceGeneric = f.ForceGeneric || forceGenericFromEnv()
		detectedFeatures = f
		log.Debug().
			Stringer("family", f.Family).
			Stringer("uarch", f.Uarch).
			Bool("sse2", f.HasSSE2).
			Bool("neon", f.HasNEON).
			Bool("force_generic", f.ForceGeneric).
			Str("brand", f.Brand).
			Msg("host capabilities detected")
	})

	return detectedFeatures, detectErr
}

func forceGenericFromEnv() bool {
	val := os.Getenv(ForceGenericEnv)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// SetForcedFeatures overrides hardware detection with the specified features.
// This is intended for testing purposes only.
func SetForcedFeatures(f Features) {
	forcedMutex.Lock()
	defer forcedMutex.Unlock()
	forced := f
	forcedFeatures = &forced
}

// ResetDetection clears any forced features and the detection cache.
// This is intended for testing purposes.
func ResetDetection() {
	forcedMutex.Lock()
	forcedFeatures = nil
	forcedMutex.Unlock()

	Deinitialize()
}

// Supports returns true if the given features support the specified SIMD level.
func Supports(features Features, level SIMDLevel) bool {
	if features.ForceGeneric {
		return level == SIMDNone
	}

	switch level {
	case SIMDNone:
		return true
	case SIMDSSE2:
		return features.HasSSE2
	case SIMDNEON:
		return features.HasNEON
	default:
		return false
	}
}
