//go:build (arm || arm64) && !purego

package kernels

// This file imports ARM-specific implementation packages to trigger
// their init() functions, which register kernels with the global registry.

import (
	// Generic implementations (pure Go fallback)
	_ "github.com/cwbudde/algo-qnn/internal/kernels/arch/generic"

	// ARM implementations
	_ "github.com/cwbudde/algo-qnn/internal/kernels/arch/arm/neon"
)
