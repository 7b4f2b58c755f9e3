//go:build (386 || amd64) && !purego

package kernels

// This file imports x86-specific implementation packages to trigger
// their init() functions, which register kernels with the global registry.

import (
	// Generic implementations (pure Go fallback)
	_ "github.com/cwbudde/algo-qnn/internal/kernels/arch/generic"

	// x86 implementations
	_ "github.com/cwbudde/algo-qnn/internal/kernels/arch/amd64/sse2"
)
