//go:build purego

package kernels

import (
	// Generic implementations (pure Go fallback)
	_ "github.com/cwbudde/algo-qnn/internal/kernels/arch/generic"
)
