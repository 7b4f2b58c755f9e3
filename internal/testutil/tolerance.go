package testutil

import (
	"fmt"
	"testing"
)

// RequireBytesWithin fails t if got and want differ in length or if any
// element pair differs by more than tol.
func RequireBytesWithin(t *testing.T, got, want []uint8, tol int) {
	t.Helper()
	maxDiff, err := MaxByteDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if maxDiff <= tol {
		return
	}
	for i := range got {
		if d := absDiff(got[i], want[i]); d > tol {
			t.Fatalf("index %d: got %d, want %d (diff %d > tol %d)", i, got[i], want[i], d, tol)
		}
	}
}

// RequirePadding fails t if any byte in [width, stride) of a row of buf is
// not Sentinel. The last row may be truncated at width.
func RequirePadding(t *testing.T, buf []uint8, width, stride int) {
	t.Helper()
	for base := 0; base < len(buf); base += stride {
		end := min(base+stride, len(buf))
		for i := base + width; i < end; i++ {
			if buf[i] != Sentinel {
				t.Fatalf("padding byte %d (row %d) = %#x, want %#x", i, base/stride, buf[i], Sentinel)
			}
		}
	}
}

// MaxByteDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxByteDiff(a, b []uint8) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0
	for i := range a {
		if d := absDiff(a[i], b[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
