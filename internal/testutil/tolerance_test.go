package testutil

import "testing"

func TestMaxByteDiff(t *testing.T) {
	got, err := MaxByteDiff([]uint8{0, 10, 255}, []uint8{1, 7, 250})
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Fatalf("MaxByteDiff = %d, want 5", got)
	}
}

func TestRequireBytesWithinTolerance(t *testing.T) {
	RequireBytesWithin(t, []uint8{1, 2, 255}, []uint8{2, 1, 254}, 1)
}

func TestMaxByteDiffLengthMismatch(t *testing.T) {
	if _, err := MaxByteDiff([]uint8{1}, []uint8{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMaxByteDiffIdentical(t *testing.T) {
	a := DeterministicBytes(7, 64)
	got, err := MaxByteDiff(a, a)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Fatalf("MaxByteDiff of identical slices = %d", got)
	}
}

func TestDeterministicBytesReproducible(t *testing.T) {
	a := DeterministicBytes(42, 128)
	b := DeterministicBytes(42, 128)
	c := DeterministicBytes(43, 128)
	if d, _ := MaxByteDiff(a, b); d != 0 {
		t.Fatal("same seed produced different bytes")
	}
	if d, _ := MaxByteDiff(a, c); d == 0 {
		t.Fatal("different seeds produced identical bytes")
	}
}

func TestStridedPadding(t *testing.T) {
	rows := [][]uint8{{1, 2, 3}, {4, 5, 6}}
	buf := Strided(rows, 3, 5)
	if len(buf) != 8 {
		t.Fatalf("len = %d, want 8", len(buf))
	}
	want := []uint8{1, 2, 3, Sentinel, Sentinel, 4, 5, 6}
	RequireBytesWithin(t, buf, want, 0)
	RequirePadding(t, buf, 3, 5)
}
