package testutil

import "math/rand/v2"

// Sentinel is written into stride padding so tests can detect stray writes.
const Sentinel uint8 = 0xA5

// DeterministicBytes returns n pseudo-random bytes from a fixed seed.
func DeterministicBytes(seed uint64, n int) []uint8 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(rng.UintN(256))
	}
	return out
}

// Fill returns n bytes all set to v.
func Fill(v uint8, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Strided lays rows of width bytes out with the given stride. Bytes in
// [width, stride) of every row are set to Sentinel.
func Strided(rows [][]uint8, width, stride int) []uint8 {
	if len(rows) == 0 {
		return nil
	}
	out := Fill(Sentinel, (len(rows)-1)*stride+width)
	for r, row := range rows {
		copy(out[r*stride:r*stride+width], row[:width])
	}
	return out
}
