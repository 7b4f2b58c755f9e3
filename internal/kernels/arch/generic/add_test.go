package generic

import (
	"testing"

	"github.com/cwbudde/algo-qnn/internal/requant"
)

func TestUVAdd(t *testing.T) {
	q, err := requant.NewAdd(1, 1, 1, 10, 20, 5, 0, 255)
	if err != nil {
		t.Fatal(err)
	}
	a := []uint8{10, 11, 100, 255}
	b := []uint8{20, 22, 200, 255}
	y := make([]uint8, len(a))
	UVAdd(len(a), a, b, y, &q)

	want := []uint8{5, 8, 255, 255}
	for i := range want {
		if y[i] != want[i] {
			t.Fatalf("UVAdd[%d] = %d, want %d", i, y[i], want[i])
		}
	}
}
