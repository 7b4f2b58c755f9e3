//go:build (arm || arm64) && !purego

package neon

// zipBlock is the number of elements interleaved per store.
const zipBlock = 8

// ZipX2 interleaves two planes of n bytes, eight elements at a time.
func ZipX2(n int, x, y []uint8) {
	a, b := x[:n], x[n:2*n]
	i := 0
	for ; i+zipBlock <= n; i += zipBlock {
		pa := (*[zipBlock]uint8)(a[i:])
		pb := (*[zipBlock]uint8)(b[i:])
		out := (*[2 * zipBlock]uint8)(y[2*i:])
		for j := range zipBlock {
			out[2*j] = pa[j]
			out[2*j+1] = pb[j]
		}
	}
	for ; i < n; i++ {
		y[2*i] = a[i]
		y[2*i+1] = b[i]
	}
}

// ZipX4 interleaves four planes of n bytes, eight elements at a time.
func ZipX4(n int, x, y []uint8) {
	a, b, c, d := x[:n], x[n:2*n], x[2*n:3*n], x[3*n:4*n]
	i := 0
	for ; i+zipBlock <= n; i += zipBlock {
		pa := (*[zipBlock]uint8)(a[i:])
		pb := (*[zipBlock]uint8)(b[i:])
		pc := (*[zipBlock]uint8)(c[i:])
		pd := (*[zipBlock]uint8)(d[i:])
		out := (*[4 * zipBlock]uint8)(y[4*i:])
		for j := range zipBlock {
			out[4*j] = pa[j]
			out[4*j+1] = pb[j]
			out[4*j+2] = pc[j]
			out[4*j+3] = pd[j]
		}
	}
	for ; i < n; i++ {
		y[4*i] = a[i]
		y[4*i+1] = b[i]
		y[4*i+2] = c[i]
		y[4*i+3] = d[i]
	}
}
