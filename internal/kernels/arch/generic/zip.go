package generic

// ZipX2 interleaves two planes of n bytes.
func ZipX2(n int, x, y []uint8) {
	a, b := x[:n], x[n:2*n]
	y = y[:2*n]
	for i := range a {
		y[2*i] = a[i]
		y[2*i+1] = b[i]
	}
}

// ZipX3 interleaves three planes of n bytes.
func ZipX3(n int, x, y []uint8) {
	a, b, c := x[:n], x[n:2*n], x[2*n:3*n]
	y = y[:3*n]
	for i := range a {
		y[3*i] = a[i]
		y[3*i+1] = b[i]
		y[3*i+2] = c[i]
	}
}

// ZipX4 interleaves four planes of n bytes.
func ZipX4(n int, x, y []uint8) {
	a, b, c, d := x[:n], x[n:2*n], x[2*n:3*n], x[3*n:4*n]
	y = y[:4*n]
	for i := range a {
		y[4*i] = a[i]
		y[4*i+1] = b[i]
		y[4*i+2] = c[i]
		y[4*i+3] = d[i]
	}
}

// ZipXM interleaves m planes of n bytes.
func ZipXM(n, m int, x, y []uint8) {
	for j := 0; j < m; j++ {
		plane := x[j*n : (j+1)*n]
		for i, v := range plane {
			y[i*m+j] = v
		}
	}
}
