//go:build !386 && !amd64 && !arm && !arm64

package cpu

// Only x86 and ARM hosts have kernels. Building for any other GOARCH stops here.
var _ int = "algo-qnn: unsupported architecture, build for 386, amd64, arm or arm64"
