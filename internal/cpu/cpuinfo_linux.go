//go:build linux && (arm || arm64)

package cpu

import "os"

const procCPUInfo = "/proc/cpuinfo"

func readMIDR() (midr, error) {
	f, err := os.Open(procCPUInfo)
	if err != nil {
		return midr{}, err
	}
	defer f.Close()

	return parseCPUInfo(f)
}
