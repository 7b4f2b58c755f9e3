package cpu

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
)

// midr holds the identification fields of the first processor block of a
// Linux /proc/cpuinfo listing.
type midr struct {
	implementer uint32
	part        uint32
	model       string
}

// parseCPUInfo extracts the first "CPU implementer", "CPU part" and model
// name entries. Missing fields leave the zero value.
func parseCPUInfo(r io.Reader) (midr, error) {
	var (
		id                 midr
		haveImpl, havePart bool
		haveModel          bool
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "CPU implementer":
			if haveImpl {
				continue
			}
			v, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return midr{}, fmt.Errorf("cpuinfo: bad implementer %q: %w", val, err)
			}
			id.implementer = uint32(v)
			haveImpl = true
		case "CPU part":
			if havePart {
				continue
			}
			v, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return midr{}, fmt.Errorf("cpuinfo: bad part %q: %w", val, err)
			}
			id.part = uint32(v)
			havePart = true
		case "model name", "Processor":
			if !haveModel {
				id.model = val
				haveModel = true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return midr{}, err
	}

	return id, nil
}

func coreCount(reported int) int {
	if reported > 0 {
		return reported
	}
	return runtime.NumCPU()
}
