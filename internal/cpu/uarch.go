package cpu

// Uarch identifies a CPU core design within an instruction-set family.
type Uarch int

const (
	UarchUnknown Uarch = iota
	UarchCortexA53
	UarchCortexA55
	UarchCortexA57
	UarchCortexA72
	UarchCortexA73
	UarchCortexA75
	UarchCortexA76
)

// String returns the marketing name of the core.
func (u Uarch) String() string {
	switch u {
	case UarchCortexA53:
		return "Cortex-A53"
	case UarchCortexA55:
		return "Cortex-A55"
	case UarchCortexA57:
		return "Cortex-A57"
	case UarchCortexA72:
		return "Cortex-A72"
	case UarchCortexA73:
		return "Cortex-A73"
	case UarchCortexA75:
		return "Cortex-A75"
	case UarchCortexA76:
		return "Cortex-A76"
	default:
		return "unknown"
	}
}

// implementerARM is the MIDR implementer code of ARM Ltd. cores.
const implementerARM = 0x41

// armParts maps MIDR part numbers of ARM Ltd. cores.
var armParts = map[uint32]Uarch{
	0xd03: UarchCortexA53,
	0xd05: UarchCortexA55,
	0xd07: UarchCortexA57,
	0xd08: UarchCortexA72,
	0xd09: UarchCortexA73,
	0xd0a: UarchCortexA75,
	0xd0b: UarchCortexA76,
}

// DecodeUarch maps a MIDR implementer/part pair to a known core. Licensee
// designs and unlisted parts yield UarchUnknown.
func DecodeUarch(implementer, part uint32) Uarch {
	if implementer != implementerARM {
		return UarchUnknown
	}
	if u, ok := armParts[part]; ok {
		return u
	}
	return UarchUnknown
}
