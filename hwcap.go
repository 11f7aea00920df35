package cpufeatures

import "math/bits"

// atHWCAPFreeBSD is AT_HWCAP in FreeBSD's sys/elf_common.h.
const atHWCAPFreeBSD = 25

// riscvBaseInteger selects the base integer ISA by pointer width.
// bits.UintSize is a constant, so the choice is fixed at build time.
var riscvBaseInteger = map[int]Feature{
	32: RISCVRV32I,
	64: RISCVRV64I,
}[bits.UintSize]

// riscvLetter reports whether the single-letter extension c is set in hwcap.
// The values are defined in machine/elf.h as 1 << (letter - 'a').
func riscvLetter(hwcap uint64, c byte) bool {
	return hwcap&(1<<(c-'a')) != 0
}

// parseRISCVHWCap translates a RISC-V hardware capability word.
func parseRISCVHWCap(hwcap uint64) Initializer {
	var value Initializer

	value.enableFeature(RISCVA, riscvLetter(hwcap, 'a'))
	value.enableFeature(RISCVC, riscvLetter(hwcap, 'c'))
	value.enableFeatures([]Feature{RISCVD, RISCVF, RISCVZicsr}, riscvLetter(hwcap, 'd'))
	value.enableFeatures([]Feature{RISCVF, RISCVZicsr}, riscvLetter(hwcap, 'f'))
	// RV128I would need its own variant here.
	value.enableFeature(riscvBaseInteger, riscvLetter(hwcap, 'i'))
	value.enableFeature(RISCVM, riscvLetter(hwcap, 'm'))

	return value
}

// detectRISCVAuxv reads the supported features from the auxiliary vector.
func detectRISCVAuxv(r auxvReader, tag uintptr) Initializer {
	hwcap, err := r.Auxval(tag)
	if err != nil {
		return Initializer{}
	}
	return parseRISCVHWCap(hwcap)
}
