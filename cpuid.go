package cpufeatures

import (
	"encoding/binary"
	"fmt"
)

// Layout of struct aarch64_sysctl_cpu_id from NetBSD's aarch64/armreg.h.
// NetBSD 9.0 added the sysctl; 10.0 appended clidr and ctr.
// Only the fields up to and including aa64pfr0 are consulted.
const (
	cpuIDOffsetISAR0 = 5 * 8
	cpuIDOffsetISAR1 = 6 * 8
	cpuIDOffsetMMFR2 = 9 * 8
	cpuIDOffsetPFR0  = 10 * 8
	// cpuIDMinLen covers every consulted field.
	cpuIDMinLen = cpuIDOffsetPFR0 + 8
	// cpuIDLen is sizeof(struct aarch64_sysctl_cpu_id) on NetBSD 10.
	cpuIDLen = 13*8 + 4*4 + 2*8
)

// maxCPUs bounds the core indices handed to machdepName.
const maxCPUs = 1 << 16

const hwNCPU = "hw.ncpu"

// cpuID is the register tuple read from one core's cpu_id sysctl.
type cpuID struct {
	isar0, isar1, mmfr2, pfr0 uint64
}

// sameFeatures reports whether c and o agree on the registers checked
// across cores.
//
// PFR0 is left out on purpose, as is every register the parser never reads
// (MIDR, REVIDR, MPIDR and friends): big.LITTLE SoCs legitimately differ
// there, and comparing them would disable detection on most such machines.
// Some Samsung SoCs ship big and little cores with different ISA features,
// which is what the ISAR0, ISAR1 and MMFR2 comparison catches.
func (c cpuID) sameFeatures(o cpuID) bool {
	return c.isar0 == o.isar0 && c.isar1 == o.isar1 && c.mmfr2 == o.mmfr2
}

func (c cpuID) regs() sysRegs {
	return sysRegs{isar0: c.isar0, isar1: c.isar1, mmfr2: c.mmfr2, pfr0: c.pfr0, hasPFR0: true}
}

// readCPUID reads the cpu_id sysctl called name (NUL-terminated) into buf.
// The name is copied into a string per call, since sysctlReader takes
// strings like x/sys/unix does.
func readCPUID(r sysctlReader, name []byte, buf []byte) (cpuID, error) {
	key := cstring(name)
	n, err := r.Sysctl(key, buf)
	if err != nil {
		return cpuID{}, err
	}
	if n < cpuIDMinLen || n > len(buf) {
		return cpuID{}, fmt.Errorf("%s: %w: got %d bytes, want %d to %d", key, errShortRead, n, cpuIDMinLen, len(buf))
	}
	return cpuID{
		isar0: binary.NativeEndian.Uint64(buf[cpuIDOffsetISAR0:]),
		isar1: binary.NativeEndian.Uint64(buf[cpuIDOffsetISAR1:]),
		mmfr2: binary.NativeEndian.Uint64(buf[cpuIDOffsetMMFR2:]),
		pfr0:  binary.NativeEndian.Uint64(buf[cpuIDOffsetPFR0:]),
	}, nil
}

// detectNetBSDCPUID reads the features from the system registers NetBSD
// exports through machdep.cpuN.cpu_id. NetBSD does not trap mrs.
//
// The result is empty unless every core agrees with core 0.
func detectNetBSDCPUID(r sysctlReader) Initializer {
	var (
		buf  [cpuIDLen]byte
		name machdepName
	)

	// machdep.cpuN.cpu_id only exists since NetBSD 9.0.
	cpu0, err := readCPUID(r, name.cpu(0), buf[:])
	if err != nil {
		return Initializer{}
	}

	// hw.ncpu counts offline cores too, which may come online later.
	ncpu, err := sysctlUint32(r, hwNCPU)
	switch {
	case err != nil, ncpu == 0, ncpu > maxCPUs:
		return Initializer{}
	case ncpu == 1:
		return parseSystemRegisters(cpu0.regs())
	}

	for n := uint32(1); n < ncpu; n++ {
		cpu, err := readCPUID(r, name.cpu(n), buf[:])
		if err != nil || !cpu.sameFeatures(cpu0) {
			return Initializer{}
		}
	}

	return parseSystemRegisters(cpu0.regs())
}
