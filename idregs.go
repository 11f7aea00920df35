package cpufeatures

// OpenBSD exports the AArch64 ID registers under CTL_MACHDEP, without
// sysctl names (arm64/include/cpu.h).
var (
	idAA64ISAR0 = sysctlMIB{ctlMachdep, 2} // CPU_ID_AA64ISAR0
	idAA64ISAR1 = sysctlMIB{ctlMachdep, 3} // CPU_ID_AA64ISAR1
	idAA64MMFR2 = sysctlMIB{ctlMachdep, 7} // CPU_ID_AA64MMFR2
	idAA64PFR0  = sysctlMIB{ctlMachdep, 8} // CPU_ID_AA64PFR0
)

// detectOpenBSDIDRegs reads the features from the ID registers OpenBSD
// exports through sysctl. The kernel reports the boot core's registers,
// sanitized to the set common to every core.
func detectOpenBSDIDRegs(r mibReader) Initializer {
	var regs sysRegs
	var err error

	if regs.isar0, err = mibUint64(r, idAA64ISAR0); err != nil {
		return Initializer{}
	}
	if regs.isar1, err = mibUint64(r, idAA64ISAR1); err != nil {
		return Initializer{}
	}
	if regs.mmfr2, err = mibUint64(r, idAA64MMFR2); err != nil {
		return Initializer{}
	}
	// Older kernels lack CPU_ID_AA64PFR0; the parser skips PFR0 fields then.
	if pfr0, err := mibUint64(r, idAA64PFR0); err == nil {
		regs.pfr0, regs.hasPFR0 = pfr0, true
	}

	return parseSystemRegisters(regs)
}
