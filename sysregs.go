package cpufeatures

// sysRegs holds the AArch64 ID registers the register parser consults.
type sysRegs struct {
	isar0 uint64 // ID_AA64ISAR0_EL1
	isar1 uint64 // ID_AA64ISAR1_EL1
	mmfr2 uint64 // ID_AA64MMFR2_EL1
	pfr0  uint64 // ID_AA64PFR0_EL1, valid only if hasPFR0
	// hasPFR0 is false on kernels that do not export ID_AA64PFR0_EL1.
	hasPFR0 bool
}

// field extracts bits [high:low] of x.
func field(x uint64, high, low uint) uint64 {
	return (x >> low) & (1<<(high-low+1) - 1)
}

// parseSystemRegisters translates AArch64 ID register values into features.
// Field layouts follow the Arm Architecture Reference Manual.
func parseSystemRegisters(r sysRegs) Initializer {
	var value Initializer

	// ID_AA64ISAR0_EL1 - Instruction Set Attribute Register 0
	value.enableFeature(ARM64PMULL, field(r.isar0, 7, 4) >= 2)
	value.enableFeature(ARM64TME, field(r.isar0, 27, 24) == 1)
	value.enableFeature(ARM64LSE, field(r.isar0, 23, 20) >= 2)
	value.enableFeature(ARM64CRC, field(r.isar0, 19, 16) >= 1)

	// ID_AA64PFR0_EL1 - Processor Feature Register 0
	if r.hasPFR0 {
		fp := field(r.pfr0, 19, 16) < 0xF
		fphp := fp && field(r.pfr0, 19, 16) >= 1
		asimd := field(r.pfr0, 23, 20) < 0xF
		asimdhp := asimd && field(r.pfr0, 23, 20) >= 1
		value.enableFeature(ARM64FP, fp)
		value.enableFeature(ARM64FP16, fphp)
		// SIMD needs float, and half-float SIMD when half floats exist.
		simd := fp && asimd && (!fphp || asimdhp)
		value.enableFeature(ARM64ASIMD, simd)
		// SIMD extensions need SIMD.
		value.enableFeature(ARM64AES, simd && field(r.isar0, 7, 4) >= 2)
		sha1 := field(r.isar0, 11, 8) >= 1
		sha2 := field(r.isar0, 15, 12) >= 1
		value.enableFeature(ARM64SHA2, simd && sha1 && sha2)
		value.enableFeature(ARM64RDM, simd && field(r.isar0, 31, 28) >= 1)
		value.enableFeature(ARM64DotProd, simd && field(r.isar0, 47, 44) >= 1)
		value.enableFeature(ARM64SVE, simd && field(r.pfr0, 35, 32) >= 1)
	}

	// ID_AA64ISAR1_EL1 - Instruction Set Attribute Register 1
	// APA or API
	value.enableFeature(ARM64PACA, field(r.isar1, 11, 4) >= 1)
	value.enableFeature(ARM64RCPC, field(r.isar1, 23, 20) >= 1)
	// GPA or GPI
	value.enableFeature(ARM64PACG, field(r.isar1, 31, 24) >= 1)

	// ID_AA64MMFR2_EL1 - Memory Model Feature Register 2
	value.enableFeature(ARM64LSE2, field(r.mmfr2, 35, 32) >= 1)

	return value
}
