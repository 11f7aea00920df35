package cpufeatures

import "testing"

// ID register field values used across the AArch64 tests.
const (
	isar0AESPMULL = 2 << 4
	isar0SHA1     = 1 << 8
	isar0SHA256   = 1 << 12
	isar0CRC32    = 1 << 16
	isar0Atomics  = 2 << 20
	isar0TME      = 1 << 24
	isar0RDM      = 1 << 28
	isar0DP       = 1 << 44

	isar1APA  = 1 << 4
	isar1RCPC = 1 << 20
	isar1GPA  = 1 << 24

	mmfr2AT = 1 << 32

	pfr0FPNone    = 0xF << 16
	pfr0FPHP      = 1 << 16
	pfr0ASIMDNone = 0xF << 20
	pfr0ASIMDHP   = 1 << 20
	pfr0SVE       = 1 << 32
)

func TestField(t *testing.T) {
	tests := []struct {
		x         uint64
		high, low uint
		want      uint64
	}{
		{0xABCD, 7, 4, 0xC},
		{0xABCD, 3, 0, 0xD},
		{0xABCD, 15, 12, 0xA},
		{1 << 44, 47, 44, 1},
		{^uint64(0), 11, 4, 0xFF},
	}
	for _, tt := range tests {
		if got := field(tt.x, tt.high, tt.low); got != tt.want {
			t.Errorf("field(%#x, %d, %d) = %#x, want %#x", tt.x, tt.high, tt.low, got, tt.want)
		}
	}
}

func TestParseSystemRegisters(t *testing.T) {
	allISAR0 := uint64(isar0AESPMULL | isar0SHA1 | isar0SHA256 | isar0CRC32 | isar0Atomics | isar0TME | isar0RDM | isar0DP)

	tests := []struct {
		name string
		regs sysRegs
		want Initializer
	}{
		{
			name: "zero registers with PFR0 mean plain fp and asimd",
			regs: sysRegs{hasPFR0: true},
			want: features(ARM64FP, ARM64ASIMD),
		},
		{
			name: "zero registers without PFR0",
			regs: sysRegs{},
			want: Initializer{},
		},
		{
			name: "full ISAR0 with SIMD",
			regs: sysRegs{isar0: allISAR0, hasPFR0: true},
			want: features(
				ARM64FP, ARM64ASIMD, ARM64PMULL, ARM64AES, ARM64SHA2, ARM64CRC,
				ARM64LSE, ARM64TME, ARM64RDM, ARM64DotProd,
			),
		},
		{
			name: "SIMD extensions need PFR0",
			regs: sysRegs{isar0: allISAR0},
			want: features(ARM64PMULL, ARM64CRC, ARM64LSE, ARM64TME),
		},
		{
			name: "no float disables SIMD and its extensions",
			regs: sysRegs{isar0: allISAR0, pfr0: pfr0FPNone, hasPFR0: true},
			want: features(ARM64PMULL, ARM64CRC, ARM64LSE, ARM64TME),
		},
		{
			name: "no SIMD",
			regs: sysRegs{isar0: isar0SHA1 | isar0SHA256, pfr0: pfr0ASIMDNone, hasPFR0: true},
			want: features(ARM64FP),
		},
		{
			name: "half floats without half-float SIMD",
			regs: sysRegs{pfr0: pfr0FPHP, hasPFR0: true},
			want: features(ARM64FP, ARM64FP16),
		},
		{
			name: "half floats with half-float SIMD",
			regs: sysRegs{pfr0: pfr0FPHP | pfr0ASIMDHP, hasPFR0: true},
			want: features(ARM64FP, ARM64FP16, ARM64ASIMD),
		},
		{
			name: "sha1 without sha256",
			regs: sysRegs{isar0: isar0SHA1, hasPFR0: true},
			want: features(ARM64FP, ARM64ASIMD),
		},
		{
			name: "AES field 1 is AES without PMULL",
			regs: sysRegs{isar0: 1 << 4, hasPFR0: true},
			want: features(ARM64FP, ARM64ASIMD),
		},
		{
			name: "atomics field 1 is not LSE",
			regs: sysRegs{isar0: 1 << 20},
			want: Initializer{},
		},
		{
			name: "sve",
			regs: sysRegs{pfr0: pfr0SVE, hasPFR0: true},
			want: features(ARM64FP, ARM64ASIMD, ARM64SVE),
		},
		{
			name: "ISAR1 and MMFR2",
			regs: sysRegs{isar1: isar1APA | isar1RCPC | isar1GPA, mmfr2: mmfr2AT},
			want: features(ARM64PACA, ARM64RCPC, ARM64PACG, ARM64LSE2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSystemRegisters(tt.regs); got != tt.want {
				t.Errorf("parseSystemRegisters(%+v) = %v, want %v", tt.regs, got.Indices(), tt.want.Indices())
			}
		})
	}
}
