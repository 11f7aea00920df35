package cpufeatures

import "testing"

func TestIDRegMIBs(t *testing.T) {
	tests := []struct {
		name string
		got  sysctlMIB
		want sysctlMIB
	}{
		{"CPU_ID_AA64ISAR0", idAA64ISAR0, sysctlMIB{7, 2}},
		{"CPU_ID_AA64ISAR1", idAA64ISAR1, sysctlMIB{7, 3}},
		{"CPU_ID_AA64MMFR2", idAA64MMFR2, sysctlMIB{7, 7}},
		{"CPU_ID_AA64PFR0", idAA64PFR0, sysctlMIB{7, 8}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func openbsdIDRegs(isar0, isar1, mmfr2, pfr0 uint64) *fakeMIB {
	return &fakeMIB{values: map[sysctlMIB][]byte{
		idAA64ISAR0: u64(isar0),
		idAA64ISAR1: u64(isar1),
		idAA64MMFR2: u64(mmfr2),
		idAA64PFR0:  u64(pfr0),
	}}
}

func TestDetectOpenBSDIDRegs(t *testing.T) {
	const isar0 = isar0AESPMULL | isar0SHA1 | isar0SHA256 | isar0CRC32

	t.Run("all registers", func(t *testing.T) {
		r := openbsdIDRegs(isar0, isar1RCPC, mmfr2AT, pfr0SVE)
		want := parseSystemRegisters(sysRegs{isar0: isar0, isar1: isar1RCPC, mmfr2: mmfr2AT, pfr0: pfr0SVE, hasPFR0: true})
		if got := detectOpenBSDIDRegs(r); got != want {
			t.Errorf("detectOpenBSDIDRegs() = %v, want %v", got.Indices(), want.Indices())
		}
	})

	t.Run("PFR0 unavailable", func(t *testing.T) {
		r := openbsdIDRegs(isar0, 0, 0, 0)
		delete(r.values, idAA64PFR0)
		got := detectOpenBSDIDRegs(r)
		if want := features(ARM64PMULL, ARM64CRC); got != want {
			t.Errorf("detectOpenBSDIDRegs() = %v, want %v", got.Indices(), want.Indices())
		}
	})

	for _, mib := range []sysctlMIB{idAA64ISAR0, idAA64ISAR1, idAA64MMFR2} {
		t.Run(mib.String()+" unavailable", func(t *testing.T) {
			r := openbsdIDRegs(isar0, isar1RCPC, mmfr2AT, 0)
			delete(r.values, mib)
			if got := detectOpenBSDIDRegs(r); !got.IsEmpty() {
				t.Errorf("detectOpenBSDIDRegs() = %v, want empty", got.Indices())
			}
		})

		t.Run(mib.String()+" wrong size", func(t *testing.T) {
			r := openbsdIDRegs(isar0, isar1RCPC, mmfr2AT, 0)
			r.values[mib] = u32(1)
			if got := detectOpenBSDIDRegs(r); !got.IsEmpty() {
				t.Errorf("detectOpenBSDIDRegs() = %v, want empty", got.Indices())
			}
		})
	}
}
