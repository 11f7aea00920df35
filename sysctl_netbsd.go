package cpufeatures

import "golang.org/x/sys/unix"

// unixSysctl reads sysctl values by name through x/sys/unix, which resolves
// names with the kernel's CTL_QUERY.
type unixSysctl struct{}

func (unixSysctl) Sysctl(name string, buf []byte) (int, error) {
	b, err := unix.SysctlRaw(name)
	if err != nil {
		return 0, err
	}
	copy(buf, b)
	return len(b), nil
}
