//go:build darwin

package collect

import "golang.org/x/sys/unix"

func kernelVersion() string {
	rel, err := unix.Sysctl("kern.osrelease")
	if err != nil {
		return ""
	}
	return rel
}

// loadAverage: Darwin's three-sample load average is read through the
// getloadavg(3) syscall, which golang.org/x/sys/unix does not wrap on
// this platform; left at zero rather than shelling out, consistent
// with "best-effort, never fail the run" above.
func loadAverage() [3]float64 {
	return [3]float64{}
}
