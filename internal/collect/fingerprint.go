package collect

import (
	"os"
	"runtime"
)

// Fingerprint is the host-identifying subset of the collection-
// metadata envelope: hostname, kernel version, OS platform, and a
// three-sample load average. One Fingerprint is captured per run, not
// per artifact, and threaded through by the orchestrator's context.
type Fingerprint struct {
	Hostname    string
	Kernel      string
	Platform    string
	LoadAverage [3]float64
}

// CaptureFingerprint reads the current host's identity, best-effort —
// a platform without a known uname/loadavg source simply leaves those
// fields zero rather than failing the run.
func CaptureFingerprint() Fingerprint {
	host, _ := os.Hostname()
	return Fingerprint{
		Hostname:    host,
		Kernel:      kernelVersion(),
		Platform:    runtime.GOOS,
		LoadAverage: loadAverage(),
	}
}
