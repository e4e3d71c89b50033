//go:build linux

package collect

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

func kernelVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(bytesOf(uts.Release[:]))
}

// bytesOf normalizes the Utsname char-array element type (int8 on
// some architectures, byte on others) to a plain byte slice.
func bytesOf[T byte | int8](arr []T) []byte {
	out := make([]byte, len(arr))
	for i, c := range arr {
		out[i] = byte(c)
	}
	return out
}

func loadAverage() [3]float64 {
	var out [3]float64
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return out
	}
	fields := strings.Fields(string(data))
	for i := 0; i < 3 && i < len(fields); i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err == nil {
			out[i] = v
		}
	}
	return out
}
