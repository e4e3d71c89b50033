package fsaccess

import (
	"os"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// MaxBoundedRead is the hard cap on a single ReadBounded call, to
// protect memory against accidentally slurping a multi-gigabyte
// artifact (an OST, an ESE database) whole.
const MaxBoundedRead = 2 << 30 // 2 GiB

// ReadBounded reads the entirety of path, refusing files over
// MaxBoundedRead.
func ReadBounded(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &primitives.ResourceNotAcquired{Resource: path, Cause: err}
	}
	if info.Size() > MaxBoundedRead {
		return nil, &primitives.FormatViolation{Kind: "file exceeds 2 GiB bounded-read limit"}
	}
	return os.ReadFile(path)
}
