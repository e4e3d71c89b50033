//go:build !windows

package fsaccess

import "github.com/puffycid/artemis-core/internal/primitives"

// OpenRawVolume is a Windows-only capability (per the platform
// capability traits in the spec's Design Notes). On every other
// platform, the NTFS layer falls back to direct file I/O against a
// forensic image instead.
func OpenRawVolume(driveLetter string) (RawReader, error) {
	return nil, &primitives.ResourceNotAcquired{
		Resource: "raw volume " + driveLetter,
		Cause:    errUnsupportedPlatform,
	}
}

var errUnsupportedPlatform = rawVolumeUnsupported{}

type rawVolumeUnsupported struct{}

func (rawVolumeUnsupported) Error() string {
	return "raw volume access requires a live Windows host"
}
