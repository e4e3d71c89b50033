//go:build !linux && !darwin && !windows

package fsaccess

import "io/fs"

// Any other platform: no structured stat extension is known, so only
// ModTime (filled in by the caller) is available.
func platformMetadata(info fs.FileInfo) Metadata {
	return Metadata{}
}
