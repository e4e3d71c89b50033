package ntfs

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// StandardInformation is a decoded $STANDARD_INFORMATION attribute:
// the filesystem's own timestamp set, tracked independently of the
// $FILE_NAME timestamps (which a rename/hard-link updates, and which
// timestomping tools that only touch $STANDARD_INFORMATION leave
// unaffected).
type StandardInformation struct {
	Created    uint64
	Modified   uint64
	MFTChanged uint64
	Accessed   uint64
}

// ParseStandardInformation decodes a resident $STANDARD_INFORMATION
// attribute body. Only the four timestamps are extracted; the
// optional NTFS 3.0+ fields that follow them (owner ID, security ID,
// quota charged, USN) play no part in the timestamp comparison this
// package supports.
func ParseStandardInformation(buf []byte) (*StandardInformation, error) {
	if len(buf) < 32 {
		return nil, &primitives.Truncation{Artifact: "ntfs.standardinformation", Wanted: 32, Got: len(buf)}
	}
	le := binary.LittleEndian
	return &StandardInformation{
		Created:    le.Uint64(buf[0:]),
		Modified:   le.Uint64(buf[8:]),
		MFTChanged: le.Uint64(buf[16:]),
		Accessed:   le.Uint64(buf[24:]),
	}, nil
}
