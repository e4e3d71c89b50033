package primitives

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// FormatSID renders a raw Windows SID buffer — revision(1)
// subauth_count(1) identifier_authority(6, big-endian)
// subauthority*4(little-endian each) — as the canonical
// S-revision-authority-subauth... string.
func FormatSID(sid []byte) string {
	if len(sid) < 8 {
		return ""
	}
	revision := sid[0]
	subAuthCount := int(sid[1])
	if len(sid) < 8+subAuthCount*4 {
		return ""
	}
	var authority uint64
	for i := 0; i < 6; i++ {
		authority = authority<<8 | uint64(sid[2+i])
	}
	parts := make([]string, 0, subAuthCount)
	for i := 0; i < subAuthCount; i++ {
		at := 8 + i*4
		parts = append(parts, fmt.Sprintf("%d", binary.LittleEndian.Uint32(sid[at:])))
	}
	out := fmt.Sprintf("S-%d-%d", revision, authority)
	if len(parts) > 0 {
		out += "-" + strings.Join(parts, "-")
	}
	return out
}
