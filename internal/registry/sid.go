package registry

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// parseOwnerSID extracts and formats the owner SID from a relative
// SECURITY_DESCRIPTOR blob: revision(1) sbz1(1) control(2)
// owner_offset(4) group_offset(4) sacl_offset(4) dacl_offset(4), with
// the SID itself at owner_offset: revision(1) subauth_count(1)
// identifier_authority(6, big-endian) then subauth_count * uint32 LE.
func parseOwnerSID(sd []byte) string {
	if len(sd) < 8 {
		return ""
	}
	ownerOffset := binary.LittleEndian.Uint32(sd[4:])
	if int(ownerOffset)+8 > len(sd) {
		return ""
	}
	sid := sd[ownerOffset:]
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
