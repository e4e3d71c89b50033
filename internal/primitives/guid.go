package primitives

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// FormatGuidLEBytes renders a 16-byte GUID whose first three fields
// are stored little-endian (registry, shell items, LNK extra data).
// A length mismatch yields a sentinel string rather than an error.
func FormatGuidLEBytes(b []byte) string {
	if len(b) != 16 {
		return notAGuid(b)
	}
	data1 := binary.LittleEndian.Uint32(b[0:4])
	data2 := binary.LittleEndian.Uint16(b[4:6])
	data3 := binary.LittleEndian.Uint16(b[6:8])
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		data1, data2, data3, b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15])
}

// FormatGuidBEBytes renders a 16-byte GUID stored entirely in network
// byte order (Darwin UUIDs: Spotlight, Unified Log, FSEvents).
func FormatGuidBEBytes(b []byte) string {
	if len(b) != 16 {
		return notAGuid(b)
	}
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7],
		b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15])
}

func notAGuid(b []byte) string {
	return fmt.Sprintf("Not a GUID/UUID: %x", b)
}

// IsWellKnownGuid compares a formatted GUID string against a
// well-known constant using github.com/google/uuid's comparison
// (case/format-insensitive), used by the Property Store decoder to
// recognize the string-keyed d5cdd505 bag without hand-rolling a
// second normalizer.
func IsWellKnownGuid(formatted, wellKnown string) bool {
	a, err1 := uuid.Parse(formatted)
	b, err2 := uuid.Parse(wellKnown)
	if err1 != nil || err2 != nil {
		return false
	}
	return a == b
}

// LEBytesOfGuid is the inverse of FormatGuidLEBytes, used by the GUID
// round-trip property test.
func LEBytesOfGuid(s string) ([]byte, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	raw, _ := id.MarshalBinary() // big-endian per RFC 4122
	out := make([]byte, 16)
	copy(out, raw)
	// swap the first three fields into little-endian order
	out[0], out[1], out[2], out[3] = raw[3], raw[2], raw[1], raw[0]
	out[4], out[5] = raw[5], raw[4]
	out[6], out[7] = raw[7], raw[6]
	return out, nil
}
