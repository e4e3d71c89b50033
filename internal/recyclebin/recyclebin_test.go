package recyclebin

import (
	"encoding/binary"
	"testing"

	"github.com/puffycid/artemis-core/internal/primitives"
)

func TestParseV2(t *testing.T) {
	path := `C:\Users\bob\Projects\osquery\build\ns_osquery_utils_system_systemutils`
	nameUTF16 := make([]byte, 0, len(path)*2+2)
	for _, r := range path {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(r))
		nameUTF16 = append(nameUTF16, b...)
	}
	nameUTF16 = append(nameUTF16, 0, 0)

	const deletedFiletime = uint64(0xF06C446C11A5D7F0)

	buf := make([]byte, 28+len(nameUTF16))
	binary.LittleEndian.PutUint64(buf[0:], 2) // version
	binary.LittleEndian.PutUint64(buf[8:], 0) // size
	binary.LittleEndian.PutUint64(buf[16:], deletedFiletime)
	binary.LittleEndian.PutUint32(buf[24:], uint32(len(nameUTF16)))
	copy(buf[28:], nameUTF16)

	entry, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if entry.Version != 2 {
		t.Fatalf("Version = %d", entry.Version)
	}
	if entry.Size != 0 {
		t.Fatalf("Size = %d, want 0", entry.Size)
	}
	if entry.Filename != "ns_osquery_utils_system_systemutils" {
		t.Fatalf("Filename = %q", entry.Filename)
	}
	if entry.Directory != `C:\Users\bob\Projects\osquery\build` {
		t.Fatalf("Directory = %q", entry.Directory)
	}
	if entry.FullPath != path {
		t.Fatalf("FullPath = %q", entry.FullPath)
	}
	if entry.Deleted == primitives.Sentinel {
		t.Fatalf("Deleted should not be the absent-time sentinel")
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, 99)
	if _, err := Parse(buf); err == nil {
		t.Fatalf("expected error on unsupported version")
	}
}

func TestParseV1TruncatedHeader(t *testing.T) {
	buf := make([]byte, 4)
	if _, err := Parse(buf); err == nil {
		t.Fatalf("expected truncation error")
	}
}
