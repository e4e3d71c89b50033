package machoinfo

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalMachO64 builds a header-only 64-bit Mach-O (no load
// commands), enough for debug/macho.NewFile to succeed.
func buildMinimalMachO64(t *testing.T) *bytes.Reader {
	t.Helper()
	buf := make([]byte, 32)
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], 0xfeedfacf) // MH_MAGIC_64
	le.PutUint32(buf[4:8], 0x01000007) // CPU_TYPE_X86_64
	le.PutUint32(buf[8:12], 3)         // CPU_SUBTYPE_X86_64_ALL
	le.PutUint32(buf[12:16], 2)        // MH_EXECUTE
	le.PutUint32(buf[16:20], 0)        // ncmds
	le.PutUint32(buf[20:24], 0)        // sizeofcmds
	le.PutUint32(buf[24:28], 0)        // flags
	le.PutUint32(buf[28:32], 0)        // reserved
	return bytes.NewReader(buf)
}

func TestParseMinimalMachO(t *testing.T) {
	slices, err := Parse(buildMinimalMachO64(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(slices))
	}
	if slices[0].CPU == "" {
		t.Fatal("expected a non-empty CPU name")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte("not a macho file"))); err == nil {
		t.Fatal("expected format violation")
	}
}
