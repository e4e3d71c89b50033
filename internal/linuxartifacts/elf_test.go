package linuxartifacts

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildMinimalELF64(t *testing.T) *bytes.Reader {
	t.Helper()
	buf := make([]byte, 64)
	copy(buf[0:4], "\x7fELF")
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EV_CURRENT

	le := binary.LittleEndian
	le.PutUint16(buf[16:], 2)     // ET_EXEC
	le.PutUint16(buf[18:], 0x3E)  // EM_X86_64
	le.PutUint32(buf[20:], 1)     // e_version
	le.PutUint64(buf[24:], 0x401000)
	le.PutUint16(buf[52:], 64) // ehsize

	return bytes.NewReader(buf)
}

func TestParseELFMinimal(t *testing.T) {
	info, err := ParseELF(buildMinimalELF64(t))
	if err != nil {
		t.Fatalf("ParseELF: %v", err)
	}
	if info.Class != "ELFCLASS64" {
		t.Fatalf("Class = %q", info.Class)
	}
	if info.Entry != 0x401000 {
		t.Fatalf("Entry = %x, want 0x401000", info.Entry)
	}
}

func TestParseELFRejectsBadMagic(t *testing.T) {
	if _, err := ParseELF(bytes.NewReader(make([]byte, 64))); err == nil {
		t.Fatalf("expected error on bad magic")
	}
}
