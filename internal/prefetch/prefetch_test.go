package prefetch

import (
	"encoding/binary"
	"testing"
)

func utf16Of(s string, fieldLen int) []byte {
	out := make([]byte, fieldLen)
	le := binary.LittleEndian
	for i, r := range s {
		if i*2+2 > fieldLen {
			break
		}
		le.PutUint16(out[i*2:], uint16(r))
	}
	return out
}

func buildWin10Fixture(t *testing.T, exe string, filenames []string) []byte {
	t.Helper()
	const infoSize = 104
	buf := make([]byte, commonHeaderSize+infoSize)
	le := binary.LittleEndian

	le.PutUint32(buf[0:], VersionWin10)
	copy(buf[4:8], "SCCA")
	copy(buf[16:76], utf16Of(exe, 60))
	le.PutUint32(buf[76:], 0xDEADBEEF) // prefetch hash

	info := buf[commonHeaderSize:]
	le.PutUint64(info[44:], 0x01D79A6B00000000) // first run time
	le.PutUint32(info[124-commonHeaderSize:], 7) // run count

	var table []byte
	for _, f := range filenames {
		for _, r := range f {
			b := make([]byte, 2)
			le.PutUint16(b, uint16(r))
			table = append(table, b...)
		}
		table = append(table, 0, 0)
	}
	strOffset := len(buf)
	buf = append(buf, table...)
	le.PutUint32(info[100-commonHeaderSize:], uint32(strOffset-commonHeaderSize))
	le.PutUint32(info[100-commonHeaderSize+4:], uint32(len(table)))

	return buf
}

func TestParseWin10Fixture(t *testing.T) {
	filenames := []string{
		`\VOLUME{01d6828290579d13-4290933e}\WINDOWS\SYSTEM32\NTDLL.DLL`,
		`\VOLUME{01d6828290579d13-4290933e}\WINDOWS\SYSTEM32\KERNEL32.DLL`,
	}
	buf := buildWin10Fixture(t, "7Z.EXE", filenames)

	f, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Version != VersionWin10 {
		t.Fatalf("Version = %d", f.Version)
	}
	if f.RunCount != 7 {
		t.Fatalf("RunCount = %d, want 7", f.RunCount)
	}
	if len(f.Filenames) != len(filenames) {
		t.Fatalf("Filenames = %v, want %v", f.Filenames, filenames)
	}
	if f.Filenames[0] != filenames[0] {
		t.Fatalf("Filenames[0] = %q, want %q", f.Filenames[0], filenames[0])
	}
	if f.LastRun == "" {
		t.Fatalf("LastRun not populated")
	}
}

func TestUnwrapRejectsBadSignature(t *testing.T) {
	if _, err := unwrap([]byte("garbagebytes")); err == nil {
		t.Fatalf("expected error on unrecognized signature")
	}
}

func TestUnwrapPassesThroughSCCA(t *testing.T) {
	buf := make([]byte, 8)
	copy(buf[4:8], "SCCA")
	out, err := unwrap(buf)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if len(out) != len(buf) {
		t.Fatalf("unwrap should pass an already-SCCA buffer through unchanged")
	}
}
