package bits

import (
	"encoding/binary"
	"testing"
)

func utf16Bytes(s string) []byte {
	out := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(r))
		out = append(out, b...)
	}
	return append(out, 0, 0)
}

func TestCarveLegacyFindsURL(t *testing.T) {
	buf := append([]byte{1, 2, 3, 4}, utf16Bytes("https://updates.example.com/payload.cab")...)
	buf = append(buf, 0xFF, 0xFF)

	jobs := CarveLegacy(buf)
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1", len(jobs))
	}
	if jobs[0].URL != "https://updates.example.com/payload.cab" {
		t.Fatalf("URL = %q", jobs[0].URL)
	}
	if !jobs[0].Heuristic {
		t.Fatalf("expected Heuristic = true")
	}
}

func TestCarveLegacyEmptyOnNoMatch(t *testing.T) {
	if jobs := CarveLegacy([]byte{1, 2, 3, 4}); len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}
