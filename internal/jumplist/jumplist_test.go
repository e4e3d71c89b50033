package jumplist

import "testing"

func TestIsHexStreamName(t *testing.T) {
	cases := map[string]bool{
		"1234567890abcdef": true,
		"1234567890ABCDEF": true,
		"too-short":        false,
		"1234567890abcdeg": false,
	}
	for name, want := range cases {
		if got := isHexStreamName(name); got != want {
			t.Errorf("isHexStreamName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFindLnkHeader(t *testing.T) {
	buf := append([]byte{0xff, 0xff}, 0x4c, 0x00, 0x00, 0x00, 0xab)
	if idx := findLnkHeader(buf); idx != 2 {
		t.Fatalf("expected header at offset 2, got %d", idx)
	}
	if idx := findLnkHeader([]byte{1, 2, 3}); idx != -1 {
		t.Fatalf("expected no header found, got %d", idx)
	}
}

func TestParseCustomEmptyInput(t *testing.T) {
	if _, err := ParseCustom(nil); err == nil {
		t.Fatal("expected truncation error for empty input")
	}
}

func TestParseCustomNoLnkHeaderReturnsEmpty(t *testing.T) {
	entries, err := ParseCustom([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
