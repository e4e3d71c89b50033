package compress

import "testing"

func TestLznt1UncompressedChunkPassthrough(t *testing.T) {
	data := []byte("hello world, this is a raw chunk")
	size := len(data)
	header := uint16(size-1) | 0x3000 // compressed bit clear
	raw := append([]byte{byte(header), byte(header >> 8)}, data...)

	got, err := Lznt1(raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %q want %q", got, data)
	}
}

func TestLznt1CompressedLiteralOnlyChunk(t *testing.T) {
	chunk := []byte{0x00, 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H'}
	header := uint16(len(chunk)-1) | 0x3000 | 0x8000
	raw := append([]byte{byte(header), byte(header >> 8)}, chunk...)

	got, err := Lznt1(raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ABCDEFGH" {
		t.Fatalf("got %q", got)
	}
}

func TestLznt1BackReference(t *testing.T) {
	// First byte group: 8 literals "ABCDABCD" (flags=0x00).
	// Second group: one back-reference token re-emitting "ABCDABCD"
	// (offset=8, length=8) then stop.
	lit := []byte{0x00, 'A', 'B', 'C', 'D', 'A', 'B', 'C', 'D'}
	shift := splitShift(8) // output length is 8 when the token is read
	length := 8
	offset := 8
	back := uint16(length-3) | uint16(offset-1)<<(16-uint(shift))
	chunk := append(append([]byte{}, lit...), 0x01, byte(back), byte(back>>8))

	header := uint16(len(chunk)-1) | 0x3000 | 0x8000
	raw := append([]byte{byte(header), byte(header >> 8)}, chunk...)

	got, err := Lznt1(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := "ABCDABCDABCDABCD"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
