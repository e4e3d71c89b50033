package compress

import "testing"

func TestLzxpressHuffmanTwoLiteralSymbols(t *testing.T) {
	table := make([]byte, 256)
	table[32] = 0x10 // symbol 65 ('A'): high nibble, length 1
	table[33] = 0x01 // symbol 66 ('B'): low nibble, length 1

	raw := append(append([]byte{}, table...), 0x00, 0x40)
	got, err := LzxpressHuffman(raw, 2)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "AB" {
		t.Fatalf("got %q want %q", got, "AB")
	}
}

func TestLzxpressHuffmanRejectsShortHeader(t *testing.T) {
	if _, err := LzxpressHuffman(make([]byte, 10), 100); err == nil {
		t.Fatal("expected truncation error for a header shorter than 256 bytes")
	}
}
