package compress

import "testing"

func TestLz77PlainLiteralAndMatch(t *testing.T) {
	// literal "artemis" then a back-reference repeating the last 3 bytes ("mis") twice
	raw := []byte{0x00, 7}
	raw = append(raw, "artemis"...)
	raw = append(raw, 0x01, 3, 0, 6, 0) // distance=3, length=6 -> "mismis"
	got, err := Lz77Plain(raw)
	if err != nil {
		t.Fatal(err)
	}
	want := "artemismismis"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestLz77PlainRejectsBadDistance(t *testing.T) {
	raw := []byte{0x01, 5, 0, 1, 0} // distance 5 but nothing decoded yet
	if _, err := Lz77Plain(raw); err == nil {
		t.Fatal("expected error on out-of-range back-reference")
	}
}
