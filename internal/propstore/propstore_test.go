package propstore

import "testing"

func buildTuple(typeTag uint16, value []byte) []byte {
	// numeric id = 5, reserved = 0
	tuple := []byte{5, 0, 0, 0, 0, 0, 0, 0}
	tuple = append(tuple, byte(typeTag), byte(typeTag>>8), 0, 0)
	tuple = append(tuple, value...)
	sizeField := make([]byte, 4)
	total := uint32(len(tuple) + 4)
	sizeField[0] = byte(total)
	sizeField[1] = byte(total >> 8)
	sizeField[2] = byte(total >> 16)
	sizeField[3] = byte(total >> 24)
	return append(sizeField, tuple...)
}

func buildStore(guid [16]byte, tuples ...[]byte) []byte {
	body := []byte("1SPS")
	body = append(body, guid[:]...)
	for _, t := range tuples {
		body = append(body, t...)
	}
	body = append(body, 0, 0, 0, 0) // terminator
	total := uint32(len(body) + 4)
	out := []byte{byte(total), byte(total >> 8), byte(total >> 16), byte(total >> 24)}
	return append(out, body...)
}

func TestParseNumericKeyedUI4(t *testing.T) {
	var guid [16]byte // not the well-known string-keyed guid
	guid[0] = 0x01
	tuple := buildTuple(uint16(VTUI4), []byte{42, 0, 0, 0})
	buf := buildStore(guid, tuple)

	store, err := Parse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(store.Properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(store.Properties))
	}
	p := store.Properties[0]
	if p.ID != 5 {
		t.Fatalf("expected numeric id 5, got %d", p.ID)
	}
	if v, ok := p.Value.(uint32); !ok || v != 42 {
		t.Fatalf("expected uint32(42), got %#v", p.Value)
	}
}

func TestParseRejectsMissingSignature(t *testing.T) {
	buf := []byte{8, 0, 0, 0, 'X', 'X', 'X', 'X'}
	if _, err := Parse(buf); err == nil {
		t.Fatal("expected format violation for missing 1SPS signature")
	}
}

func TestParseTruncatedInput(t *testing.T) {
	if _, err := Parse([]byte{1, 2}); err == nil {
		t.Fatal("expected truncation error")
	}
}
