package lnk

import "testing"

func buildMinimalLnk(flags uint32) []byte {
	buf := make([]byte, 0x4c)
	copy(buf[0:4], headerSignature)
	le32 := func(off int, v uint32) {
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
	le32(0x14, flags)
	return buf
}

func TestParseRejectsBadSignature(t *testing.T) {
	buf := buildMinimalLnk(0)
	buf[0] = 0x00
	if _, err := Parse(buf); err == nil {
		t.Fatal("expected format violation for bad signature")
	}
}

func TestParseMinimalNoOptionalSections(t *testing.T) {
	buf := buildMinimalLnk(0)
	sc, err := Parse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sc.TargetCreated != "1970-01-01T00:00:00.000Z" {
		t.Fatalf("expected sentinel timestamp, got %s", sc.TargetCreated)
	}
	if len(sc.ExtraBlocks) != 0 {
		t.Fatalf("expected no extra blocks, got %d", len(sc.ExtraBlocks))
	}
}

func TestParseWithNameStringData(t *testing.T) {
	buf := buildMinimalLnk(hasName | isUnicode)
	name := "hello"
	var field []byte
	for _, r := range name {
		field = append(field, byte(r), 0)
	}
	count := uint16(len(name))
	strData := []byte{byte(count), byte(count >> 8)}
	strData = append(strData, field...)
	buf = append(buf, strData...)

	sc, err := Parse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sc.Name != name {
		t.Fatalf("expected name %q, got %q", name, sc.Name)
	}
}

func TestParseTruncatedHeaderFails(t *testing.T) {
	buf := buildMinimalLnk(0)[:10]
	if _, err := Parse(buf); err == nil {
		t.Fatal("expected truncation error")
	}
}
