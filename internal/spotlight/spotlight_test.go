package spotlight

import (
	"encoding/binary"
	"testing"
)

func buildHeader() []byte {
	buf := make([]byte, 0x5a)
	copy(buf[0:4], storeSignature)
	binary.LittleEndian.PutUint32(buf[0x04:], 4096)
	binary.LittleEndian.PutUint32(buf[0x1c:], 10)
	return buf
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(buildHeader())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if h.BlockSize0 != 4096 || h.IndexCount != 10 {
		t.Fatalf("unexpected header: %#v", h)
	}
}

func TestParseHeaderRejectsBadSignature(t *testing.T) {
	buf := buildHeader()
	buf[0] = 'X'
	if _, err := ParseHeader(buf); err == nil {
		t.Fatal("expected format violation")
	}
}

func TestParseStringTable(t *testing.T) {
	var buf []byte
	add := func(id uint32, name string) {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, id)
		buf = append(buf, b...)
		buf = append(buf, name...)
		buf = append(buf, 0)
	}
	add(1, "kMDItemDisplayName")
	add(2, "kMDItemContentType")

	table := ParseStringTable(buf)
	if table[1] != "kMDItemDisplayName" || table[2] != "kMDItemContentType" {
		t.Fatalf("unexpected table: %#v", table)
	}
}

func TestParsePropertyDictionaryStringAndInt(t *testing.T) {
	names := StringTable{7: "kMDItemFSName"}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 2) // count=2

	entry1 := make([]byte, 5)
	binary.LittleEndian.PutUint32(entry1[0:4], 7)
	entry1[4] = 0x00 // string kind
	strVal := make([]byte, 4)
	binary.LittleEndian.PutUint32(strVal, 4)
	entry1 = append(entry1, strVal...)
	entry1 = append(entry1, "test"...)

	entry2 := make([]byte, 5)
	binary.LittleEndian.PutUint32(entry2[0:4], 8)
	entry2[4] = 0x01 // int64 kind
	intVal := make([]byte, 8)
	binary.LittleEndian.PutUint64(intVal, 99)
	entry2 = append(entry2, intVal...)

	buf = append(buf, entry1...)
	buf = append(buf, entry2...)

	props, err := ParsePropertyDictionary(buf, names)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}
	if props[0].Name != "kMDItemFSName" || props[0].Value != "test" {
		t.Fatalf("unexpected property 0: %#v", props[0])
	}
	if props[1].Name != "prop_8" || props[1].Value != int64(99) {
		t.Fatalf("unexpected property 1: %#v", props[1])
	}
}
