package plist

import (
	"encoding/binary"
	"testing"
)

// buildBplist assembles a minimal single-offset-size-1 binary plist
// from a sequence of already-encoded objects, used by the tests below
// to avoid hand-computing offsets.
func buildBplist(t *testing.T, topObject int, objects ...[]byte) []byte {
	t.Helper()
	buf := append([]byte{}, "bplist00"...)
	offsets := make([]byte, 0, len(objects))
	for _, obj := range objects {
		if len(buf) > 255 {
			t.Fatal("fixture too large for 1-byte offsets")
		}
		offsets = append(offsets, byte(len(buf)))
		buf = append(buf, obj...)
	}
	offsetTableStart := len(buf)
	buf = append(buf, offsets...)

	trailer := make([]byte, 32)
	trailer[6] = 1 // offsetIntSize
	trailer[7] = 1 // objRefSize
	binary.BigEndian.PutUint64(trailer[8:16], uint64(len(objects)))
	binary.BigEndian.PutUint64(trailer[16:24], uint64(topObject))
	binary.BigEndian.PutUint64(trailer[24:32], uint64(offsetTableStart))
	return append(buf, trailer...)
}

func TestDecodeBinaryAsciiString(t *testing.T) {
	// marker 0x52 = ascii string (0x5), length 2
	obj := append([]byte{0x52}, "hi"...)
	buf := buildBplist(t, 0, obj)

	val, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s, ok := val.(string); !ok || s != "hi" {
		t.Fatalf("expected \"hi\", got %#v", val)
	}
}

func TestDecodeBinaryDict(t *testing.T) {
	// object 0: dict, count 1, low nibble 0xD1
	dictObj := []byte{0xD1, 1, 2} // key ref=1, val ref=2
	keyObj := append([]byte{0x51}, "a"...)
	valObj := []byte{0x10, 5} // int, 1 byte, value 5
	buf := buildBplist(t, 0, dictObj, keyObj, valObj)

	val, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := val.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %#v", val)
	}
	if n, ok := m["a"].(int64); !ok || n != 5 {
		t.Fatalf("expected a=5, got %#v", m["a"])
	}
}

func TestDecodeBinaryRejectsShortTrailer(t *testing.T) {
	if _, err := Decode([]byte("bplist00short")); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestDecodeXMLDict(t *testing.T) {
	xml := `<?xml version="1.0"?>
<plist version="1.0">
<dict>
	<key>Name</key>
	<string>example</string>
	<key>Count</key>
	<integer>7</integer>
	<key>Active</key>
	<true/>
</dict>
</plist>`
	val, err := Decode([]byte(xml))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := val.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %#v", val)
	}
	if m["Name"] != "example" {
		t.Fatalf("expected Name=example, got %#v", m["Name"])
	}
	if m["Count"] != int64(7) {
		t.Fatalf("expected Count=7, got %#v", m["Count"])
	}
	if m["Active"] != true {
		t.Fatalf("expected Active=true, got %#v", m["Active"])
	}
}

func TestDecodeXMLArray(t *testing.T) {
	xml := `<plist><array><string>one</string><string>two</string></array></plist>`
	val, err := Decode([]byte(xml))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	arr, ok := val.([]any)
	if !ok || len(arr) != 2 {
		t.Fatalf("expected 2-element array, got %#v", val)
	}
	if arr[0] != "one" || arr[1] != "two" {
		t.Fatalf("unexpected array contents: %#v", arr)
	}
}
