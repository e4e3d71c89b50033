package loginitems

import (
	"encoding/binary"
	"testing"
)

func buildStringArrayEntry(entryType uint32, s string) []byte {
	body := []byte(s)
	entryLen := 8 + len(body)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(entryLen))
	binary.LittleEndian.PutUint32(buf[4:8], entryType)
	return append(buf, body...)
}

func buildTOCRecord(key, recType uint32, body []byte) []byte {
	recLen := 12 + len(body)
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(recLen))
	binary.LittleEndian.PutUint32(buf[4:8], key)
	binary.LittleEndian.PutUint32(buf[8:12], recType)
	return append(buf, body...)
}

func buildBookmark(components ...string) []byte {
	var arrayBody []byte
	for _, c := range components {
		arrayBody = append(arrayBody, buildStringArrayEntry(0x0601, c)...)
	}
	rec := buildTOCRecord(bookmarkTOCKeyPath, 0x0101, arrayBody)

	header := make([]byte, 48)
	copy(header[0:4], bookmarkSignature)
	total := uint32(48 + len(rec))
	binary.LittleEndian.PutUint32(header[4:8], total)
	return append(header, rec...)
}

func TestParseSFL2BookmarkExtractsPath(t *testing.T) {
	blob := buildBookmark("Applications", "Slack.app")
	item, err := ParseSFL2Bookmark(blob)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if item.Path != "/Applications/Slack.app" {
		t.Fatalf("unexpected path: %q", item.Path)
	}
}

func TestParseSFL2BookmarkRejectsBadSignature(t *testing.T) {
	if _, err := ParseSFL2Bookmark([]byte("nope")); err == nil {
		t.Fatal("expected format violation")
	}
}

func TestParseBTMRejectsNonDictRoot(t *testing.T) {
	xml := `<plist><array><string>x</string></array></plist>`
	if _, err := ParseBTM([]byte(xml)); err == nil {
		t.Fatal("expected format violation for non-dict root")
	}
}
