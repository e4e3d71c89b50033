package fsevents

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"
)

func buildPage(version string, records [][3]any) []byte {
	var body []byte
	hasNodeID := version != "1SLD"
	for _, r := range records {
		path := r[0].(string)
		eventID := r[1].(uint64)
		flags := r[2].(uint32)
		body = append(body, path...)
		body = append(body, 0)
		eb := make([]byte, 8)
		binary.LittleEndian.PutUint64(eb, eventID)
		body = append(body, eb...)
		fb := make([]byte, 4)
		binary.LittleEndian.PutUint32(fb, flags)
		body = append(body, fb...)
		if hasNodeID {
			body = append(body, make([]byte, 8)...)
		}
	}
	header := make([]byte, 12)
	copy(header[0:4], version)
	binary.LittleEndian.PutUint32(header[4:8], uint32(12+len(body)))
	return append(header, body...)
}

func gzipBytes(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return buf.Bytes()
}

func TestParsePagesSingleVersion1Record(t *testing.T) {
	page := buildPage("1SLD", [][3]any{{"/Users/bob/file.txt", uint64(100), uint32(0x01)}})
	pages, err := ParsePages(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pages) != 1 || len(pages[0].Records) != 1 {
		t.Fatalf("expected 1 page with 1 record, got %#v", pages)
	}
	rec := pages[0].Records[0]
	if rec.Path != "/Users/bob/file.txt" || rec.EventID != 100 || rec.Flags != 0x01 {
		t.Fatalf("unexpected record: %#v", rec)
	}
}

func TestParseFileGunzipsThenParses(t *testing.T) {
	page := buildPage("2SLD", [][3]any{{"/tmp/a", uint64(1), uint32(2)}})
	gz := gzipBytes(t, page)
	pages, err := ParseFile(gz)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(pages) != 1 || pages[0].Records[0].Path != "/tmp/a" {
		t.Fatalf("unexpected pages: %#v", pages)
	}
}

func TestParsePagesStopsOnBadHeader(t *testing.T) {
	pages, err := ParsePages([]byte("not-a-dls-page-at-all"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("expected no pages, got %d", len(pages))
	}
}
