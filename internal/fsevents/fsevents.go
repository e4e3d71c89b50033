// Package fsevents decodes macOS FSEvents store pages: gzip-wrapped
// DLS-page streams of (path, event_id, flags) records. Each page
// starts with a four-byte version tag, stored on disk as the bytes
// "1SLD".."4SLD", and a page length, followed by a flat list
// of NUL-terminated path records.
package fsevents

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/compress"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// Record is one decoded FSEvents entry.
type Record struct {
	Path    string
	EventID uint64
	Flags   uint32
	NodeID  uint64 // only present in 2SLD..4SLD pages; 0 otherwise
}

// Page is one decoded DLS page (a gzip member typically holds several
// pages back to back).
type Page struct {
	Version string
	Records []Record
}

// ParseFile gunzips a whole FSEvents store file (the gzip wrapper
// spans the full file, not per-page) and decodes every DLS page it
// contains.
func ParseFile(raw []byte) ([]Page, error) {
	data, err := compress.Gzip(raw)
	if err != nil {
		return nil, &primitives.FormatViolation{Artifact: "fsevents", Kind: "gzip: " + err.Error()}
	}
	return ParsePages(data)
}

// ParsePages decodes a sequence of DLS pages from an already-
// decompressed FSEvents byte stream.
func ParsePages(buf []byte) ([]Page, error) {
	var pages []Page
	for len(buf) >= 12 {
		version, ok := dlsVersion(buf)
		if !ok {
			break // not a page header: stop rather than mis-decode
		}
		pageLen := binary.LittleEndian.Uint32(buf[4:8])
		if pageLen < 12 || uint64(pageLen) > uint64(len(buf)) {
			break
		}
		body := buf[12:pageLen]
		page := Page{Version: version, Records: parseRecords(body, version)}
		pages = append(pages, page)
		buf = buf[pageLen:]
	}
	return pages, nil
}

func dlsVersion(buf []byte) (string, bool) {
	sig := string(buf[0:4])
	switch sig {
	case "1SLD", "2SLD", "3SLD", "4SLD":
		return sig, true
	}
	return "", false
}

// parseRecords decodes the flat record list: a NUL-terminated UTF-8
// path, an 8-byte event id, a 4-byte flags word, and — for 2SLD..4SLD —
// an additional 8-byte node id before the next record begins.
func parseRecords(buf []byte, version string) []Record {
	hasNodeID := version == "2SLD" || version == "3SLD" || version == "4SLD"
	var out []Record
	for len(buf) > 0 {
		nul := indexByte(buf, 0)
		if nul < 0 {
			break
		}
		path := primitives.ExtractUTF8String(buf[:nul])
		rest := buf[nul+1:]
		need := 12
		if hasNodeID {
			need = 20
		}
		if len(rest) < need {
			break
		}
		eventID := binary.LittleEndian.Uint64(rest[0:8])
		flags := binary.LittleEndian.Uint32(rest[8:12])
		rec := Record{Path: path, EventID: eventID, Flags: flags}
		if hasNodeID {
			rec.NodeID = binary.LittleEndian.Uint64(rest[12:20])
		}
		out = append(out, rec)
		buf = rest[need:]
	}
	return out
}

func indexByte(buf []byte, b byte) int {
	for i, v := range buf {
		if v == b {
			return i
		}
	}
	return -1
}
