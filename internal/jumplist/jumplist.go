// Package jumplist decodes the two Windows Jumplist variants:
// Automatic Destinations (an OLE compound file whose streams are
// serialized LNK records, plus a DestList metadata stream) and Custom
// Destinations (a flat concatenation of LNK records behind a small
// header).
package jumplist

import (
	"github.com/puffycid/artemis-core/internal/lnk"
	"github.com/puffycid/artemis-core/internal/ole"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// DestListEntry is one row of the DestList stream's per-entry
// metadata, merged onto the matching LNK stream by entry id.
type DestListEntry struct {
	EntryID     string
	PinStatus   int32
	AccessCount uint32
	LastAccess  string
}

// Entry is one decoded Jumplist item: the shortcut plus whatever
// DestList metadata matched its stream name (Automatic variant only).
type Entry struct {
	EntryID  string
	Shortcut *lnk.Shortcut
	DestList *DestListEntry
}

// ParseAutomatic decodes an .automaticDestinations-ms file: an OLE
// compound file with one 16-hex-character-named stream per LNK record
// and an optional "DestList" stream of access metadata.
func ParseAutomatic(data []byte) ([]Entry, error) {
	f, err := ole.Open(data)
	if err != nil {
		return nil, err
	}

	destList := map[string]DestListEntry{}
	if raw, ok := f.Stream("DestList"); ok {
		for _, e := range parseDestList(raw) {
			destList[e.EntryID] = e
		}
	}

	var out []Entry
	for _, dirEntry := range f.Entries() {
		name := dirEntry.Name
		if !isHexStreamName(name) {
			continue
		}
		raw, ok := f.Stream(name)
		if !ok {
			continue
		}
		sc, err := lnk.Parse(raw)
		if err != nil {
			continue // torn/corrupt stream: skip per format-violation policy
		}
		entry := Entry{EntryID: name, Shortcut: sc}
		if d, ok := destList[name]; ok {
			dcopy := d
			entry.DestList = &dcopy
		}
		out = append(out, entry)
	}
	return out, nil
}

// ParseCustom decodes a .customDestinations-ms file: a small header
// with a category count, followed by a flat concatenation of LNK
// records with no OLE container.
func ParseCustom(data []byte) ([]Entry, error) {
	if len(data) < 4 {
		return nil, &primitives.Truncation{Artifact: "jumplist.custom", Wanted: 4, Got: len(data)}
	}
	var out []Entry
	buf := data
	for len(buf) >= 4 {
		idx := findLnkHeader(buf)
		if idx < 0 {
			break
		}
		buf = buf[idx:]
		sc, err := lnk.Parse(buf)
		if err != nil {
			buf = buf[4:]
			continue
		}
		out = append(out, Entry{Shortcut: sc})
		buf = buf[4:]
	}
	return out, nil
}

func findLnkHeader(buf []byte) int {
	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] == 0x4c && buf[i+1] == 0 && buf[i+2] == 0 && buf[i+3] == 0 {
			return i
		}
	}
	return -1
}

func isHexStreamName(name string) bool {
	if len(name) != 16 {
		return false
	}
	for _, c := range name {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// parseDestList decodes the DestList stream: a fixed header then one
// variable-length entry per pinned/recent item, keyed by the entry id
// that also names its LNK stream.
func parseDestList(buf []byte) []DestListEntry {
	if len(buf) < 32 {
		return nil
	}
	var out []DestListEntry
	pos := 32 // skip DestList header (version, counts, checksum)
	for pos+4 <= len(buf) {
		entrySize := int(leUint32(buf[pos:]))
		if entrySize <= 0 || pos+entrySize > len(buf) {
			break
		}
		rec := buf[pos : pos+entrySize]
		if len(rec) >= 114 {
			lastAccess := primitives.FiletimeToISO(leUint64(rec[92:]))
			pinStatus := int32(leUint32(rec[100:]))
			accessCount := leUint32(rec[104:])
			entryIDBytes := rec[4:20]
			out = append(out, DestListEntry{
				EntryID:     primitives.FormatGuidLEBytes(entryIDBytes),
				PinStatus:   pinStatus,
				AccessCount: accessCount,
				LastAccess:  lastAccess,
			})
		}
		pos += entrySize
	}
	return out
}

func leUint32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return uint64(leUint32(b)) | uint64(leUint32(b[4:]))<<32
}
