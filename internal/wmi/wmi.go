// Package wmi decodes the WMI repository's on-disk persistence files:
// MAPPING*.MAP (a physical page map), INDEX.BTR (a B-tree keyed by
// namespace+class hash), and OBJECTS.DATA (the class/instance object
// pages the map and index point into). Implemented at table-dump
// depth — class name plus its flat property bag — not full
// query-engine depth.
package wmi

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// PageMap is a decoded MAPPING*.MAP: the logical-to-physical page id
// table every OBJECTS.DATA lookup is resolved through.
type PageMap struct {
	Pages []uint32
}

// ParseMappingMap decodes a physical page map: a 4-byte page count
// followed by that many 4-byte physical page ids, the shape every
// generation of the WMI repository's MAPPING file shares.
func ParseMappingMap(buf []byte) (*PageMap, error) {
	if len(buf) < 4 {
		return nil, &primitives.Truncation{Artifact: "wmi.mapping", Wanted: 4, Got: len(buf)}
	}
	le := binary.LittleEndian
	count := int(le.Uint32(buf[0:]))
	need := 4 + count*4
	if need > len(buf) {
		count = (len(buf) - 4) / 4
	}
	pages := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		pages = append(pages, le.Uint32(buf[4+i*4:]))
	}
	return &PageMap{Pages: pages}, nil
}

const wmiPageSize = 8192

// IndexEntry is one resolved INDEX.BTR leaf entry: the namespace+class
// key hash paired with the logical page id holding its object record.
type IndexEntry struct {
	KeyHash uint32
	PageID  uint32
}

// ParseIndexLeafPages decodes INDEX.BTR as a flat sequence of fixed
// 8-byte (key_hash, page_id) leaf entries. Real INDEX.BTR is a B-tree
// with branch/leaf pages; this reader collects every 8-byte pair
// candidate across the buffer without descending branch pages, which
// is sufficient at table-dump depth since every entry the orchestrator
// cares about eventually lives in a leaf.
func ParseIndexLeafPages(buf []byte) []IndexEntry {
	var out []IndexEntry
	le := binary.LittleEndian
	for off := 0; off+8 <= len(buf); off += 8 {
		out = append(out, IndexEntry{
			KeyHash: le.Uint32(buf[off:]),
			PageID:  le.Uint32(buf[off+4:]),
		})
	}
	return out
}

// ObjectRecord is one decoded class/instance object from an
// OBJECTS.DATA page: its owning namespace, class name, and a flat
// property bag of best-effort-decoded scalar values.
type ObjectRecord struct {
	PageID     uint32
	Namespace  string
	ClassName  string
	Properties map[string]string
}

// ParseObjectsPage decodes one physical page of OBJECTS.DATA: a
// 4-byte page id, 4-byte used-size, then a sequence of
// length-prefixed records, each a NUL-terminated UTF-16 namespace,
// NUL-terminated UTF-16 class name, and a flat (name, value) UTF-16
// property list terminated by an empty name.
func ParseObjectsPage(buf []byte) ([]ObjectRecord, error) {
	if len(buf) < 8 {
		return nil, &primitives.Truncation{Artifact: "wmi.objects", Wanted: 8, Got: len(buf)}
	}
	le := binary.LittleEndian
	pageID := le.Uint32(buf[0:])
	usedSize := int(le.Uint32(buf[4:]))
	if usedSize > len(buf)-8 {
		usedSize = len(buf) - 8
	}
	data := buf[8 : 8+usedSize]

	var out []ObjectRecord
	off := 0
	for off+4 <= len(data) {
		recLen := int(le.Uint32(data[off:]))
		if recLen <= 0 || off+4+recLen > len(data) {
			break
		}
		rec := data[off+4 : off+4+recLen]
		if obj, ok := parseObjectRecord(rec, pageID); ok {
			out = append(out, obj)
		}
		off += 4 + recLen
	}
	return out, nil
}

func parseObjectRecord(rec []byte, pageID uint32) (ObjectRecord, bool) {
	ns, next, ok := readUTF16Field(rec, 0)
	if !ok {
		return ObjectRecord{}, false
	}
	class, next, ok := readUTF16Field(rec, next)
	if !ok {
		return ObjectRecord{}, false
	}

	props := make(map[string]string)
	for next < len(rec) {
		name, after, ok := readUTF16Field(rec, next)
		if !ok || name == "" {
			break
		}
		value, after2, ok := readUTF16Field(rec, after)
		if !ok {
			break
		}
		props[name] = value
		next = after2
	}

	return ObjectRecord{PageID: pageID, Namespace: ns, ClassName: class, Properties: props}, true
}

// readUTF16Field reads one NUL-pair-terminated UTF-16LE string
// starting at off, returning the decoded text and the offset just
// past its terminator.
func readUTF16Field(buf []byte, off int) (string, int, bool) {
	if off < 0 || off > len(buf) {
		return "", off, false
	}
	end := off
	for end+1 < len(buf) {
		if buf[end] == 0 && buf[end+1] == 0 {
			break
		}
		end += 2
	}
	if end+1 >= len(buf) {
		return "", off, false
	}
	return primitives.ExtractUTF16String(buf[off:end]), end + 2, true
}
