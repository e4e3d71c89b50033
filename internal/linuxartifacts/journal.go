// Package linuxartifacts decodes systemd Journal files, utmp/wtmp/btmp
// logon record files, and wraps stdlib debug/elf for ELF metadata.
package linuxartifacts

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/compress"
	"github.com/puffycid/artemis-core/internal/decompressioncache"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// HashItem is one entry in a journal hash table: the offset of the
// first and last object in that bucket's chain.
type HashItem struct {
	HeadHashOffset uint64
	TailHashOffset uint64
}

// ParseHashTable decodes a flat array of HashItem records (16 bytes
// each: head offset, tail offset, both little-endian uint64), the
// shape journal HASH_TABLE objects and field hash tables share.
func ParseHashTable(buf []byte) ([]HashItem, error) {
	const itemSize = 16
	if len(buf)%itemSize != 0 {
		return nil, &primitives.Truncation{Artifact: "journal.hashtable", Wanted: len(buf) - len(buf)%itemSize + itemSize, Got: len(buf)}
	}
	le := binary.LittleEndian
	out := make([]HashItem, 0, len(buf)/itemSize)
	for off := 0; off < len(buf); off += itemSize {
		out = append(out, HashItem{
			HeadHashOffset: le.Uint64(buf[off:]),
			TailHashOffset: le.Uint64(buf[off+8:]),
		})
	}
	return out, nil
}

// Object types a journal entry/data object's header declares.
const (
	ObjectUnused = iota
	ObjectData
	ObjectField
	ObjectEntry
	ObjectDataHashTable
	ObjectFieldHashTable
	ObjectEntryArray
	ObjectTag
)

const (
	compressedFlagXZ   = 1 << 0
	compressedFlagLZ4  = 1 << 1
	compressedFlagZstd = 1 << 2
)

// ObjectHeader is the common 8-byte-aligned object header every
// journal object (data, field, entry, hash table, entry array, tag)
// starts with.
type ObjectHeader struct {
	Type    byte
	Flags   byte
	Size    uint64
}

// ParseObjectHeader decodes the fixed leading header shared by every
// journal object.
func ParseObjectHeader(buf []byte) (*ObjectHeader, error) {
	if len(buf) < 16 {
		return nil, &primitives.Truncation{Artifact: "journal.object", Wanted: 16, Got: len(buf)}
	}
	return &ObjectHeader{
		Type:  buf[0],
		Flags: buf[1],
		Size:  binary.LittleEndian.Uint64(buf[8:]),
	}, nil
}

// DataObjectPayload decompresses (if flagged) and returns a DATA
// object's payload bytes, which follow the common header plus the
// hash/next_hash_offset/next_field_offset/entry_offset/entry_array_offset
// fields (40 bytes) that precede the payload in a DATA object.
func DataObjectPayload(buf []byte) ([]byte, error) {
	hdr, err := ParseObjectHeader(buf)
	if err != nil {
		return nil, err
	}
	if hdr.Type != ObjectData {
		return nil, &primitives.FormatViolation{Artifact: "journal.data", Kind: "not a DATA object"}
	}
	const dataFieldsOffset = 16 + 40
	if uint64(len(buf)) < hdr.Size || dataFieldsOffset > len(buf) {
		return nil, &primitives.Truncation{Artifact: "journal.data", Wanted: dataFieldsOffset, Got: len(buf)}
	}
	payload := buf[dataFieldsOffset:hdr.Size]

	switch {
	case hdr.Flags&compressedFlagXZ != 0:
		return compress.Xz(payload)
	case hdr.Flags&compressedFlagLZ4 != 0:
		return compress.Lz4(payload)
	case hdr.Flags&compressedFlagZstd != 0:
		return compress.Zstd(payload)
	default:
		return payload, nil
	}
}

// DataObjectPayloadAt is DataObjectPayload for a DATA object read from
// a known file offset, memoizing the decompressed result — the same
// object is commonly reached through more than one ENTRY_ARRAY, and
// xz/zstd frames are expensive enough to re-run that caching by
// (file, offset) pays for itself on any journal with repeated fields.
func DataObjectPayloadAt(journalPath string, offset int64, buf []byte) ([]byte, error) {
	hdr, err := ParseObjectHeader(buf)
	if err != nil {
		return nil, err
	}
	if hdr.Flags&(compressedFlagXZ|compressedFlagLZ4|compressedFlagZstd) == 0 {
		return DataObjectPayload(buf)
	}
	key := decompressioncache.ObjectKey(journalPath, offset)
	return decompressioncache.Memoize(key, func() ([]byte, error) {
		return DataObjectPayload(buf)
	})
}
