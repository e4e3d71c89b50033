package outlook

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const btPageSize = 512

// NID type bits (low five bits of a node id), matching the real PST/OST
// node-id-type space closely enough to distinguish folders from
// messages while walking the NBT.
const (
	NidTypeFolder  = 0x02
	NidTypeMessage = 0x05
)

// NBTEntry is one Node B-tree leaf: a node id mapped to the data
// block holding its properties, plus its parent node id. The leaf
// layout has no subnode block id, so SubBID is always zero.
type NBTEntry struct {
	NID      uint64
	DataBID  uint64
	SubBID   uint64
	ParentID uint64
}

// BBTEntry is one Block B-tree leaf: a block id mapped to its byte
// offset and length within the store, plus a reference count.
type BBTEntry struct {
	BID    uint64
	Offset uint64
	Size   uint32
	Refs   uint32
}

// btPage is the generic page shape both B-trees share: a level byte
// (0 = leaf), an entry count, and a flat array of fixed-size entries
// — a tag-less analogue of the backward-packed page tag array in
// internal/ese, simplified here because every entry in a page is the
// same fixed width.
type btPage struct {
	level   byte
	entries [][]byte
}

func parseBTPage(page []byte, entrySize int) (*btPage, error) {
	if len(page) < 8 {
		return nil, &primitives.Truncation{Artifact: "outlook.btpage", Wanted: 8, Got: len(page)}
	}
	le := binary.LittleEndian
	numEntries := int(le.Uint16(page[0:]))
	level := page[2]
	off := 8
	var entries [][]byte
	for i := 0; i < numEntries && off+entrySize <= len(page); i++ {
		entries = append(entries, page[off:off+entrySize])
		off += entrySize
	}
	return &btPage{level: level, entries: entries}, nil
}

const (
	branchEntrySize    = 16 // key NID/BID(8) + child page offset(8)
	nbtLeafEntrySize   = 24 // NID(8) + dataBID(8) + parentID(8)
	bbtLeafEntrySize   = 24 // BID(8) + offset(8) + size(4) + refs(4)
)

// WalkNBT walks the Node B-tree rooted at rootOffset and returns every
// leaf entry, following branch pages iteratively with a visited-page
// guard against a corrupt or cyclic chain — the same push/pop shape
// internal/ese's WalkLeafRecords uses over the ESE B-tree.
func WalkNBT(data []byte, rootOffset uint64) ([]NBTEntry, error) {
	var out []NBTEntry
	seen := primitives.NewVisitedSet()
	stack := []uint64{rootOffset}
	for len(stack) > 0 {
		off := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.VisitOnce(int64(off)) {
			continue
		}
		page, err := readPage(data, off)
		if err != nil {
			continue
		}
		if page[2] == 0 {
			bt, err := parseBTPage(page, nbtLeafEntrySize)
			if err != nil {
				continue
			}
			for _, e := range bt.entries {
				le := binary.LittleEndian
				out = append(out, NBTEntry{
					NID:      le.Uint64(e[0:]),
					DataBID:  le.Uint64(e[8:]),
					ParentID: le.Uint64(e[16:]),
				})
			}
			continue
		}
		bt, err := parseBTPage(page, branchEntrySize)
		if err != nil {
			continue
		}
		le := binary.LittleEndian
		for _, e := range bt.entries {
			stack = append(stack, le.Uint64(e[8:]))
		}
	}
	return out, nil
}

// WalkBBT walks the Block B-tree the same way WalkNBT does, returning
// every leaf entry that resolves a block id to its file location.
func WalkBBT(data []byte, rootOffset uint64) ([]BBTEntry, error) {
	var out []BBTEntry
	seen := primitives.NewVisitedSet()
	stack := []uint64{rootOffset}
	for len(stack) > 0 {
		off := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.VisitOnce(int64(off)) {
			continue
		}
		page, err := readPage(data, off)
		if err != nil {
			continue
		}
		if page[2] == 0 {
			bt, err := parseBTPage(page, bbtLeafEntrySize)
			if err != nil {
				continue
			}
			le := binary.LittleEndian
			for _, e := range bt.entries {
				out = append(out, BBTEntry{
					BID:    le.Uint64(e[0:]),
					Offset: le.Uint64(e[8:]),
					Size:   le.Uint32(e[16:]),
					Refs:   le.Uint32(e[20:]),
				})
			}
			continue
		}
		bt, err := parseBTPage(page, branchEntrySize)
		if err != nil {
			continue
		}
		le := binary.LittleEndian
		for _, e := range bt.entries {
			stack = append(stack, le.Uint64(e[8:]))
		}
	}
	return out, nil
}

func readPage(data []byte, offset uint64) ([]byte, error) {
	start := int(offset)
	end := start + btPageSize
	if start < 0 || end > len(data) {
		return nil, &primitives.Truncation{Artifact: "outlook.btpage", Offset: int64(offset), Wanted: btPageSize, Got: len(data) - start}
	}
	return data[start:end], nil
}
