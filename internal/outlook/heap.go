package outlook

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// heapSig marks a resolved data block as a Heap-on-Node rather than
// raw bytes.
const heapSig = 0xEC

// Heap is a decoded Heap-on-Node: a flat array of variable-length
// items addressed by 1-based HID (heap id). Item 0 conventionally
// holds the structure's own index (a Property or Table Context
// header); the rest hold each property's out-of-line value.
type Heap struct {
	Items [][]byte
}

// ParseHeap decodes a Heap-on-Node block: a signature byte, an item
// count, then that many (offset, length) pairs into a trailing data
// region — the same tag-array shape internal/ese's backward-packed
// page tag array uses, here written forward since HN packs its index
// ahead of the data instead of behind it.
func ParseHeap(block []byte) (*Heap, error) {
	if len(block) < 3 || block[0] != heapSig {
		return nil, &primitives.FormatViolation{Artifact: "outlook.heap", Kind: "bad HN signature"}
	}
	le := binary.LittleEndian
	count := int(block[1])
	headerEnd := 2 + count*4
	if headerEnd > len(block) {
		return nil, &primitives.Truncation{Artifact: "outlook.heap", Wanted: headerEnd, Got: len(block)}
	}
	items := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		entry := block[2+i*4:]
		offset := int(le.Uint16(entry[0:]))
		length := int(le.Uint16(entry[2:]))
		start := headerEnd + offset
		end := start + length
		if start < 0 || end > len(block) || start > end {
			items = append(items, nil)
			continue
		}
		items = append(items, block[start:end])
	}
	return &Heap{Items: items}, nil
}

// Item returns the heap item addressed by the 1-based hid, or nil if
// hid is out of range.
func (h *Heap) Item(hid int) []byte {
	idx := hid - 1
	if idx < 0 || idx >= len(h.Items) {
		return nil
	}
	return h.Items[idx]
}
