package outlook

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Well-known PidTag property identifiers, the small subset a
// table-dump-depth reader needs to surface folders and messages.
const (
	PidTagDisplayName      = 0x3001
	PidTagSubject          = 0x0037
	PidTagSenderName       = 0x0C1A
	PidTagSentRepresenting = 0x0042
	PidTagBody             = 0x1000
	PidTagMessageDeliveryTime = 0x0E06
)

// Property value type tags, a reduced subset of PROPVARIANT/PtypX
// mirroring the REG_* decode table internal/registry already has for
// the overlapping types (VT_UI4/REG_DWORD, VT_LPWSTR/REG_SZ, ...).
const (
	PtInteger32 = 0x0003
	PtBoolean   = 0x000B
	PtString8   = 0x001E
	PtUnicode   = 0x001F
	PtTime      = 0x0040
	PtBinary    = 0x0102
)

// PropertyContext is a decoded Property Context: a flat map from
// PidTag id to its best-effort-decoded value.
type PropertyContext map[uint16]any

// ParsePropertyContext decodes a Property Context from a Heap-on-Node:
// item 0 holds a sequence of fixed 8-byte property entries (propID
// uint16, propType uint16, value/HID uint32); a value that fits in 4
// bytes is stored inline, otherwise the 4 bytes are a heap HID holding
// the real value.
func ParsePropertyContext(h *Heap) (PropertyContext, error) {
	index := h.Item(1)
	if index == nil {
		return nil, &primitives.InputNotPresent{Artifact: "outlook.pc", Path: "heap item 0"}
	}
	le := binary.LittleEndian
	pc := make(PropertyContext)
	for off := 0; off+8 <= len(index); off += 8 {
		propID := le.Uint16(index[off:])
		propType := le.Uint16(index[off+2:])
		raw := index[off+4 : off+8]
		pc[propID] = decodePropertyValue(h, propType, raw)
	}
	return pc, nil
}

func decodePropertyValue(h *Heap, propType uint16, raw []byte) any {
	le := binary.LittleEndian
	switch propType {
	case PtInteger32, PtTime:
		return le.Uint32(raw)
	case PtBoolean:
		return raw[0] != 0
	case PtString8:
		hid := int(le.Uint32(raw))
		return primitives.ExtractUTF8String(h.Item(hid))
	case PtUnicode:
		hid := int(le.Uint32(raw))
		return primitives.ExtractUTF16String(h.Item(hid))
	case PtBinary:
		hid := int(le.Uint32(raw))
		return h.Item(hid)
	default:
		hid := int(le.Uint32(raw))
		if item := h.Item(hid); item != nil {
			return item
		}
		return raw
	}
}

// String returns the value at id rendered as a string, or "" if
// absent or not string-shaped.
func (pc PropertyContext) String(id uint16) string {
	switch v := pc[id].(type) {
	case string:
		return v
	default:
		return ""
	}
}
