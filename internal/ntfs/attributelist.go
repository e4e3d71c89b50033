package ntfs

import (
	"encoding/binary"
)

// AttributeListEntry is one record in an $ATTRIBUTE_LIST, pointing at
// an attribute that may live in an extension MFT record rather than
// the base record that holds the list itself.
type AttributeListEntry struct {
	Type     uint32
	StartVCN uint64
	EntryRef uint64 // MFT reference of the record actually holding the attribute
}

// ParseAttributeList decodes a resident or already-reassembled
// non-resident $ATTRIBUTE_LIST body into its entries.
func ParseAttributeList(buf []byte) []AttributeListEntry {
	var out []AttributeListEntry
	le := binary.LittleEndian
	off := 0
	for off+26 <= len(buf) {
		recLen := le.Uint16(buf[off+4:])
		if recLen == 0 || off+int(recLen) > len(buf) {
			break
		}
		out = append(out, AttributeListEntry{
			Type:     le.Uint32(buf[off:]),
			StartVCN: le.Uint64(buf[off+8:]),
			EntryRef: le.Uint64(buf[off+16:]),
		})
		off += int(recLen)
	}
	return out
}

// MergeAttributes walks an entry's own attributes, and, whenever it
// carries a resident $ATTRIBUTE_LIST, asks loadExtension for the
// attributes of every other MFT record the list names, returning the
// union. A non-resident $ATTRIBUTE_LIST is not read, so the attributes
// of the extension records it names are not merged.
func MergeAttributes(e *Entry, loadExtension func(ref uint64) (*Entry, error)) ([]Attribute, error) {
	out := append([]Attribute(nil), e.Attributes...)

	for _, a := range e.Attributes {
		if a.Type != AttrAttributeList || !a.Resident {
			continue
		}
		entries := ParseAttributeList(a.ResidentData)
		seen := map[uint64]bool{uint64(e.Index): true}
		for _, entry := range entries {
			idx, _ := Reference(entry.EntryRef)
			if seen[uint64(idx)] {
				continue
			}
			seen[uint64(idx)] = true
			ext, err := loadExtension(entry.EntryRef)
			if err != nil || ext == nil {
				continue
			}
			out = append(out, ext.Attributes...)
		}
	}
	return out, nil
}
