package ole

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// ShellItemType classifies a decoded shell item by its class type
// indicator byte.
type ShellItemType int

const (
	ShellItemUnknown ShellItemType = iota
	ShellItemDirectory
	ShellItemFile
	ShellItemNetwork
	ShellItemControlPanel
	ShellItemURI
	ShellItemVolume
	ShellItemDelegate
	ShellItemRootFolder
	ShellItemVariable
)

// ShellItem is one decoded entry from a shell item id list.
type ShellItem struct {
	Type        ShellItemType
	Value       string
	MFTEntry    uint64
	MFTSequence uint16
	Created     string
	Modified    string
	Accessed    string
}

// ParseShellItemList decodes a 2-byte-size-prefixed polymorphic list of
// shell items, stopping at the first zero-size (terminator) entry.
func ParseShellItemList(buf []byte) []ShellItem {
	var out []ShellItem
	le := binary.LittleEndian
	off := 0
	for off+2 <= len(buf) {
		size := int(le.Uint16(buf[off:]))
		if size == 0 {
			break
		}
		if off+size > len(buf) {
			break
		}
		item, err := parseShellItem(buf[off : off+size])
		if err == nil {
			out = append(out, *item)
		}
		off += size
	}
	return out
}

func parseShellItem(buf []byte) (*ShellItem, error) {
	if len(buf) < 3 {
		return nil, &primitives.Truncation{Artifact: "ole.shellitem", Wanted: 3, Got: len(buf)}
	}
	classType := buf[2]

	switch {
	case classType&0x70 == 0x30: // file entry: directory (0x31) or file (0x32)
		return parseFileEntryShellItem(buf, classType)
	case classType == 0x1F:
		return &ShellItem{Type: ShellItemRootFolder, Value: primitives.FormatGuidLEBytes(tail16(buf, 3))}, nil
	case classType&0xF0 == 0x40:
		return &ShellItem{Type: ShellItemNetwork, Value: primitives.ExtractUTF8String(buf[3:])}, nil
	case classType&0xF0 == 0x20:
		return &ShellItem{Type: ShellItemVolume, Value: primitives.ExtractUTF8String(buf[3:])}, nil
	default:
		return &ShellItem{Type: ShellItemUnknown}, nil
	}
}

func tail16(buf []byte, from int) []byte {
	if from+16 > len(buf) {
		return nil
	}
	return buf[from : from+16]
}

// parseFileEntryShellItem decodes the common Win9x-style file entry
// layout: flags, FAT date/time, primary (short) name, then an optional
// extension block list, the last of which is frequently "beef0004"
// (carrying FAT created/accessed times, the MFT entry/sequence, and a
// long name).
func parseFileEntryShellItem(buf []byte, classType byte) (*ShellItem, error) {
	if len(buf) < 14 {
		return nil, &primitives.Truncation{Artifact: "ole.shellitem", Wanted: 14, Got: len(buf)}
	}
	le := binary.LittleEndian
	itemType := ShellItemFile
	if classType&0x01 != 0 {
		itemType = ShellItemDirectory
	}

	modFatDate := le.Uint16(buf[8:])
	modFatTime := le.Uint16(buf[10:])

	nameStart := 14
	nameEnd := nameStart
	for nameEnd < len(buf) && buf[nameEnd] != 0 {
		nameEnd++
	}
	primaryName := string(buf[nameStart:nameEnd])

	item := &ShellItem{
		Type:     itemType,
		Value:    primaryName,
		Modified: primitives.FATToISO(modFatDate, modFatTime),
	}

	// Extension blocks start at the next even offset after the NUL
	// terminator, each prefixed by (size uint16, version uint16, sig uint32).
	extStart := nameEnd + 1
	if extStart%2 != 0 {
		extStart++
	}
	for extStart+8 <= len(buf) {
		extSize := int(le.Uint16(buf[extStart:]))
		if extSize == 0 || extStart+extSize > len(buf) {
			break
		}
		sig := le.Uint32(buf[extStart+4:])
		if sig == 0xbeef0004 {
			applyBeef0004(buf[extStart:extStart+extSize], item)
		}
		extStart += extSize
	}

	return item, nil
}

// applyBeef0004 decodes the beef0004 extension block: Created and
// Accessed come from its FAT date/time pairs, MFTEntry and MFTSequence
// from its file reference, and Value from the long (Unicode) filename
// this block commonly appends. Modified keeps the item's own FAT time.
func applyBeef0004(block []byte, item *ShellItem) {
	if len(block) < 26 {
		return
	}
	le := binary.LittleEndian
	createdFAT := [2]uint16{le.Uint16(block[8:]), le.Uint16(block[10:])}
	accessedFAT := [2]uint16{le.Uint16(block[12:]), le.Uint16(block[14:])}
	mftRef := le.Uint64(block[16:])

	item.Created = primitives.FATToISO(createdFAT[0], createdFAT[1])
	item.Accessed = primitives.FATToISO(accessedFAT[0], accessedFAT[1])
	item.MFTEntry = mftRef & 0x0000FFFFFFFFFFFF
	item.MFTSequence = uint16(mftRef >> 48)

	if len(block) > 26 {
		name := primitives.ExtractUTF16String(block[26:])
		if name != "" {
			item.Value = name
		}
	}
}
