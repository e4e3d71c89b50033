// Package ntfs decodes the NTFS Master File Table: one FILE (or torn
// BAAD) record per entry, its resident and non-resident attributes,
// and the data runs a non-resident attribute's bytes live in.
package ntfs

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const (
	entrySignature = "FILE"
	tornSignature  = "BAAD"
	fixupValuePair = 2
)

// Attribute type codes this package understands; unrecognized types
// are still walked (for attribute-list merging) but not decoded.
const (
	AttrStandardInformation = 0x10
	AttrAttributeList       = 0x20
	AttrFileName            = 0x30
	AttrData                = 0x80
)

// Attribute is one decoded MFT attribute header plus either its
// resident bytes or its non-resident data runs.
type Attribute struct {
	Type         uint32
	Name         string
	Resident     bool
	ResidentData []byte
	Runs         []DataRun
	RealSize     uint64
}

// Entry is one decoded MFT record.
type Entry struct {
	Index       int
	Sequence    uint16
	BaseRef     uint64 // MFT reference of the base record, for extension records
	InUse       bool
	IsDirectory bool
	HardLinks   uint16
	Attributes  []Attribute
	Torn        bool
}

// ParseEntry decodes one fixed-size MFT record (1024 bytes on every
// NTFS volume this package has seen) starting at buf[0]. A torn record
// (fixup mismatch, or a BAAD signature) is returned with Torn=true and
// no attributes, per the fixup integrity invariant.
func ParseEntry(buf []byte, index int) (*Entry, error) {
	if len(buf) < 56 {
		return nil, &primitives.Truncation{Artifact: "ntfs.mft", Wanted: 56, Got: len(buf)}
	}
	le := binary.LittleEndian
	sig := string(buf[0:4])
	if sig == tornSignature {
		return &Entry{Index: index, Torn: true}, nil
	}
	if sig != entrySignature {
		return nil, &primitives.FormatViolation{Artifact: "ntfs.mft", Kind: "bad FILE signature: " + sig}
	}

	fixupOffset := le.Uint16(buf[4:])
	fixupCount := le.Uint16(buf[6:])
	sequence := le.Uint16(buf[16:])
	hardLinks := le.Uint16(buf[18:])
	attrsOffset := le.Uint16(buf[20:])
	flags := le.Uint16(buf[22:])
	baseRef := le.Uint64(buf[32:])

	if fixupCount > 0 {
		if int(fixupOffset)+2 > len(buf) {
			return nil, &primitives.Truncation{Artifact: "ntfs.mft", Wanted: int(fixupOffset) + 2, Got: len(buf)}
		}
		fixupSig := [2]byte{buf[fixupOffset], buf[fixupOffset+1]}
		values := make([][2]byte, 0, fixupCount-1)
		for i := 1; i < int(fixupCount); i++ {
			at := int(fixupOffset) + i*2
			if at+2 > len(buf) {
				break
			}
			values = append(values, [2]byte{buf[at], buf[at+1]})
		}
		if primitives.ApplyFixup(buf, fixupSig, values, 512) {
			return &Entry{Index: index, Torn: true}, nil
		}
	}

	e := &Entry{
		Index:       index,
		Sequence:    sequence,
		BaseRef:     baseRef,
		InUse:       flags&0x1 != 0,
		IsDirectory: flags&0x2 != 0,
		HardLinks:   hardLinks,
	}

	off := int(attrsOffset)
	for off+8 <= len(buf) {
		attrType := le.Uint32(buf[off:])
		if attrType == 0xFFFFFFFF {
			break
		}
		attrLen := le.Uint32(buf[off+4:])
		if attrLen == 0 || off+int(attrLen) > len(buf) {
			break
		}
		attr, err := parseAttribute(buf[off : off+int(attrLen)])
		if err == nil {
			e.Attributes = append(e.Attributes, *attr)
		}
		off += int(attrLen)
	}

	return e, nil
}

func parseAttribute(buf []byte) (*Attribute, error) {
	if len(buf) < 16 {
		return nil, &primitives.Truncation{Artifact: "ntfs.attr", Wanted: 16, Got: len(buf)}
	}
	le := binary.LittleEndian
	attrType := le.Uint32(buf[0:])
	nonResident := buf[8] != 0
	nameLen := buf[9]
	nameOffset := le.Uint16(buf[10:])

	var name string
	if nameLen > 0 && int(nameOffset)+int(nameLen)*2 <= len(buf) {
		name = primitives.ExtractUTF16String(buf[nameOffset : nameOffset+uint16(nameLen)*2])
	}

	a := &Attribute{Type: attrType, Name: name, Resident: !nonResident}

	if !nonResident {
		contentLen := le.Uint32(buf[16:])
		contentOffset := le.Uint16(buf[20:])
		if int(contentOffset)+int(contentLen) > len(buf) {
			return nil, &primitives.Truncation{Artifact: "ntfs.attr", Wanted: int(contentOffset) + int(contentLen), Got: len(buf)}
		}
		a.ResidentData = buf[contentOffset : int(contentOffset)+int(contentLen)]
		a.RealSize = uint64(contentLen)
		return a, nil
	}

	if len(buf) < 64 {
		return nil, &primitives.Truncation{Artifact: "ntfs.attr", Wanted: 64, Got: len(buf)}
	}
	realSize := le.Uint64(buf[48:])
	runsOffset := le.Uint16(buf[32:])
	a.RealSize = realSize
	if int(runsOffset) < len(buf) {
		a.Runs = parseDataRuns(buf[runsOffset:])
	}
	return a, nil
}

// Reference splits a 64-bit MFT reference into its entry index (low 48
// bits) and sequence number (high 16 bits).
func Reference(ref uint64) (index int64, sequence uint16) {
	return int64(ref & 0x0000FFFFFFFFFFFF), uint16(ref >> 48)
}
