// Package spotlight decodes the macOS Spotlight metadata store:
// store.db (a header, a block-offset map, and property dictionaries)
// and the companion dbStr-* string-table files the property
// dictionaries reference by index. Decoded at structural depth: the
// header's block sizes and counts and the property key/value shape.
// The block-offset map is not walked and no query index is read.
package spotlight

import (
	"encoding/binary"
	"math"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const storeSignature = "8tsd"

// Header is the fixed store_v2 header.
type Header struct {
	Signature    string
	BlockSize0   uint32
	BlockSize1   uint32
	BlockSize2   uint32
	BlockCount0  uint32
	BlockCount1  uint32
	BlockCount2  uint32
	IndexCount   uint32
}

// ParseHeader decodes the fixed-size store_v2 header.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < 0x5a {
		return nil, &primitives.Truncation{Artifact: "spotlight.header", Wanted: 0x5a, Got: len(buf)}
	}
	if string(buf[0:4]) != storeSignature {
		return nil, &primitives.FormatViolation{Artifact: "spotlight.header", Kind: "bad store signature"}
	}
	le := binary.LittleEndian
	return &Header{
		Signature:   storeSignature,
		BlockSize0:  le.Uint32(buf[0x04:]),
		BlockSize1:  le.Uint32(buf[0x08:]),
		BlockSize2:  le.Uint32(buf[0x0c:]),
		BlockCount0: le.Uint32(buf[0x10:]),
		BlockCount1: le.Uint32(buf[0x14:]),
		BlockCount2: le.Uint32(buf[0x18:]),
		IndexCount:  le.Uint32(buf[0x1c:]),
	}, nil
}

// StringTable is a decoded dbStr-* table: a flat list of NUL-
// terminated UTF-8 property/attribute names, indexed by a preceding
// 4-byte id, the shape every generation of the table shares.
type StringTable map[uint32]string

// ParseStringTable decodes a dbStr-* file into an id→name map.
func ParseStringTable(buf []byte) StringTable {
	out := StringTable{}
	for len(buf) >= 5 {
		id := binary.LittleEndian.Uint32(buf[0:4])
		rest := buf[4:]
		nul := indexByte(rest, 0)
		if nul < 0 {
			break
		}
		out[id] = primitives.ExtractUTF8String(rest[:nul])
		buf = rest[nul+1:]
	}
	return out
}

// PropertyValueKind classifies a property dictionary entry's on-disk
// value shape.
type PropertyValueKind int

const (
	KindUnknown PropertyValueKind = iota
	KindString
	KindInt64
	KindBool
	KindDate
	KindMultiString
)

// Property is one decoded entry from a metadata item's property
// dictionary.
type Property struct {
	Name  string
	Kind  PropertyValueKind
	Value any
}

// ParsePropertyDictionary decodes one metadata item's property
// dictionary block: a count of entries, then for each entry a 4-byte
// name-table id, a 1-byte kind tag, and a kind-specific value. String
// ids are resolved against the supplied StringTable; an id with no
// match falls back to its raw numeric form.
func ParsePropertyDictionary(buf []byte, names StringTable) ([]Property, error) {
	if len(buf) < 4 {
		return nil, &primitives.Truncation{Artifact: "spotlight.propdict", Wanted: 4, Got: len(buf)}
	}
	le := binary.LittleEndian
	count := le.Uint32(buf[0:4])
	buf = buf[4:]

	var out []Property
	for i := uint32(0); i < count && len(buf) >= 5; i++ {
		id := le.Uint32(buf[0:4])
		kindByte := buf[4]
		buf = buf[5:]
		name := names[id]
		if name == "" {
			name = formatUnknownID(id)
		}
		prop := Property{Name: name}
		switch kindByte {
		case 0x00: // string
			n, rest, ok := readLengthPrefixed(buf)
			if !ok {
				return out, &primitives.Truncation{Artifact: "spotlight.propdict", Kind: "string"}
			}
			prop.Kind = KindString
			prop.Value = primitives.ExtractUTF8String(n)
			buf = rest
		case 0x01: // int64
			if len(buf) < 8 {
				return out, &primitives.Truncation{Artifact: "spotlight.propdict", Wanted: 8, Got: len(buf)}
			}
			prop.Kind = KindInt64
			prop.Value = int64(le.Uint64(buf[:8]))
			buf = buf[8:]
		case 0x02: // bool
			if len(buf) < 1 {
				return out, &primitives.Truncation{Artifact: "spotlight.propdict", Wanted: 1, Got: len(buf)}
			}
			prop.Kind = KindBool
			prop.Value = buf[0] != 0
			buf = buf[1:]
		case 0x03: // date (cocoa seconds as f64 bit pattern)
			if len(buf) < 8 {
				return out, &primitives.Truncation{Artifact: "spotlight.propdict", Wanted: 8, Got: len(buf)}
			}
			prop.Kind = KindDate
			prop.Value = primitives.CocoaToISO(math.Float64frombits(le.Uint64(buf[:8])))
			buf = buf[8:]
		case 0x04: // multi-string: count then that many length-prefixed strings
			if len(buf) < 4 {
				return out, &primitives.Truncation{Artifact: "spotlight.propdict", Wanted: 4, Got: len(buf)}
			}
			n := le.Uint32(buf[:4])
			buf = buf[4:]
			vals := make([]string, 0, n)
			for j := uint32(0); j < n; j++ {
				s, rest, ok := readLengthPrefixed(buf)
				if !ok {
					break
				}
				vals = append(vals, primitives.ExtractUTF8String(s))
				buf = rest
			}
			prop.Kind = KindMultiString
			prop.Value = vals
		default:
			// unrecognized kind tag: stop this dictionary rather than
			// misinterpret the remaining bytes as a different shape.
			return out, &primitives.FormatViolation{Artifact: "spotlight.propdict", Kind: "unknown value kind"}
		}
		out = append(out, prop)
	}
	return out, nil
}

func readLengthPrefixed(buf []byte) (value, rest []byte, ok bool) {
	if len(buf) < 4 {
		return nil, buf, false
	}
	n := binary.LittleEndian.Uint32(buf[0:4])
	if int(n) > len(buf)-4 {
		return nil, buf, false
	}
	return buf[4 : 4+n], buf[4+n:], true
}

func formatUnknownID(id uint32) string {
	return "prop_" + itoa(id)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var digits [10]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}

func indexByte(buf []byte, b byte) int {
	for i, v := range buf {
		if v == b {
			return i
		}
	}
	return -1
}

