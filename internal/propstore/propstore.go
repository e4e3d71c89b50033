// Package propstore decodes a serialized Property Store: a 4-byte
// size, the "1SPS" signature, a 16-byte format-id GUID, and a list of
// (value_size, name_size, reserved, name, type, value) tuples. The
// well-known string-keyed bag (d5cdd505-...) carries a name per
// property; every other format id is numeric-property-id-keyed.
package propstore

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// VariantType mirrors the PROPVARIANT type tag relevant to Property
// Store, Shell Item, and Outlook property decoding.
type VariantType uint16

const (
	VTEmpty   VariantType = 0x0000
	VTI2      VariantType = 0x0002
	VTI4      VariantType = 0x0003
	VTR4      VariantType = 0x0004
	VTR8      VariantType = 0x0005
	VTBool    VariantType = 0x000B
	VTI1      VariantType = 0x0010
	VTUI1     VariantType = 0x0011
	VTUI2     VariantType = 0x0012
	VTUI4     VariantType = 0x0013
	VTI8      VariantType = 0x0014
	VTUI8     VariantType = 0x0015
	VTLPSTR   VariantType = 0x001E
	VTLPWSTR  VariantType = 0x001F
	VTFiletime VariantType = 0x0040
	VTBlob    VariantType = 0x0041
	VTCLSID   VariantType = 0x0048
	VTVector  VariantType = 0x1000
)

// Property is one decoded value from a property bag, keyed by either
// a well-known name or a numeric property id (Name is empty then).
type Property struct {
	Name  string
	ID    uint32
	Type  VariantType
	Value any
}

// wellKnownStringKeyedGuid is the one format id (out of the many a
// Property Store can carry) whose properties are keyed by name rather
// than by numeric id.
const wellKnownStringKeyedGuid = "d5cdd505-2e9c-101b-9397-08002b2cf9ae"

// Store is a decoded Property Store: the format GUID plus its
// properties in on-disk order.
type Store struct {
	FormatID   string
	Properties []Property
}

// Parse decodes one serialized property store block.
func Parse(buf []byte) (*Store, error) {
	rest, size, err := primitives.Unsigned4(buf, primitives.LittleEndian)
	if err != nil {
		return nil, &primitives.Truncation{Artifact: "propstore", Wanted: 4, Got: len(buf)}
	}
	if int(size) > len(buf) || size < 8 {
		return nil, &primitives.FormatViolation{Artifact: "propstore", Kind: "bad block size"}
	}
	rest, sig, err := primitives.Take(rest, 4)
	if err != nil || string(sig) != "1SPS" {
		return nil, &primitives.FormatViolation{Artifact: "propstore", Kind: "missing 1SPS signature"}
	}
	rest, guidBytes, err := primitives.Take(rest, 16)
	if err != nil {
		return nil, &primitives.Truncation{Artifact: "propstore", Wanted: 16, Got: len(rest)}
	}
	formatID := primitives.FormatGuidLEBytes(guidBytes)
	stringKeyed := primitives.IsWellKnownGuid(formatID, wellKnownStringKeyedGuid)

	store := &Store{FormatID: formatID}
	for len(rest) >= 4 {
		var valueSize uint32
		rest, valueSize, err = primitives.Unsigned4(rest, primitives.LittleEndian)
		if err != nil {
			break
		}
		if valueSize == 0 {
			break // terminator tuple
		}
		if int(valueSize) > len(rest)+4 || valueSize < 4 {
			break
		}
		tuple := rest[:valueSize-4]
		rest = rest[valueSize-4:]

		prop, ok := parseTuple(tuple, stringKeyed)
		if ok {
			store.Properties = append(store.Properties, prop)
		}
	}
	return store, nil
}

func parseTuple(tuple []byte, stringKeyed bool) (Property, bool) {
	var prop Property
	if stringKeyed {
		rest, nameSize, err := primitives.Unsigned4(tuple, primitives.LittleEndian)
		if err != nil {
			return prop, false
		}
		rest, reserved, err := primitives.Unsigned4(rest, primitives.LittleEndian)
		_ = reserved
		if err != nil || int(nameSize) > len(rest) {
			return prop, false
		}
		nameBytes, rest2, err := splitAt(rest, int(nameSize))
		if err != nil {
			return prop, false
		}
		prop.Name = primitives.ExtractUTF16String(nameBytes)
		return finishValue(prop, rest2)
	}
	rest, id, err := primitives.Unsigned4(tuple, primitives.LittleEndian)
	if err != nil {
		return prop, false
	}
	prop.ID = id
	rest, reserved, err := primitives.Unsigned4(rest, primitives.LittleEndian)
	_ = reserved
	if err != nil {
		return prop, false
	}
	return finishValue(prop, rest)
}

func splitAt(buf []byte, n int) (head, tail []byte, err error) {
	return primitives.Take(buf, n)
}

func finishValue(prop Property, rest []byte) (Property, bool) {
	rest, typ, err := primitives.Unsigned2(rest, primitives.LittleEndian)
	if err != nil {
		return prop, false
	}
	prop.Type = VariantType(typ)
	rest, _, err = primitives.Unsigned2(rest, primitives.LittleEndian) // padding
	if err != nil {
		return prop, false
	}
	prop.Value = decodeValue(prop.Type, rest)
	return prop, true
}

func decodeValue(t VariantType, buf []byte) any {
	le := binary.LittleEndian
	switch t {
	case VTI1, VTUI1:
		if len(buf) >= 1 {
			return buf[0]
		}
	case VTI2, VTUI2, VTBool:
		if len(buf) >= 2 {
			return le.Uint16(buf)
		}
	case VTI4, VTUI4, VTR4:
		if len(buf) >= 4 {
			return le.Uint32(buf)
		}
	case VTI8, VTUI8, VTR8, VTFiletime:
		if len(buf) >= 8 {
			v := le.Uint64(buf)
			if t == VTFiletime {
				return primitives.FiletimeToISO(v)
			}
			return v
		}
	case VTLPWSTR:
		return primitives.ExtractUTF16String(buf)
	case VTLPSTR:
		return primitives.ExtractUTF8String(buf)
	case VTCLSID:
		if len(buf) >= 16 {
			return primitives.FormatGuidLEBytes(buf[:16])
		}
	case VTBlob:
		if len(buf) >= 4 {
			n := le.Uint32(buf)
			if int(n) <= len(buf)-4 {
				return buf[4 : 4+n]
			}
		}
	}
	return buf
}
