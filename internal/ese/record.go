package ese

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// ColumnType mirrors the JET_coltyp values the catalog records for
// each column.
type ColumnType uint32

const (
	ColBit ColumnType = iota + 1
	ColUnsignedByte
	ColShort
	ColLong
	ColCurrency
	ColIEEESingle
	ColIEEEDouble
	ColDateTime
	ColBinary
	ColText
	ColLongBinary
	ColLongText
	ColSLV
	ColUnsignedLong
	ColLongLong
	ColGUID
	ColUnsignedShort
)

// ColumnDef is one catalog-declared column: its id, name, type, and
// whether its value is stored in the record's fixed-size region
// (small, non-NULLable, not a tagged/variable column).
type ColumnDef struct {
	ID       uint32
	Name     string
	Type     ColumnType
	Fixed    bool
	Size     int
}

// Record is a decoded row: column name to raw decoded value. Values
// use native Go types chosen by ColumnType (bool, uint8, int16,
// uint16, int32, uint32, uint64, string, []byte); floating-point and
// other unlisted column types are returned as raw []byte.
type Record map[string]any

// DecodeRecord applies the reduced-depth column layout this reader
// uses for every table: a fixed-size region sized by the sum of fixed
// columns present, a variable-length region addressed by a cumulative
// end-offset array, and a tagged region addressed by (columnID,
// offset) pairs — mirroring the three-region shape real ESE records
// use without chasing every historical on-disk quirk.
func DecodeRecord(raw []byte, cols []ColumnDef) (Record, error) {
	if len(raw) < 2 {
		return nil, &primitives.Truncation{Artifact: "ese.record", Wanted: 2, Got: len(raw)}
	}
	le := binary.LittleEndian
	fixedSize := int(le.Uint16(raw[0:]))
	if 2+fixedSize > len(raw) {
		return nil, &primitives.Truncation{Artifact: "ese.record", Wanted: 2 + fixedSize, Got: len(raw)}
	}
	fixedData := raw[2 : 2+fixedSize]
	rest := raw[2+fixedSize:]

	out := make(Record, len(cols))

	fixedOff := 0
	for _, c := range cols {
		if !c.Fixed {
			continue
		}
		if fixedOff+c.Size > len(fixedData) {
			break
		}
		out[c.Name] = decodeScalar(fixedData[fixedOff:fixedOff+c.Size], c.Type)
		fixedOff += c.Size
	}

	if len(rest) < 2 {
		return out, nil
	}
	numVar := int(le.Uint16(rest[0:]))
	varOffArrayEnd := 2 + numVar*2
	if varOffArrayEnd > len(rest) {
		return out, nil
	}
	varRegion := rest[varOffArrayEnd:]
	varCols := fixedlessColumns(cols, false)
	prevEnd := 0
	for i := 0; i < numVar && i < len(varCols); i++ {
		end := int(le.Uint16(rest[2+i*2:]))
		if end > len(varRegion) || end < prevEnd {
			break
		}
		out[varCols[i].Name] = decodeScalar(varRegion[prevEnd:end], varCols[i].Type)
		prevEnd = end
	}
	if varOffArrayEnd+prevEnd > len(rest) {
		return out, nil
	}
	rest = rest[varOffArrayEnd+prevEnd:]

	if len(rest) < 2 {
		return out, nil
	}
	numTagged := int(le.Uint16(rest[0:]))
	tagArrayEnd := 2 + numTagged*4
	if tagArrayEnd > len(rest) {
		return out, nil
	}
	taggedRegion := rest[tagArrayEnd:]
	byID := make(map[uint32]ColumnDef, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}
	for i := 0; i < numTagged; i++ {
		entry := rest[2+i*4:]
		colID := uint32(le.Uint16(entry[0:]))
		off := int(le.Uint16(entry[2:]))
		var end int
		if i+1 < numTagged {
			end = int(le.Uint16(rest[2+(i+1)*4+2:]))
		} else {
			end = len(taggedRegion)
		}
		if off > end || end > len(taggedRegion) {
			continue
		}
		if c, ok := byID[colID]; ok {
			out[c.Name] = decodeScalar(taggedRegion[off:end], c.Type)
		}
	}

	return out, nil
}

func fixedlessColumns(cols []ColumnDef, fixed bool) []ColumnDef {
	out := make([]ColumnDef, 0, len(cols))
	for _, c := range cols {
		if c.Fixed == fixed {
			out = append(out, c)
		}
	}
	return out
}

func decodeScalar(b []byte, t ColumnType) any {
	le := binary.LittleEndian
	switch t {
	case ColBit:
		return len(b) > 0 && b[0] != 0
	case ColUnsignedByte:
		if len(b) < 1 {
			return nil
		}
		return b[0]
	case ColShort:
		if len(b) < 2 {
			return nil
		}
		return int16(le.Uint16(b))
	case ColUnsignedShort:
		if len(b) < 2 {
			return nil
		}
		return le.Uint16(b)
	case ColLong:
		if len(b) < 4 {
			return nil
		}
		return int32(le.Uint32(b))
	case ColUnsignedLong:
		if len(b) < 4 {
			return nil
		}
		return le.Uint32(b)
	case ColLongLong, ColCurrency, ColDateTime:
		if len(b) < 8 {
			return nil
		}
		return le.Uint64(b)
	case ColGUID:
		return primitives.FormatGuidLEBytes(b)
	case ColText, ColLongText:
		return primitives.ExtractAsciiUtf16String(b)
	default:
		return b
	}
}
