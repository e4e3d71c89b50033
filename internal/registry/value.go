package registry

import (
	"encoding/binary"
	"fmt"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Registry value type constants (REG_*).
const (
	RegSZ                     = 1
	RegExpandSZ               = 2
	RegBinary                 = 3
	RegDWORD                  = 4
	RegDWORDBigEndian         = 5
	RegLink                   = 6
	RegMultiSZ                = 7
	RegResourceList           = 8
	RegFullResourceDescriptor = 9
	RegResourceRequirementsList = 10
	RegQWORD                  = 11
)

// Triple is one (name, type, data) value emitted per key.
type Triple struct {
	Name string
	Type uint32
	Data any
}

// resolveData reads a vk cell's data, following `db` big-data chunks
// when the value didn't fit inline or in a single cell.
func (h *Hive) resolveData(vk *ValueKey) ([]byte, error) {
	if vk.DataLen == 0 {
		return nil, nil
	}
	if vk.Inline {
		n := vk.DataLen
		if n > 4 {
			n = 4
		}
		return vk.InlineValue[:n], nil
	}

	body, _, err := h.cellAt(vk.DataOffset)
	if err != nil {
		return nil, err
	}
	if len(body) >= 2 && string(body[:2]) == "db" {
		return h.readBigData(body, vk.DataLen)
	}
	if uint32(len(body)) < vk.DataLen {
		return body, &primitives.Truncation{Artifact: "registry.value", Wanted: int(vk.DataLen), Got: len(body)}
	}
	return body[:vk.DataLen], nil
}

// readBigData concatenates the segments a "db" cell points to, in
// order, per the data model's large-value reassembly rule.
func (h *Hive) readBigData(body []byte, totalLen uint32) ([]byte, error) {
	le := binary.LittleEndian
	if len(body) < 8 {
		return nil, &primitives.Truncation{Artifact: "registry.db", Wanted: 8, Got: len(body)}
	}
	numSegments := int(le.Uint16(body[2:]))
	listOffset := int32(le.Uint32(body[4:]))

	listBody, _, err := h.cellAt(listOffset)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, totalLen)
	for i := 0; i < numSegments && len(out) < int(totalLen); i++ {
		at := i * 4
		if at+4 > len(listBody) {
			break
		}
		segOffset := int32(le.Uint32(listBody[at:]))
		segBody, _, err := h.cellAt(segOffset)
		if err != nil {
			continue
		}
		remaining := int(totalLen) - len(out)
		if remaining < len(segBody) {
			segBody = segBody[:remaining]
		}
		out = append(out, segBody...)
	}
	return out, nil
}

// DecodeValue turns raw value bytes into a Go value per the REG_* type.
func DecodeValue(dataType uint32, data []byte) any {
	switch dataType {
	case RegSZ, RegExpandSZ, RegLink:
		return primitives.ExtractUTF16String(data)
	case RegMultiSZ:
		return splitMultiSZ(data)
	case RegDWORD:
		if len(data) >= 4 {
			return binary.LittleEndian.Uint32(data)
		}
		return uint32(0)
	case RegDWORDBigEndian:
		if len(data) >= 4 {
			return binary.BigEndian.Uint32(data)
		}
		return uint32(0)
	case RegQWORD:
		if len(data) >= 8 {
			return binary.LittleEndian.Uint64(data)
		}
		return uint64(0)
	default:
		return data // REG_BINARY and everything else passed through raw
	}
}

func splitMultiSZ(data []byte) []string {
	var out []string
	var cur []byte
	for i := 0; i+1 < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == 0 {
			if len(cur) == 0 {
				break // double-NUL terminator
			}
			out = append(out, primitives.ExtractUTF16String(cur))
			cur = nil
			continue
		}
		cur = append(cur, data[i], data[i+1])
	}
	if len(cur) > 0 {
		out = append(out, primitives.ExtractUTF16String(cur))
	}
	return out
}

func typeName(t uint32) string {
	switch t {
	case RegSZ:
		return "REG_SZ"
	case RegExpandSZ:
		return "REG_EXPAND_SZ"
	case RegBinary:
		return "REG_BINARY"
	case RegDWORD:
		return "REG_DWORD"
	case RegDWORDBigEndian:
		return "REG_DWORD_BIG_ENDIAN"
	case RegLink:
		return "REG_LINK"
	case RegMultiSZ:
		return "REG_MULTI_SZ"
	case RegQWORD:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("REG_UNKNOWN_%d", t)
	}
}
