package registry

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// NamedKey is a decoded "nk" cell.
type NamedKey struct {
	LastWritten      uint64
	ParentOffset     int32
	NumSubkeys       uint32
	SubkeyListOffset int32
	NumValues        uint32
	ValueListOffset  int32
	SecurityOffset   int32
	Name             string
	IsRoot           bool
}

func parseNamedKey(body []byte) (*NamedKey, error) {
	if len(body) < 76 {
		return nil, &primitives.Truncation{Artifact: "registry.nk", Wanted: 76, Got: len(body)}
	}
	le := binary.LittleEndian
	flags := le.Uint16(body[2:])
	nameLen := le.Uint16(body[74:])
	if int(76+nameLen) > len(body) {
		return nil, &primitives.Truncation{Artifact: "registry.nk", Wanted: int(76 + nameLen), Got: len(body)}
	}
	nameBytes := body[76 : 76+nameLen]
	var name string
	if flags&0x20 != 0 { // compressed (ASCII) name
		name = primitives.ExtractUTF8String(nameBytes)
	} else {
		name = primitives.ExtractUTF16String(nameBytes)
	}

	return &NamedKey{
		LastWritten:      le.Uint64(body[4:]),
		ParentOffset:      int32(le.Uint32(body[16:])),
		NumSubkeys:        le.Uint32(body[20:]),
		SubkeyListOffset:  int32(le.Uint32(body[28:])),
		NumValues:         le.Uint32(body[36:]),
		ValueListOffset:   int32(le.Uint32(body[40:])),
		SecurityOffset:    int32(le.Uint32(body[44:])),
		Name:              name,
		IsRoot:            flags&0x4 != 0 || flags&0x2000 != 0,
	}, nil
}

// ValueKey is a decoded "vk" cell.
type ValueKey struct {
	Name     string
	DataType uint32
	DataLen  uint32
	Inline   bool
	InlineValue [4]byte
	DataOffset  int32
}

func parseValueKey(body []byte) (*ValueKey, error) {
	if len(body) < 20 {
		return nil, &primitives.Truncation{Artifact: "registry.vk", Wanted: 20, Got: len(body)}
	}
	le := binary.LittleEndian
	nameLen := le.Uint16(body[2:])
	rawLen := le.Uint32(body[4:])
	flags := le.Uint16(body[16:])

	inline := rawLen&0x80000000 != 0
	dataLen := rawLen &^ 0x80000000

	var name string
	if int(20+nameLen) <= len(body) {
		nameBytes := body[20 : 20+nameLen]
		if flags&0x1 != 0 {
			name = primitives.ExtractUTF8String(nameBytes)
		} else {
			name = primitives.ExtractUTF16String(nameBytes)
		}
	}

	vk := &ValueKey{
		Name:     name,
		DataType: le.Uint32(body[12:]),
		DataLen:  dataLen,
		Inline:   inline,
		DataOffset: int32(le.Uint32(body[8:])),
	}
	copy(vk.InlineValue[:], body[8:12])
	return vk, nil
}

// SecurityKey is a decoded "sk" cell: just enough to resolve the
// owner SID once per offset.
type SecurityKey struct {
	OwnerSID string
}

func parseSecurityKey(body []byte) (*SecurityKey, error) {
	if len(body) < 20 {
		return nil, &primitives.Truncation{Artifact: "registry.sk", Wanted: 20, Got: len(body)}
	}
	le := binary.LittleEndian
	sdSize := le.Uint32(body[16:])
	if int(20+sdSize) > len(body) {
		sdSize = uint32(len(body) - 20)
	}
	sd := body[20 : 20+sdSize]
	return &SecurityKey{OwnerSID: parseOwnerSID(sd)}, nil
}

// subkeyList decodes lf/lh/li/ri into a flat list of child nk cell
// offsets; ri indirects through more list cells, merged here.
func (h *Hive) subkeyList(offset int32, visited *primitives.VisitedSet) ([]int32, error) {
	if offset < 0 || !visited.VisitOnce(int64(offset)) {
		return nil, nil
	}
	body, _, err := h.cellAt(offset)
	if err != nil {
		return nil, err
	}
	sig, err := signature(body)
	if err != nil {
		return nil, err
	}
	le := binary.LittleEndian
	if len(body) < 4 {
		return nil, &primitives.Truncation{Artifact: "registry.list", Wanted: 4, Got: len(body)}
	}
	count := int(le.Uint16(body[2:]))

	switch sig {
	case "li":
		out := make([]int32, 0, count)
		for i := 0; i < count; i++ {
			at := 4 + i*4
			if at+4 > len(body) {
				break
			}
			out = append(out, int32(le.Uint32(body[at:])))
		}
		return out, nil
	case "lf", "lh":
		out := make([]int32, 0, count)
		for i := 0; i < count; i++ {
			at := 4 + i*8 // cell offset (4) + 4-byte hash
			if at+4 > len(body) {
				break
			}
			out = append(out, int32(le.Uint32(body[at:])))
		}
		return out, nil
	case "ri":
		var out []int32
		for i := 0; i < count; i++ {
			at := 4 + i*4
			if at+4 > len(body) {
				break
			}
			sub := int32(le.Uint32(body[at:]))
			children, err := h.subkeyList(sub, visited)
			if err != nil {
				continue
			}
			out = append(out, children...)
		}
		return out, nil
	default:
		return nil, &primitives.FormatViolation{Artifact: "registry.list", Kind: "unknown subkey list signature " + sig}
	}
}

// valueList decodes the (unsigned) cell holding `count` vk offsets.
func (h *Hive) valueList(offset int32, count int) ([]int32, error) {
	if offset < 0 {
		return nil, nil
	}
	body, _, err := h.cellAt(offset)
	if err != nil {
		return nil, err
	}
	le := binary.LittleEndian
	out := make([]int32, 0, count)
	for i := 0; i < count; i++ {
		at := i * 4
		if at+4 > len(body) {
			break
		}
		out = append(out, int32(le.Uint32(body[at:])))
	}
	return out, nil
}
