package outlook

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// TableContext is a decoded Table Context: a matrix of property rows,
// each the same shape a Property Context row takes.
type TableContext struct {
	Rows []PropertyContext
}

// ParseTableContext decodes a Table Context from a Heap-on-Node: the
// first heap item (HID 1) holds a 2-byte row count, then the remaining
// heap items (HID 2 onward) are one Property-Context-shaped row apiece — the flat
// "index item, then one item per row" layout Property Context and
// Table Context share, the same "decode a flat property bag into
// typed values" shape as a property-bag reader, just repeated per row
// instead of once.
func ParseTableContext(h *Heap) (*TableContext, error) {
	index := h.Item(1)
	if index == nil || len(index) < 2 {
		return nil, &primitives.InputNotPresent{Artifact: "outlook.tc", Path: "heap item 0"}
	}
	le := binary.LittleEndian
	numRows := int(le.Uint16(index[0:]))

	tc := &TableContext{Rows: make([]PropertyContext, 0, numRows)}
	for i := 0; i < numRows; i++ {
		rowItem := h.Item(2 + i)
		if rowItem == nil {
			continue
		}
		row := make(PropertyContext)
		for off := 0; off+8 <= len(rowItem); off += 8 {
			propID := le.Uint16(rowItem[off:])
			propType := le.Uint16(rowItem[off+2:])
			raw := rowItem[off+4 : off+8]
			row[propID] = decodePropertyValue(h, propType, raw)
		}
		tc.Rows = append(tc.Rows, row)
	}
	return tc, nil
}
