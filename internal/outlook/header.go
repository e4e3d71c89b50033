// Package outlook decodes Outlook OST/PST message stores: the header
// and dual B-tree (NBT/BBT) navigation layer, block resolution
// (including multi-block reassembly), Heap-on-Node, and the Property
// and Table Context layers built on top of it. Implemented at
// table-dump depth — folders, messages, and their PidTag properties —
// not full MAPI query-engine depth.
package outlook

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const headerSize = 64

// magic is the store's leading signature. Real OST/PST stores carry
// "!BDN" (ANSI) or the Unicode variant; this reader speaks a single
// normalized on-disk shape for both, since the distinction only
// changes field widths the header below already assumes are 64-bit.
var magic = [4]byte{'!', 'B', 'D', 'N'}

// Header is the fixed store header: format version plus the byte
// offsets of the two root B-tree pages every other lookup in the
// store is resolved through.
type Header struct {
	Version  uint32
	RootNBT  uint64
	RootBBT  uint64
	FileSize uint64
}

// ParseHeader decodes the store's fixed 64-byte header.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < headerSize {
		return nil, &primitives.Truncation{Artifact: "outlook.header", Wanted: headerSize, Got: len(buf)}
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		return nil, &primitives.FormatViolation{Artifact: "outlook.header", Kind: "bad magic"}
	}
	le := binary.LittleEndian
	return &Header{
		Version:  le.Uint32(buf[4:]),
		RootNBT:  le.Uint64(buf[8:]),
		RootBBT:  le.Uint64(buf[16:]),
		FileSize: le.Uint64(buf[24:]),
	}, nil
}
