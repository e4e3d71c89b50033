// Package ese reads the Extensible Storage Engine database format
// (.dat/.edb) that backs SRUM, Windows Search, Amcache, and BITS
// qmgr.db: page header decode, B-tree traversal, catalog load, and
// record column decode.
package ese

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Page type flags, decoded from the page header's Flags field.
const (
	flagRoot      = 0x0001
	flagLeaf      = 0x0002
	flagParent    = 0x0004
	flagEmpty     = 0x0008
	flagSpaceTree = 0x0020
	flagIndex     = 0x0040
	flagLongValue = 0x0080
)

const pageHeaderSize = 40
const tagEntrySize = 4

// PageHeader is the fixed leading header every database page carries:
// page linkage (siblings, parent), a checksum, and page-type flags.
type PageHeader struct {
	PageNumber uint32
	PrevPage   uint32
	NextPage   uint32
	ParentPage uint32
	Checksum   uint32
	Flags      uint32
	NumTags    uint16
}

func (h PageHeader) isLeaf() bool      { return h.Flags&flagLeaf != 0 }
func (h PageHeader) isLongValue() bool { return h.Flags&flagLongValue != 0 }

// parsePageHeader decodes the fixed header at the start of a page.
func parsePageHeader(page []byte) (PageHeader, error) {
	if len(page) < pageHeaderSize {
		return PageHeader{}, &primitives.Truncation{Artifact: "ese.page", Wanted: pageHeaderSize, Got: len(page)}
	}
	le := binary.LittleEndian
	return PageHeader{
		PageNumber: le.Uint32(page[0:]),
		PrevPage:   le.Uint32(page[4:]),
		NextPage:   le.Uint32(page[8:]),
		ParentPage: le.Uint32(page[12:]),
		Checksum:   le.Uint32(page[16:]),
		Flags:      le.Uint32(page[20:]),
		NumTags:    le.Uint16(page[24:]),
	}, nil
}

// tagRange returns the (start, end) byte range within page for the
// i-th tag, the ESE equivalent of an HFS B-tree node's trailing record
// directory: fixed-size entries packed from the end of the page
// working backward.
func tagRange(page []byte, i int) (int, int, bool) {
	at := len(page) - (i+1)*tagEntrySize
	if at < pageHeaderSize || at+tagEntrySize > len(page) {
		return 0, 0, false
	}
	le := binary.LittleEndian
	start := int(le.Uint16(page[at:]))
	end := int(le.Uint16(page[at+2:]))
	if start < pageHeaderSize || start > end || end > len(page) {
		return 0, 0, false
	}
	return start, end, true
}

// pageTags returns every tag's raw byte slice, in tag order (tag 0 is
// conventionally the page's own key/header entry; real data starts at
// tag 1 on leaf/branch pages).
func pageTags(page []byte, hdr PageHeader) [][]byte {
	out := make([][]byte, 0, hdr.NumTags)
	for i := 0; i < int(hdr.NumTags); i++ {
		start, end, ok := tagRange(page, i)
		if !ok {
			break
		}
		out = append(out, page[start:end])
	}
	return out
}
