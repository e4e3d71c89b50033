package ese

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Reader wraps a raw .dat/.edb image and resolves page numbers to
// bytes.
type Reader struct {
	data     []byte
	pageSize int
}

// firstContentPage is the first page holding database content; the
// database header itself occupies pages 0 and 1.
const firstContentPage = 2

// NewReader builds a Reader over a fully-read database image, reading
// the page size from the database header.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < 256 {
		return nil, &primitives.Truncation{Artifact: "ese.header", Wanted: 256, Got: len(data)}
	}
	pageSize := int(binary.LittleEndian.Uint32(data[236:]))
	switch pageSize {
	case 4096, 8192, 16384, 32768:
	default:
		pageSize = 4096
	}
	return &Reader{data: data, pageSize: pageSize}, nil
}

// page returns the raw bytes of page number n (1-indexed, per the ESE
// convention that page 1 is the database header mirror).
func (r *Reader) page(n uint32) ([]byte, error) {
	if n == 0 {
		return nil, &primitives.FormatViolation{Artifact: "ese.page", Kind: "page 0 is not addressable"}
	}
	start := int(n) * r.pageSize
	if start+r.pageSize > len(r.data) {
		return nil, &primitives.Truncation{Artifact: "ese.page", Offset: int64(start), Wanted: r.pageSize, Got: len(r.data) - start}
	}
	return r.data[start : start+r.pageSize], nil
}

// WalkLeafRecords performs the iterative push/pop B-tree descent the
// ESE reader shares with HFS's catalog B*-tree walk: starting at
// rootPage, branch pages contribute their children to the stack; leaf
// pages contribute their tag-array records (skipping tag 0, the page
// key entry) to the result, in leaf-then-slot order. A per-call
// visited set stops traversal on a corrupt or cyclic page chain rather
// than looping forever.
func (r *Reader) WalkLeafRecords(rootPage uint32) ([][]byte, error) {
	var out [][]byte
	visited := primitives.NewVisitedSet()
	stack := []uint32{rootPage}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.VisitOnce(int64(n)) {
			continue
		}

		page, err := r.page(n)
		if err != nil {
			continue
		}
		hdr, err := parsePageHeader(page)
		if err != nil {
			continue
		}
		tags := pageTags(page, hdr)

		if hdr.isLeaf() {
			if len(tags) > 0 {
				out = append(out, tags[1:]...)
			}
			continue
		}

		// Branch page: each non-key tag is [2-byte keyLen][key][4-byte childPage].
		// Children are pushed last-first so the leftmost one pops first.
		var children []uint32
		for _, tag := range tags[minInt(1, len(tags)):] {
			if len(tag) < 2 {
				continue
			}
			keyLen := int(binary.LittleEndian.Uint16(tag[0:]))
			childOff := 2 + keyLen
			if childOff+4 > len(tag) {
				continue
			}
			child := binary.LittleEndian.Uint32(tag[childOff:])
			children = append(children, child)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
