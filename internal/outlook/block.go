package outlook

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// xblockMarker flags a resolved block as an indirection block: a list
// of child BIDs whose resolved bytes concatenate to the real logical
// block, the same shape internal/ntfs's data-run reassembly and
// internal/ole's SAT chain-following use for "one logical stream,
// several physical pieces".
const xblockMarker = 0xFA

// ResolveBlock looks up bid in the block B-tree and returns its bytes,
// transparently reassembling an XBlock indirection block (a marker
// byte, a child count, then that many 8-byte child BIDs) by resolving
// and concatenating every child in turn. A cycle guard stops a
// corrupt indirection chain from looping forever.
func ResolveBlock(data []byte, bbt []BBTEntry, bid uint64) ([]byte, error) {
	return resolveBlock(data, bbt, bid, primitives.NewVisitedSet())
}

func resolveBlock(data []byte, bbt []BBTEntry, bid uint64, seen *primitives.VisitedSet) ([]byte, error) {
	if !seen.VisitOnce(int64(bid)) {
		return nil, &primitives.FormatViolation{Artifact: "outlook.block", Kind: "cyclic block chain"}
	}
	entry, ok := findBBTEntry(bbt, bid)
	if !ok {
		return nil, &primitives.InputNotPresent{Artifact: "outlook.block", Path: "bid"}
	}
	start := int(entry.Offset)
	end := start + int(entry.Size)
	if start < 0 || end > len(data) {
		return nil, &primitives.Truncation{Artifact: "outlook.block", Offset: int64(entry.Offset), Wanted: int(entry.Size), Got: len(data) - start}
	}
	raw := data[start:end]
	if len(raw) == 0 || raw[0] != xblockMarker {
		return raw, nil
	}

	le := binary.LittleEndian
	if len(raw) < 2 {
		return raw, nil
	}
	count := int(raw[1])
	var out []byte
	off := 2
	for i := 0; i < count && off+8 <= len(raw); i++ {
		child := le.Uint64(raw[off:])
		off += 8
		childData, err := resolveBlock(data, bbt, child, seen)
		if err != nil {
			continue
		}
		out = append(out, childData...)
	}
	return out, nil
}

func findBBTEntry(bbt []BBTEntry, bid uint64) (BBTEntry, bool) {
	for _, e := range bbt {
		if e.BID == bid {
			return e, true
		}
	}
	return BBTEntry{}, false
}
