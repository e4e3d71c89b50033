// Package ole decodes OLE2 Compound File Binary (CFB) containers (the
// container format behind Jumplists, legacy Office documents, and
// several Windows artifact blobs), plus the Shell Item ID lists that
// LNK records carry. LNK records and Property Stores are decoded by the
// lnk and propstore packages.
package ole

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const (
	cfbSignature = "\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1"
	endOfChain   = -2 // ENDOFCHAIN sector marker
	freeSector   = -1 // FREESECT
	fatSector    = -3 // FATSECT
	difSector    = -4 // DIFSECT
)

// File is a parsed CFB container: its sector allocation table (SAT,
// called the FAT in the CFB spec) and directory entries, held entirely
// in memory.
type File struct {
	data       []byte
	sectorSize int
	sat        []int32
	dirEntries []DirEntry
}

// DirEntry is one decoded directory-stream entry.
type DirEntry struct {
	Name        string
	Type        byte // 1=storage, 2=stream, 5=root storage
	StartSector int32
	StreamSize  uint64
	LeftSibling int32
	RightSibling int32
	Child       int32
}

// Open validates the CFB signature and builds the SAT and directory
// entry list.
func Open(data []byte) (*File, error) {
	if len(data) < 512 || string(data[0:8]) != cfbSignature {
		return nil, &primitives.FormatViolation{Artifact: "ole", Kind: "bad CFB signature"}
	}
	le := binary.LittleEndian
	sectorShift := le.Uint16(data[30:])
	sectorSize := 1 << sectorShift

	numFATSectors := le.Uint32(data[44:])
	dirStart := int32(le.Uint32(data[48:]))
	numMiniFATSectors := le.Uint32(data[64:])
	_ = numMiniFATSectors
	miniStreamCutoff := le.Uint32(data[56:])
	_ = miniStreamCutoff

	f := &File{data: data, sectorSize: sectorSize}

	// MSAT: 109 entries in the header, continued via DIFAT sectors.
	msat := make([]int32, 0, 109)
	for i := 0; i < 109; i++ {
		at := 76 + i*4
		v := int32(le.Uint32(data[at:]))
		if v == freeSector {
			continue
		}
		msat = append(msat, v)
	}
	difatStart := int32(le.Uint32(data[68:]))
	visited := primitives.NewVisitedSet()
	for difatStart >= 0 && visited.VisitOnce(int64(difatStart)) {
		sec, err := f.sectorAt(difatStart)
		if err != nil {
			break
		}
		entriesPerSector := sectorSize/4 - 1
		for i := 0; i < entriesPerSector; i++ {
			at := i * 4
			if at+4 > len(sec) {
				break
			}
			v := int32(le.Uint32(sec[at:]))
			if v != freeSector {
				msat = append(msat, v)
			}
		}
		nextAt := entriesPerSector * 4
		if nextAt+4 > len(sec) {
			break
		}
		difatStart = int32(le.Uint32(sec[nextAt:]))
	}

	sat := make([]int32, 0, int(numFATSectors)*(sectorSize/4))
	satVisited := primitives.NewVisitedSet()
	for _, fatSecID := range msat {
		if fatSecID < 0 || !satVisited.VisitOnce(int64(fatSecID)) {
			continue
		}
		sec, err := f.sectorAt(fatSecID)
		if err != nil {
			continue
		}
		for i := 0; i+4 <= len(sec); i += 4 {
			sat = append(sat, int32(le.Uint32(sec[i:])))
		}
	}
	f.sat = sat

	entries, err := f.readDirectoryStream(dirStart)
	if err != nil {
		return nil, err
	}
	f.dirEntries = entries

	return f, nil
}

func (f *File) sectorAt(id int32) ([]byte, error) {
	if id < 0 {
		return nil, &primitives.FormatViolation{Artifact: "ole", Kind: "negative sector id"}
	}
	start := 512 + int(id)*f.sectorSize
	if start+f.sectorSize > len(f.data) {
		return nil, &primitives.Truncation{Artifact: "ole", Offset: int64(start), Wanted: f.sectorSize, Got: len(f.data) - start}
	}
	return f.data[start : start+f.sectorSize], nil
}

// chainOf follows the SAT starting at startSector and returns the full
// list of sector IDs in the chain, stopping (without error) at
// ENDOFCHAIN or the moment a sector repeats, per the cyclic-graph
// guard every on-disk chain walker in this repo shares.
func (f *File) chainOf(startSector int32) []int32 {
	var out []int32
	visited := primitives.NewVisitedSet()
	cur := startSector
	for cur >= 0 && visited.VisitOnce(int64(cur)) {
		out = append(out, cur)
		if int(cur) >= len(f.sat) {
			break
		}
		cur = f.sat[cur]
	}
	return out
}

// ReadStream reassembles a stream's bytes by following its sector
// chain in the SAT and concatenating sector contents, truncated to
// size.
func (f *File) ReadStream(startSector int32, size uint64) ([]byte, error) {
	chain := f.chainOf(startSector)
	out := make([]byte, 0, size)
	for _, sec := range chain {
		if uint64(len(out)) >= size {
			break
		}
		body, err := f.sectorAt(sec)
		if err != nil {
			continue
		}
		remaining := size - uint64(len(out))
		if remaining < uint64(len(body)) {
			body = body[:remaining]
		}
		out = append(out, body...)
	}
	return out, nil
}

// SATChain exposes the resolved sector chain for a directory entry's
// data, the shape the OLE SAT reassembly scenario exercises directly.
func (f *File) SATChain(entry DirEntry) []int32 {
	return f.chainOf(entry.StartSector)
}

func (f *File) readDirectoryStream(startSector int32) ([]DirEntry, error) {
	chain := f.chainOf(startSector)
	var raw []byte
	for _, sec := range chain {
		body, err := f.sectorAt(sec)
		if err != nil {
			continue
		}
		raw = append(raw, body...)
	}

	const direntrySize = 128
	le := binary.LittleEndian
	var out []DirEntry
	for off := 0; off+direntrySize <= len(raw); off += direntrySize {
		rec := raw[off : off+direntrySize]
		nameLen := int(le.Uint16(rec[64:]))
		if nameLen == 0 {
			continue // unused slot
		}
		if nameLen > 64 {
			nameLen = 64
		}
		name := primitives.ExtractUTF16String(rec[0:nameLen])
		out = append(out, DirEntry{
			Name:         name,
			Type:         rec[66],
			LeftSibling:  int32(le.Uint32(rec[68:])),
			RightSibling: int32(le.Uint32(rec[72:])),
			Child:        int32(le.Uint32(rec[76:])),
			StartSector:  int32(le.Uint32(rec[116:])),
			StreamSize:   le.Uint64(rec[120:]),
		})
	}
	return out, nil
}

// Entries returns every directory-stream entry (storages and streams),
// in on-disk order.
func (f *File) Entries() []DirEntry { return f.dirEntries }

// Stream looks up a top-level stream by name (case-insensitive) and
// returns its reassembled bytes.
func (f *File) Stream(name string) ([]byte, bool) {
	for _, e := range f.dirEntries {
		if e.Type == 2 && equalFold(e.Name, name) {
			data, err := f.ReadStream(e.StartSector, e.StreamSize)
			if err != nil {
				return nil, false
			}
			return data, true
		}
	}
	return nil, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
