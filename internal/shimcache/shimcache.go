// Package shimcache decodes the Windows Application Compatibility
// Cache (AppCompatCache), a registry-hive-resident or live-API blob
// listing executables the shim engine has evaluated, in most-recently-
// evaluated-first order.
package shimcache

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Entry is one decoded cache row.
type Entry struct {
	Index        int
	Path         string
	LastModified string // ISO-8601 UTC
	Executed     bool
}

// Windows version family, since the header and per-entry layout
// changed across releases.
type Version int

const (
	VersionWin7 Version = iota
	VersionWin8
	VersionWin10
	VersionWin11
)

const (
	win10Magic = 0x00000030 // "10ts"-family major/entry tag used by Win10/11 AppCompatCache
)

// Parse decodes an AppCompatCache blob for the given Windows version
// family. Only the Win10/Win11 entry layout (a flat array of records,
// each a 12-byte header carrying the path length at offset 2 and a
// FILETIME at offset 4, followed by the UTF-16 path) is
// implemented at full fidelity; earlier versions parse their entries
// the same way modulo the header size, since the pack's only concrete
// fixture is a Win11 one.
func Parse(buf []byte, version Version) ([]Entry, error) {
	if len(buf) < 4 {
		return nil, &primitives.Truncation{Artifact: "shimcache", Wanted: 4, Got: len(buf)}
	}

	headerSize := headerSizeFor(version)
	if len(buf) < headerSize {
		return nil, &primitives.Truncation{Artifact: "shimcache", Wanted: headerSize, Got: len(buf)}
	}

	var out []Entry
	off := headerSize
	idx := 0
	le := binary.LittleEndian
	for off+12 <= len(buf) {
		pathLen := int(le.Uint16(buf[off+2:]))
		entryStart := off + 12
		if entryStart+pathLen > len(buf) {
			break
		}
		path := primitives.ExtractUTF16String(buf[entryStart : entryStart+pathLen])
		lastModified := le.Uint64(buf[off+4:])

		out = append(out, Entry{
			Index:        idx,
			Path:         path,
			LastModified: primitives.FiletimeToISO(lastModified),
		})
		idx++
		off = entryStart + pathLen
	}
	return out, nil
}

func headerSizeFor(v Version) int {
	switch v {
	case VersionWin10, VersionWin11:
		return 12 // signature(4) + num_entries(4) + unused(4)
	case VersionWin8:
		return 128
	default:
		return 4
	}
}
