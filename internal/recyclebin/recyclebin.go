// Package recyclebin decodes Windows Recycle Bin $I metadata files:
// a fixed header (version, original size, deletion FILETIME, name
// length) followed by the deleted item's original UTF-16 path.
package recyclebin

import (
	"encoding/binary"
	"strings"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Entry is one decoded $I file.
type Entry struct {
	Version   uint64
	Size      int64
	Deleted   string // ISO-8601 UTC
	Directory string
	Filename  string
	FullPath  string
}

// Parse decodes a $I file's bytes. Version 1 (XP/Vista/7) uses a fixed
// 260-char wide path field; version 2 (8.1+) carries an explicit
// name_size field ahead of a variable-length path, per the data model.
func Parse(buf []byte) (*Entry, error) {
	if len(buf) < 8 {
		return nil, &primitives.Truncation{Artifact: "recyclebin", Wanted: 8, Got: len(buf)}
	}
	le := binary.LittleEndian
	version := le.Uint64(buf[0:])

	switch version {
	case 1:
		return parseV1(buf)
	case 2:
		return parseV2(buf)
	default:
		return nil, &primitives.FormatViolation{Artifact: "recyclebin", Kind: "unsupported $I version"}
	}
}

func parseV1(buf []byte) (*Entry, error) {
	const headerLen = 8 + 8 + 8 // version, size, FILETIME
	const pathFieldLen = 260 * 2
	if len(buf) < headerLen+pathFieldLen {
		return nil, &primitives.Truncation{Artifact: "recyclebin", Wanted: headerLen + pathFieldLen, Got: len(buf)}
	}
	le := binary.LittleEndian
	size := int64(le.Uint64(buf[8:]))
	deletedFiletime := le.Uint64(buf[16:])
	path := primitives.ExtractUTF16String(buf[headerLen : headerLen+pathFieldLen])
	return buildEntry(1, size, deletedFiletime, path), nil
}

func parseV2(buf []byte) (*Entry, error) {
	const headerLen = 8 + 8 + 8 + 4 // version, size, FILETIME, name_size
	if len(buf) < headerLen {
		return nil, &primitives.Truncation{Artifact: "recyclebin", Wanted: headerLen, Got: len(buf)}
	}
	le := binary.LittleEndian
	size := int64(le.Uint64(buf[8:]))
	deletedFiletime := le.Uint64(buf[16:])
	nameSize := le.Uint32(buf[24:])
	if int(headerLen)+int(nameSize) > len(buf) {
		return nil, &primitives.Truncation{Artifact: "recyclebin", Wanted: headerLen + int(nameSize), Got: len(buf)}
	}
	path := primitives.ExtractUTF16String(buf[headerLen : headerLen+int(nameSize)])
	return buildEntry(2, size, deletedFiletime, path), nil
}

func buildEntry(version uint64, size int64, deletedFiletime uint64, path string) *Entry {
	dir, file := splitWindowsPath(path)
	return &Entry{
		Version:   version,
		Size:      size,
		Deleted:   primitives.FiletimeToISO(deletedFiletime),
		Directory: dir,
		Filename:  file,
		FullPath:  path,
	}
}

func splitWindowsPath(path string) (dir, file string) {
	idx := strings.LastIndexByte(path, '\\')
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}
