// Package lnk decodes the Windows Shortcut (LNK) binary format: a
// fixed header naming which optional sections are present, an
// optional shell-item ID list, optional volume/network LinkInfo,
// Unicode string fields, and zero-or-more tagged extra data blocks.
package lnk

import (
	"github.com/puffycid/artemis-core/internal/ole"
	"github.com/puffycid/artemis-core/internal/primitives"
)

const headerSignature = "\x4c\x00\x00\x00"

// header flag bits selecting which optional sections follow.
const (
	hasLinkTargetIDList = 1 << 0
	hasLinkInfo         = 1 << 1
	hasName             = 1 << 2
	hasRelativePath     = 1 << 3
	hasWorkingDir       = 1 << 4
	hasArguments        = 1 << 5
	hasIconLocation     = 1 << 6
	isUnicode           = 1 << 7
)

// ExtraBlockTag identifies one of the LNK extra data block kinds.
type ExtraBlockTag uint32

const (
	TagConsoleData      ExtraBlockTag = 0xA0000002
	TagEnvironment       ExtraBlockTag = 0xA0000001
	TagTracker           ExtraBlockTag = 0xA0000003
	TagSpecialFolder     ExtraBlockTag = 0xA0000005
	TagDarwinData        ExtraBlockTag = 0xA0000006
	TagIconEnvironment   ExtraBlockTag = 0xA0000007
	TagShim              ExtraBlockTag = 0xA0000008
	TagPropertyStore     ExtraBlockTag = 0xA0000009
	TagKnownFolder       ExtraBlockTag = 0xA000000B
)

// ExtraBlock is one tagged extra data block, kept as raw bytes; only
// the tag is interpreted here, consistent with the table-dump depth
// the rest of the core decodes at.
type ExtraBlock struct {
	Tag  ExtraBlockTag
	Data []byte
}

// Shortcut is a decoded LNK record.
type Shortcut struct {
	TargetCreated   string
	TargetAccessed  string
	TargetModified  string
	FileSize        uint32
	ShellItems      []ole.ShellItem
	Name            string
	RelativePath    string
	WorkingDir      string
	Arguments       string
	IconLocation    string
	ExtraBlocks     []ExtraBlock
}

// Parse decodes one LNK record from its start (the "L\x00\x00\x00"
// header GUID).
func Parse(buf []byte) (*Shortcut, error) {
	if len(buf) < 0x4c {
		return nil, &primitives.Truncation{Artifact: "lnk", Wanted: 0x4c, Got: len(buf)}
	}
	if string(buf[0:4]) != headerSignature {
		return nil, &primitives.FormatViolation{Artifact: "lnk", Kind: "bad header signature"}
	}

	s := &Shortcut{}
	flags := leUint32(buf[0x14:])

	s.TargetCreated = primitives.FiletimeToISO(leUint64(buf[0x1c:]))
	s.TargetAccessed = primitives.FiletimeToISO(leUint64(buf[0x24:]))
	s.TargetModified = primitives.FiletimeToISO(leUint64(buf[0x2c:]))
	s.FileSize = leUint32(buf[0x34:])

	rest := buf[0x4c:]

	if flags&hasLinkTargetIDList != 0 {
		if len(rest) < 2 {
			return s, nil
		}
		listSize := int(leUint16(rest))
		rest = rest[2:]
		if listSize > len(rest) {
			return s, &primitives.Truncation{Artifact: "lnk.idlist", Wanted: listSize, Got: len(rest)}
		}
		s.ShellItems = ole.ParseShellItemList(rest[:listSize])
		rest = rest[listSize:]
	}

	if flags&hasLinkInfo != 0 {
		if len(rest) < 4 {
			return s, nil
		}
		infoSize := int(leUint32(rest))
		if infoSize > len(rest) || infoSize < 4 {
			return s, &primitives.Truncation{Artifact: "lnk.linkinfo", Wanted: infoSize, Got: len(rest)}
		}
		rest = rest[infoSize:]
	}

	unicode := flags&isUnicode != 0
	var err error
	if flags&hasName != 0 {
		s.Name, rest, err = readStringData(rest, unicode)
		if err != nil {
			return s, err
		}
	}
	if flags&hasRelativePath != 0 {
		s.RelativePath, rest, err = readStringData(rest, unicode)
		if err != nil {
			return s, err
		}
	}
	if flags&hasWorkingDir != 0 {
		s.WorkingDir, rest, err = readStringData(rest, unicode)
		if err != nil {
			return s, err
		}
	}
	if flags&hasArguments != 0 {
		s.Arguments, rest, err = readStringData(rest, unicode)
		if err != nil {
			return s, err
		}
	}
	if flags&hasIconLocation != 0 {
		s.IconLocation, rest, err = readStringData(rest, unicode)
		if err != nil {
			return s, err
		}
	}

	s.ExtraBlocks = parseExtraBlocks(rest)
	return s, nil
}

// readStringData reads a StringData field: a 16-bit character count
// followed by that many UTF-16 (or ASCII, if !unicode) code units.
func readStringData(buf []byte, unicode bool) (string, []byte, error) {
	if len(buf) < 2 {
		return "", buf, &primitives.Truncation{Artifact: "lnk.string", Wanted: 2, Got: len(buf)}
	}
	count := int(leUint16(buf))
	buf = buf[2:]
	width := 1
	if unicode {
		width = 2
	}
	n := count * width
	if n > len(buf) {
		return "", buf, &primitives.Truncation{Artifact: "lnk.string", Wanted: n, Got: len(buf)}
	}
	field := buf[:n:n] // capped so the NUL appended below cannot overwrite buf[n:]
	buf = buf[n:]
	if unicode {
		return primitives.ExtractUTF16String(append(field, 0, 0)), buf, nil
	}
	return primitives.ExtractUTF8String(append(field, 0)), buf, nil
}

func parseExtraBlocks(buf []byte) []ExtraBlock {
	var blocks []ExtraBlock
	for len(buf) >= 8 {
		size := leUint32(buf)
		if size < 8 || int(size) > len(buf) {
			break
		}
		if size == 0 { // terminal block
			break
		}
		tag := ExtraBlockTag(leUint32(buf[4:]))
		blocks = append(blocks, ExtraBlock{Tag: tag, Data: buf[8:size]})
		buf = buf[size:]
	}
	return blocks
}

func leUint16(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func leUint32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return uint64(leUint32(b)) | uint64(leUint32(b[4:]))<<32
}
