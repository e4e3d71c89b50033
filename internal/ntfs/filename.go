package ntfs

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// FileNamespace mirrors the NTFS $FILE_NAME namespace byte: a single
// file can carry a POSIX name, a Win32 name, a short (8.3) DOS name, or
// a name valid in both Win32 and DOS namespaces.
type FileNamespace byte

const (
	NamespacePosix        FileNamespace = 0
	NamespaceWin32        FileNamespace = 1
	NamespaceDOS          FileNamespace = 2
	NamespaceWin32AndDOS  FileNamespace = 3
)

// FileName is a decoded $FILE_NAME attribute.
type FileName struct {
	ParentRef  uint64
	Created    uint64
	Modified   uint64
	MFTChanged uint64
	Accessed   uint64
	Name       string
	Namespace  FileNamespace
}

// ParseFileName decodes a resident $FILE_NAME attribute body.
func ParseFileName(buf []byte) (*FileName, error) {
	if len(buf) < 66 {
		return nil, &primitives.Truncation{Artifact: "ntfs.filename", Wanted: 66, Got: len(buf)}
	}
	le := binary.LittleEndian
	nameLen := int(buf[64])
	namespace := FileNamespace(buf[65])
	if 66+nameLen*2 > len(buf) {
		return nil, &primitives.Truncation{Artifact: "ntfs.filename", Wanted: 66 + nameLen*2, Got: len(buf)}
	}
	return &FileName{
		ParentRef:  le.Uint64(buf[0:]),
		Created:    le.Uint64(buf[8:]),
		Modified:   le.Uint64(buf[16:]),
		MFTChanged: le.Uint64(buf[24:]),
		Accessed:   le.Uint64(buf[32:]),
		Name:       primitives.ExtractUTF16String(buf[66 : 66+nameLen*2]),
		Namespace:  namespace,
	}, nil
}

// PreferredFileName picks the Win32 (or Win32AndDOS) name when more
// than one $FILE_NAME attribute is present, falling back to whatever
// name is available, per the "$FILE_NAME Win32/POSIX preference" rule.
func PreferredFileName(names []FileName) (FileName, bool) {
	var fallback FileName
	haveFallback := false
	for _, n := range names {
		if n.Namespace == NamespaceWin32 || n.Namespace == NamespaceWin32AndDOS {
			return n, true
		}
		if !haveFallback {
			fallback, haveFallback = n, true
		}
	}
	return fallback, haveFallback
}
