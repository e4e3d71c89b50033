package linuxartifacts

import (
	"debug/elf"
	"encoding/binary"
	"io"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// ELFInfo is the reduced subset of an ELF binary's metadata an
// acquisition engine records: class, machine, build-id, and the
// imported dynamic library list. There's no forensic value in
// re-deriving section/symbol parsing debug/elf already does well, so
// this is a thin wrapper rather than a reimplementation.
type ELFInfo struct {
	Class      string
	Machine    string
	Type       string
	Interp     string
	BuildID    string
	Libraries  []string
	Entry      uint64
}

// ParseELF reads ELF metadata via the standard library's debug/elf
// reader, the canonical decoder for this format, and reduces it to the
// fields an acquisition record cares about.
func ParseELF(r io.ReaderAt) (*ELFInfo, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, &primitives.FormatViolation{Artifact: "linux.elf", Kind: err.Error()}
	}
	defer f.Close()

	info := &ELFInfo{
		Class:   f.Class.String(),
		Machine: f.Machine.String(),
		Type:    f.Type.String(),
		Entry:   f.Entry,
	}

	if libs, err := f.ImportedLibraries(); err == nil {
		info.Libraries = libs
	}

	if interp := f.Section(".interp"); interp != nil {
		if data, err := interp.Data(); err == nil {
			info.Interp = primitives.ExtractUTF8String(data)
		}
	}

	if note := f.Section(".note.gnu.build-id"); note != nil {
		if data, err := note.Data(); err == nil {
			info.BuildID = parseBuildIDNote(data)
		}
	}

	return info, nil
}

// parseBuildIDNote decodes an ELF note section: namesz, descsz, type
// (4 bytes each), name (padded to 4), then the build-id bytes as hex.
func parseBuildIDNote(buf []byte) string {
	if len(buf) < 12 {
		return ""
	}
	nameSize := binary.LittleEndian.Uint32(buf[0:])
	descSize := binary.LittleEndian.Uint32(buf[4:])
	nameStart := 12
	namePadded := (int(nameSize) + 3) &^ 3
	descStart := nameStart + namePadded
	descEnd := descStart + int(descSize)
	if descEnd > len(buf) || descStart < 0 {
		return ""
	}
	desc := buf[descStart:descEnd]
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 0, len(desc)*2)
	for _, b := range desc {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return string(out)
}
