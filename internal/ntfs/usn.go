package ntfs

import (
	"encoding/binary"
	"io"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// UsnRecord is one decoded USN_RECORD_V2 entry from $UsnJrnl:$J.
type UsnRecord struct {
	USN          int64
	FileRef      uint64
	ParentRef    uint64
	Timestamp    string
	Reason       uint32
	FileName     string
}

// Common USN_RECORD_V2 reason flags a reader commonly reports on.
const (
	ReasonDataOverwrite = 0x00000001
	ReasonFileCreate    = 0x00000100
	ReasonFileDelete    = 0x00000200
	ReasonRename        = 0x00002000 // close half of RENAME_NEW_NAME
)

// ReadUsnJournal reads consecutive USN_RECORD_V2 records from r
// (typically a sparse $UsnJrnl:$J stream) until EOF or a zero-length
// record, the conventional terminator for a sparse journal's unwritten
// tail.
func ReadUsnJournal(r io.Reader) ([]UsnRecord, error) {
	var out []UsnRecord
	hdr := make([]byte, 4)
	for {
		if _, err := io.ReadFull(r, hdr); err != nil {
			break
		}
		recLen := binary.LittleEndian.Uint32(hdr)
		if recLen == 0 || recLen > 64*1024 {
			break // zero (sparse tail) or implausibly large: stop, don't misparse garbage
		}
		body := make([]byte, recLen-4)
		if _, err := io.ReadFull(r, body); err != nil {
			break
		}
		rec, err := parseUsnRecord(append(hdr, body...))
		if err != nil {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func parseUsnRecord(buf []byte) (*UsnRecord, error) {
	if len(buf) < 60 {
		return nil, &primitives.Truncation{Artifact: "ntfs.usn", Wanted: 60, Got: len(buf)}
	}
	le := binary.LittleEndian
	majorVersion := le.Uint16(buf[4:])
	if majorVersion != 2 {
		return nil, &primitives.FormatViolation{Artifact: "ntfs.usn", Kind: "unsupported USN record version"}
	}
	fileRef := le.Uint64(buf[8:])
	parentRef := le.Uint64(buf[16:])
	usn := int64(le.Uint64(buf[24:]))
	timestamp := le.Uint64(buf[32:])
	reason := le.Uint32(buf[40:])
	nameLen := le.Uint16(buf[56:])
	nameOffset := le.Uint16(buf[58:])
	var name string
	if int(nameOffset)+int(nameLen) <= len(buf) {
		name = primitives.ExtractUTF16String(buf[nameOffset : int(nameOffset)+int(nameLen)])
	}
	return &UsnRecord{
		USN:       usn,
		FileRef:   fileRef,
		ParentRef: parentRef,
		Timestamp: primitives.FiletimeToISO(timestamp),
		Reason:    reason,
		FileName:  name,
	}, nil
}
