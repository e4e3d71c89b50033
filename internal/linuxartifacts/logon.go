package linuxartifacts

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// LogonRecordType mirrors glibc's ut_type field.
type LogonRecordType int32

const (
	Empty LogonRecordType = iota
	RunLevel
	BootTime
	NewTime
	OldTime
	InitProcess
	LoginProcess
	UserProcess
	DeadProcess
	Accounting
)

// recordSize is sizeof(struct utmp) on glibc/x86-64: the layout shared
// by utmp, wtmp, and btmp.
const recordSize = 384

// LogonRecord is one decoded utmp/wtmp/btmp entry.
type LogonRecord struct {
	Type    LogonRecordType
	PID     int32
	Line    string
	ID      string
	User    string
	Host    string
	ExitInt int16
	Session int32
	Time    string
	AddrV4  uint32
}

// ParseLogonRecords decodes a flat array of fixed 384-byte utmp
// records; wtmp and btmp share the identical struct layout and only
// differ by which ut_type values are written in practice.
func ParseLogonRecords(buf []byte) ([]LogonRecord, error) {
	if len(buf)%recordSize != 0 {
		return nil, &primitives.Truncation{Artifact: "linux.logon", Wanted: len(buf) - len(buf)%recordSize + recordSize, Got: len(buf)}
	}
	le := binary.LittleEndian
	out := make([]LogonRecord, 0, len(buf)/recordSize)
	for off := 0; off < len(buf); off += recordSize {
		rec := buf[off : off+recordSize]

		exitStatus := rec[332:336]

		r := LogonRecord{
			Type:    LogonRecordType(le.Uint32(rec[0:])),
			PID:     int32(le.Uint32(rec[4:])),
			Line:    primitives.ExtractUTF8String(rec[8:40]),
			ID:      primitives.ExtractUTF8String(rec[40:44]),
			User:    primitives.ExtractUTF8String(rec[44:76]),
			Host:    primitives.ExtractUTF8String(rec[76:332]),
			ExitInt: int16(le.Uint16(exitStatus[2:4])),
			Session: int32(le.Uint32(rec[336:])),
			AddrV4:  le.Uint32(rec[348:]),
		}
		secs := int32(le.Uint32(rec[340:]))
		micros := int32(le.Uint32(rec[344:]))
		r.Time = primitives.UnixToISO(int64(secs), micros)

		out = append(out, r)
	}
	return out, nil
}
