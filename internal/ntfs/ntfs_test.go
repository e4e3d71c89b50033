package ntfs

import (
	"encoding/binary"
	"testing"
)

func TestParseDataRunsSparseAndDelta(t *testing.T) {
	// header 0x31: 1 length byte, 3 offset bytes; length=5, offset=0x001000
	// header 0x11: 1 length byte, 1 offset byte; length=3, offset=-2 (delta)
	// header 0x02: 0 length bytes... invalid, terminator 0x00 used instead
	buf := []byte{
		0x31, 0x05, 0x00, 0x10, 0x00,
		0x11, 0x03, 0xFE, // offset byte 0xFE = -2 signed
		0x00,
	}
	runs := parseDataRuns(buf)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].LengthClusters != 5 || runs[0].ClusterOffset != 0x1000 || runs[0].Sparse {
		t.Fatalf("run0 = %+v", runs[0])
	}
	if runs[1].LengthClusters != 3 || runs[1].ClusterOffset != -2 || runs[1].Sparse {
		t.Fatalf("run1 = %+v", runs[1])
	}

	resolved := ResolveRuns(runs)
	if resolved[0][0] != 0x1000 || resolved[1][0] != 0x1000-2 {
		t.Fatalf("resolved absolute clusters wrong: %+v", resolved)
	}
}

func TestParseDataRunsSparseRun(t *testing.T) {
	// header 0x01: length byte, no offset bytes -> sparse
	buf := []byte{0x01, 0x10, 0x00}
	runs := parseDataRuns(buf)
	if len(runs) != 1 || !runs[0].Sparse || runs[0].LengthClusters != 0x10 {
		t.Fatalf("runs = %+v", runs)
	}
}

func buildMFTEntry(t *testing.T, inUse, isDir bool, name string, namespace FileNamespace) []byte {
	t.Helper()
	buf := make([]byte, mftRecordSize)
	copy(buf[0:4], "FILE")
	le := binary.LittleEndian
	le.PutUint16(buf[4:], 0x30)  // fixup array offset
	le.PutUint16(buf[6:], 3)     // fixup count: signature + 2 sector values
	le.PutUint16(buf[16:], 1)    // sequence
	le.PutUint16(buf[18:], 1)    // hard link count
	le.PutUint16(buf[20:], 0x38) // first attribute offset
	var flags uint16
	if inUse {
		flags |= 0x1
	}
	if isDir {
		flags |= 0x2
	}
	le.PutUint16(buf[22:], flags)

	// fixup array: signature then one value per 512-byte sector (2 sectors in 1024 bytes)
	copy(buf[0x30:0x32], []byte{0xAB, 0xCD})
	copy(buf[0x32:0x34], []byte{0x11, 0x11})
	copy(buf[0x34:0x36], []byte{0x22, 0x22})
	copy(buf[510:512], []byte{0xAB, 0xCD})
	copy(buf[1022:1024], []byte{0xAB, 0xCD})

	// one resident $FILE_NAME attribute at 0x38
	fnBody := make([]byte, 66+len(name)*2)
	le.PutUint64(fnBody[0:], 0x0005000000000005) // parent ref: root (index 5)
	le.PutUint64(fnBody[8:], 0)                  // created
	le.PutUint64(fnBody[16:], 0)                 // modified
	le.PutUint64(fnBody[24:], 0)                 // mft changed
	le.PutUint64(fnBody[32:], 0)                 // accessed
	fnBody[64] = byte(len(name))
	fnBody[65] = byte(namespace)
	for i, r := range name {
		le.PutUint16(fnBody[66+i*2:], uint16(r))
	}

	attrLen := 24 + len(fnBody)
	if attrLen%8 != 0 {
		attrLen += 8 - attrLen%8
	}
	attrBuf := make([]byte, attrLen)
	le.PutUint32(attrBuf[0:], AttrFileName)
	le.PutUint32(attrBuf[4:], uint32(attrLen))
	attrBuf[8] = 0 // resident
	le.PutUint32(attrBuf[16:], uint32(len(fnBody)))
	le.PutUint16(attrBuf[20:], 24)
	copy(attrBuf[24:], fnBody)

	off := 0x38
	copy(buf[off:], attrBuf)
	off += attrLen
	le.PutUint32(buf[off:], 0xFFFFFFFF) // terminator

	return buf
}

func TestParseEntryRoundTrip(t *testing.T) {
	buf := buildMFTEntry(t, true, false, "hello.txt", NamespaceWin32)
	entry, err := ParseEntry(buf, 42)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if entry.Torn {
		t.Fatalf("entry unexpectedly marked torn")
	}
	if !entry.InUse || entry.IsDirectory {
		t.Fatalf("flags decoded wrong: %+v", entry)
	}
	if len(entry.Attributes) != 1 || entry.Attributes[0].Type != AttrFileName {
		t.Fatalf("attributes = %+v", entry.Attributes)
	}
	fn, err := ParseFileName(entry.Attributes[0].ResidentData)
	if err != nil {
		t.Fatalf("ParseFileName: %v", err)
	}
	if fn.Name != "hello.txt" || fn.Namespace != NamespaceWin32 {
		t.Fatalf("filename = %+v", fn)
	}
}

func TestParseEntryTornOnFixupMismatch(t *testing.T) {
	buf := buildMFTEntry(t, true, false, "x.txt", NamespaceWin32)
	buf[510] = 0x00 // corrupt the second sector's trailer so it no longer matches the fixup signature
	entry, err := ParseEntry(buf, 1)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if !entry.Torn {
		t.Fatalf("expected torn entry on fixup mismatch")
	}
}

func TestParseEntryBadSignature(t *testing.T) {
	buf := make([]byte, mftRecordSize)
	copy(buf[0:4], "XXXX")
	if _, err := ParseEntry(buf, 0); err == nil {
		t.Fatalf("expected error on bad signature")
	}
}

func TestReferenceSplitsIndexAndSequence(t *testing.T) {
	ref := uint64(7)<<48 | 12345
	idx, seq := Reference(ref)
	if idx != 12345 || seq != 7 {
		t.Fatalf("Reference(%x) = (%d, %d)", ref, idx, seq)
	}
}

func TestPreferredFileNamePrefersWin32(t *testing.T) {
	names := []FileName{
		{Name: "HELLO~1.TXT", Namespace: NamespaceDOS},
		{Name: "hello world.txt", Namespace: NamespaceWin32},
	}
	fn, ok := PreferredFileName(names)
	if !ok || fn.Name != "hello world.txt" {
		t.Fatalf("PreferredFileName = %+v, %v", fn, ok)
	}
}
