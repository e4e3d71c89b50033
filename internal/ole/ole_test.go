package ole

import (
	"encoding/binary"
	"testing"
)

func buildDirectoryShellItem(t *testing.T) []byte {
	t.Helper()
	le := binary.LittleEndian

	const fatDate = 0x4f7b
	const fatTime = 0x0ec3

	shortName := "REGRIP~1.8-M"
	longName := "RegRipper2.8-master"

	nameStart := 14
	nameBytes := append([]byte(shortName), 0)
	extStart := nameStart + len(nameBytes)
	if extStart%2 != 0 {
		extStart++ // pad to even offset
	}

	longNameUTF16 := make([]byte, 0, len(longName)*2+2)
	for _, r := range longName {
		b := make([]byte, 2)
		le.PutUint16(b, uint16(r))
		longNameUTF16 = append(longNameUTF16, b...)
	}
	longNameUTF16 = append(longNameUTF16, 0, 0)

	extBlockSize := 26 + len(longNameUTF16)
	total := extStart + extBlockSize

	buf := make([]byte, total)
	le.PutUint16(buf[0:], uint16(total)) // shell item size prefix
	buf[2] = 0x31                        // directory bit set
	le.PutUint16(buf[8:], fatDate)
	le.PutUint16(buf[10:], fatTime)
	copy(buf[nameStart:], nameBytes)

	ext := buf[extStart:]
	le.PutUint16(ext[0:], uint16(extBlockSize))
	le.PutUint16(ext[2:], 1) // version
	le.PutUint32(ext[4:], 0xbeef0004)
	le.PutUint16(ext[8:], fatDate) // created
	le.PutUint16(ext[10:], fatTime)
	le.PutUint16(ext[12:], fatDate) // accessed
	le.PutUint16(ext[14:], fatTime)
	mftRef := uint64(15)<<48 | 2529
	le.PutUint64(ext[16:], mftRef)
	copy(ext[26:], longNameUTF16)

	return buf
}

func TestParseDirectoryShellItem(t *testing.T) {
	buf := buildDirectoryShellItem(t)
	items := ParseShellItemList(append(buf, 0, 0)) // 2-byte zero terminator

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Type != ShellItemDirectory {
		t.Fatalf("Type = %v, want Directory", item.Type)
	}
	if item.Value != "RegRipper2.8-master" {
		t.Fatalf("Value = %q", item.Value)
	}
	if item.MFTEntry != 2529 || item.MFTSequence != 15 {
		t.Fatalf("MFTEntry/MFTSequence = %d/%d, want 2529/15", item.MFTEntry, item.MFTSequence)
	}
	const want = "2019-11-27T01:54:06.000Z"
	if item.Created != want || item.Modified != want || item.Accessed != want {
		t.Fatalf("timestamps = created:%q modified:%q accessed:%q, want %q", item.Created, item.Modified, item.Accessed, want)
	}
}

func buildMiniCFB(t *testing.T, streamData []byte) []byte {
	t.Helper()
	le := binary.LittleEndian
	const sectorSize = 512

	// layout: header sector (0), FAT sector (sector id 0), directory
	// sector (sector id 1), stream data sector (sector id 2).
	numDataSectors := (len(streamData) + sectorSize - 1) / sectorSize
	if numDataSectors == 0 {
		numDataSectors = 1
	}
	totalSectors := 2 + numDataSectors
	buf := make([]byte, 512+totalSectors*sectorSize)
	copy(buf[0:8], cfbSignature)
	le.PutUint16(buf[30:], 9) // sector shift: 2^9 = 512
	le.PutUint32(buf[44:], 1) // num FAT sectors
	le.PutUint32(buf[48:], 1) // directory start sector = 1
	le.PutUint32(buf[68:], 0xFFFFFFFE) // no DIFAT sectors (ENDOFCHAIN)

	// MSAT[0] = sector 0 (the FAT sector itself)
	le.PutUint32(buf[76:], 0)
	for i := 1; i < 109; i++ {
		le.PutUint32(buf[76+i*4:], 0xFFFFFFFF) // FREESECT
	}

	fatSector := buf[512 : 512+sectorSize]
	le.PutUint32(fatSector[0:], 0xFFFFFFFD) // sector 0 (this FAT sector) = FATSECT
	le.PutUint32(fatSector[4:], 0xFFFFFFFE) // sector 1 (dir) = ENDOFCHAIN
	for i := 0; i < numDataSectors; i++ {
		secID := 2 + i
		var next uint32
		if i == numDataSectors-1 {
			next = 0xFFFFFFFE
		} else {
			next = uint32(secID + 1)
		}
		le.PutUint32(fatSector[secID*4:], next)
	}

	dirSector := buf[512+sectorSize : 512+2*sectorSize]
	name := "Stream"
	nameUTF16 := make([]byte, 0, len(name)*2+2)
	for _, r := range name {
		b := make([]byte, 2)
		le.PutUint16(b, uint16(r))
		nameUTF16 = append(nameUTF16, b...)
	}
	nameUTF16 = append(nameUTF16, 0, 0)
	copy(dirSector[0:], nameUTF16)
	le.PutUint16(dirSector[64:], uint16(len(nameUTF16)))
	dirSector[66] = 2 // stream
	le.PutUint32(dirSector[68:], 0xFFFFFFFF)
	le.PutUint32(dirSector[72:], 0xFFFFFFFF)
	le.PutUint32(dirSector[76:], 0xFFFFFFFF)
	le.PutUint32(dirSector[116:], 2) // start sector
	le.PutUint64(dirSector[120:], uint64(len(streamData)))

	dataStart := 512 + 2*sectorSize
	copy(buf[dataStart:], streamData)

	return buf
}

func TestCFBReadStream(t *testing.T) {
	want := []byte("hello from inside a compound file")
	raw := buildMiniCFB(t, want)

	f, err := Open(raw)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, ok := f.Stream("Stream")
	if !ok {
		t.Fatalf("Stream not found")
	}
	if string(data) != string(want) {
		t.Fatalf("ReadStream = %q, want %q", data, want)
	}
}

func TestCFBRejectsBadSignature(t *testing.T) {
	if _, err := Open(make([]byte, 512)); err == nil {
		t.Fatalf("expected error on bad signature")
	}
}
