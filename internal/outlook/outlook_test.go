package outlook

import (
	"encoding/binary"
	"testing"
)

func utf16z(s string) []byte {
	out := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(r))
		out = append(out, b...)
	}
	return append(out, 0, 0)
}

func putU16(buf []byte, off int, v uint16) { binary.LittleEndian.PutUint16(buf[off:], v) }
func putU32(buf []byte, off int, v uint32) { binary.LittleEndian.PutUint32(buf[off:], v) }
func putU64(buf []byte, off int, v uint64) { binary.LittleEndian.PutUint64(buf[off:], v) }

// buildHeapBlock builds a Heap-on-Node holding a Property Context with
// three Unicode properties: Subject, SenderName, Body.
func buildHeapBlock() []byte {
	subject := utf16z("Test Subject")
	sender := utf16z("Alice")
	body := utf16z("Hello world")

	index := make([]byte, 24)
	putU16(index, 0, PidTagSubject)
	putU16(index, 2, PtUnicode)
	putU32(index, 4, 2) // hid 2 -> item[1] -> subject
	putU16(index, 8, PidTagSenderName)
	putU16(index, 10, PtUnicode)
	putU32(index, 12, 3) // hid 3 -> sender
	putU16(index, 16, PidTagBody)
	putU16(index, 18, PtUnicode)
	putU32(index, 20, 4) // hid 4 -> body

	items := [][]byte{index, subject, sender, body}

	headerEnd := 2 + len(items)*4
	var data []byte
	entries := make([]byte, len(items)*4)
	cursor := 0
	for i, it := range items {
		putU16(entries, i*4, uint16(cursor))
		putU16(entries, i*4+2, uint16(len(it)))
		data = append(data, it...)
		cursor += len(it)
	}

	block := make([]byte, headerEnd+len(data))
	block[0] = heapSig
	block[1] = byte(len(items))
	copy(block[2:], entries)
	copy(block[headerEnd:], data)
	return block
}

func buildStore(t *testing.T) []byte {
	t.Helper()
	block := buildHeapBlock()

	const nbtPageOffset = 512
	const bbtPageOffset = 1024
	const blockOffset = 1536

	file := make([]byte, blockOffset+len(block))
	copy(file[0:4], magic[:])
	putU32(file, 4, 1)
	putU64(file, 8, nbtPageOffset)
	putU64(file, 16, bbtPageOffset)
	putU64(file, 24, uint64(len(file)))

	nbtPage := make([]byte, btPageSize)
	putU16(nbtPage, 0, 1) // numEntries
	nbtPage[2] = 0        // leaf
	const messageNID = 0x1005
	putU64(nbtPage, 8, messageNID)
	putU64(nbtPage, 16, 500) // dataBID
	putU64(nbtPage, 24, 0)   // parentID
	copy(file[nbtPageOffset:], nbtPage)

	bbtPage := make([]byte, btPageSize)
	putU16(bbtPage, 0, 1)
	bbtPage[2] = 0
	putU64(bbtPage, 8, 500) // BID
	putU64(bbtPage, 16, uint64(blockOffset))
	putU32(bbtPage, 24, uint32(len(block)))
	putU32(bbtPage, 28, 1)
	copy(file[bbtPageOffset:], bbtPage)

	copy(file[blockOffset:], block)
	return file
}

func TestOpenAndDecodeMessage(t *testing.T) {
	file := buildStore(t)
	store, err := Open(file)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	msgs, err := store.Messages()
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Subject != "Test Subject" {
		t.Fatalf("Subject = %q", m.Subject)
	}
	if m.From != "Alice" {
		t.Fatalf("From = %q", m.From)
	}
	if m.Body != "Hello world" {
		t.Fatalf("Body = %q", m.Body)
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, headerSize)
	if _, err := ParseHeader(buf); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}
