package unifiedlog

import (
	"encoding/binary"
	"testing"
)

func buildChunk(tag uint32, subtag uint16, payload []byte) []byte {
	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], tag)
	binary.LittleEndian.PutUint16(header[4:6], subtag)
	binary.LittleEndian.PutUint64(header[8:16], uint64(len(payload)))
	buf := append(header, payload...)
	for len(buf)%8 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func TestParseChunksSingleHeaderChunk(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	buf := buildChunk(TagHeader, 0, payload)

	chunks, err := ParseChunks(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Tag != TagHeader || chunks[0].Length != 4 {
		t.Fatalf("unexpected chunk: %#v", chunks[0])
	}
}

func TestParseChunksTwoChunksInSequence(t *testing.T) {
	buf := append(buildChunk(TagHeader, 0, []byte{1}), buildChunk(TagFirehose, 0, []byte{2, 2})...)
	chunks, err := ParseChunks(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Tag != TagFirehose {
		t.Fatalf("expected second chunk to be firehose, got %#v", chunks[1])
	}
}

func TestParseChunksRejectsTruncatedPayload(t *testing.T) {
	header := make([]byte, 16)
	binary.LittleEndian.PutUint64(header[8:16], 1000)
	if _, err := ParseChunks(header); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestParseFirehosePreambleRejectsShortBuffer(t *testing.T) {
	if _, err := ParseFirehosePreamble([]byte{1, 2, 3}, 0); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestParseFirehosePreambleDecodesFields(t *testing.T) {
	buf := make([]byte, 24)
	buf[0] = 0x04 // activity type
	binary.LittleEndian.PutUint16(buf[2:4], 0x10)
	binary.LittleEndian.PutUint32(buf[4:8], 0xabcd)
	binary.LittleEndian.PutUint64(buf[8:16], 42)
	binary.LittleEndian.PutUint64(buf[16:24], 0)

	entry, err := ParseFirehosePreamble(buf, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if entry.ActivityType != 0x04 || entry.ThreadID != 42 || entry.FormatOffset != 0xabcd {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}
