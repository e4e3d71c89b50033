// Package unifiedlog decodes macOS Unified Log tracev3 files at
// structural depth: the chunk header stream (chunk tag, sub-tag,
// length) and the fixed preamble of a firehose tracepoint; other
// payloads, simpledump included, come back as raw chunk bytes. Resolving
// a firehose entry's format string through the companion dsc/uuidtext
// catalog files is out of scope here (see DESIGN.md); callers get the
// raw format-string offset and process/library identifiers, not a
// rendered message.
package unifiedlog

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// Chunk tags from the tracev3 chunk header.
const (
	TagHeader       uint32 = 0x00001000
	TagCatalog      uint32 = 0x0000600b
	TagChunkSet      uint32 = 0x0000600d
	TagFirehose      uint32 = 0x00006001
	TagOversize      uint32 = 0x00006002
	TagStatedump     uint32 = 0x00006003
	TagSimpledump    uint32 = 0x00006004
)

// Chunk is one decoded top-level tracev3 chunk.
type Chunk struct {
	Tag       uint32
	SubTag    uint16
	Length    uint64
	ContinuousTime uint64
	Data      []byte
}

// FirehoseEntry is one decoded tracepoint inside a Firehose chunk,
// structural fields only (no catalog-resolved format string).
type FirehoseEntry struct {
	ActivityType  uint8
	Flags         uint16
	FormatOffset  uint32
	ThreadID      uint64
	WallTime      string
}

// ParseChunks walks the flat chunk stream: each chunk is a 16-byte
// header (tag uint32, subtag uint16, pad uint16, length uint64)
// followed by `length` bytes of payload.
func ParseChunks(buf []byte) ([]Chunk, error) {
	var chunks []Chunk
	for len(buf) >= 16 {
		tag := binary.LittleEndian.Uint32(buf[0:4])
		subtag := binary.LittleEndian.Uint16(buf[4:6])
		length := binary.LittleEndian.Uint64(buf[8:16])
		if length > uint64(len(buf)-16) {
			return chunks, &primitives.Truncation{Artifact: "unifiedlog.chunk", Wanted: int(length), Got: len(buf) - 16}
		}
		payload := buf[16 : 16+length]
		chunks = append(chunks, Chunk{Tag: tag, SubTag: subtag, Length: length, Data: payload})

		// chunks are padded to an 8-byte boundary
		consumed := 16 + length
		if pad := consumed % 8; pad != 0 {
			consumed += 8 - pad
		}
		if consumed > uint64(len(buf)) {
			break
		}
		buf = buf[consumed:]
	}
	return chunks, nil
}

// ParseFirehosePreamble decodes the fixed preamble shared by every
// tracepoint inside a Firehose chunk's payload: activity type, flags,
// format-string catalog offset, owning thread id, and a continuous-
// time delta converted via the chunk's own base time.
func ParseFirehosePreamble(buf []byte, baseContinuousTime uint64) (*FirehoseEntry, error) {
	if len(buf) < 24 {
		return nil, &primitives.Truncation{Artifact: "unifiedlog.firehose", Wanted: 24, Got: len(buf)}
	}
	e := &FirehoseEntry{
		ActivityType: buf[0],
		Flags:        binary.LittleEndian.Uint16(buf[2:4]),
		FormatOffset: binary.LittleEndian.Uint32(buf[4:8]),
		ThreadID:     binary.LittleEndian.Uint64(buf[8:16]),
	}
	deltaTime := binary.LittleEndian.Uint64(buf[16:24])
	e.WallTime = machAbsoluteToISO(baseContinuousTime + deltaTime)
	return e, nil
}

// machAbsoluteToISO treats a mach continuous-time tick count as
// nanoseconds since the Unix epoch. Boot-UUID wall-clock correction is
// the caller's responsibility; this is the mechanical tick conversion
// only.
func machAbsoluteToISO(ticks uint64) string {
	secs := int64(ticks / 1_000_000_000)
	return primitives.UnixToISO(secs, int32((ticks%1_000_000_000)/1000))
}
