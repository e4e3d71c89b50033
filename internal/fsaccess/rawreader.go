package fsaccess

import (
	"io"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// RawReader is a sector-aligned reader over a raw block device. It is
// the one long-lived handle the core holds on a live Windows volume;
// ownership belongs to whichever parser opened it, and it is closed
// when that parser returns (§5, Shared resources).
type RawReader interface {
	io.ReaderAt
	io.Closer
	SectorSize() int
}

// bufferedRawReader wraps an OS-specific sector source with an
// aligned-read buffer, the same "adapt one locked handle to
// io.ReaderAt" shape as the teacher's internal/reader2readerat, here
// specialized to fixed 512-byte sector alignment instead of a
// resumable compressed stream.
type bufferedRawReader struct {
	src        rawSectorSource
	sectorSize int
}

type rawSectorSource interface {
	io.Closer
	readSector(sectorIndex int64, out []byte) (int, error)
}

func (b *bufferedRawReader) SectorSize() int { return b.sectorSize }

func (b *bufferedRawReader) Close() error { return b.src.Close() }

func (b *bufferedRawReader) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	ss := int64(b.sectorSize)
	total := 0
	for total < len(p) {
		abs := off + int64(total)
		sectorIdx := abs / ss
		sectorOff := int(abs % ss)

		var sector [4096]byte
		buf := sector[:b.sectorSize]
		n, err := b.src.readSector(sectorIdx, buf)
		if err != nil {
			return total, &primitives.ResourceNotAcquired{Resource: "raw sector", Cause: err}
		}
		if n < sectorOff {
			return total, io.ErrUnexpectedEOF
		}
		copied := copy(p[total:], buf[sectorOff:n])
		total += copied
		if copied == 0 {
			return total, io.EOF
		}
	}
	return total, nil
}
