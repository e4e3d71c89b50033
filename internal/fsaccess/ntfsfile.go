package fsaccess

import (
	"io"
	"os"

	"github.com/puffycid/artemis-core/internal/sectionreader"
)

// NTFSFile resolves a path to a readable $DATA stream regardless of
// host file locks. On a live Windows host it is backed by the raw
// volume reader and an NTFS path-to-cluster resolution the core's
// NTFS layer performs; on a forensic image (or any non-Windows
// platform) it degrades to direct file I/O, per §4.1.
type NTFSFile struct {
	f io.ReaderAt
	c io.Closer
}

// OpenDirect opens path as an ordinary file, the fallback path used
// for forensic images and for any non-Windows platform.
func OpenDirect(path string) (*NTFSFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &NTFSFile{f: f, c: f}, nil
}

// OpenFromRaw wraps an already-resolved reader (e.g. a run-list
// reconstruction over a RawReader) without re-opening anything.
func OpenFromRaw(r io.ReaderAt, closer io.Closer) *NTFSFile {
	return &NTFSFile{f: r, c: closer}
}

// OpenBoundedRaw wraps a run-list reconstruction the way OpenFromRaw
// does, but clips reads to realSize: a data run is cluster-granular,
// so the last run commonly extends past the attribute's real byte
// length into next-cluster slack, and callers that read exactly
// realSize bytes would otherwise silently get slack bytes appended
// past EOF instead of io.EOF.
func OpenBoundedRaw(r io.ReaderAt, closer io.Closer, realSize int64) *NTFSFile {
	return &NTFSFile{f: sectionreader.Section(r, 0, realSize), c: closer}
}

func (n *NTFSFile) ReadAt(p []byte, off int64) (int, error) { return n.f.ReadAt(p, off) }

func (n *NTFSFile) Close() error {
	if n.c == nil {
		return nil
	}
	return n.c.Close()
}
