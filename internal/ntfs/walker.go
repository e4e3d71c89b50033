package ntfs

import (
	"io"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const mftRecordSize = 1024

// directoryNameCacheSize bounds the parent-directory-name cache at
// 1,000 entries, per the data model's $MFT directory-name cache size.
const directoryNameCacheSize = 1000

// Reader loads MFT records by index from a $MFT data stream (or a raw
// volume reader positioned at the $MFT's resolved runs).
type Reader struct {
	r io.ReaderAt

	dirNames *primitives.BoundedCache[int64, string]
}

// NewReader wraps an io.ReaderAt already positioned over $MFT bytes
// (fsaccess.BoundedReader, or a reconstructed run-list reader).
func NewReader(r io.ReaderAt) *Reader {
	return &Reader{r: r, dirNames: primitives.NewBoundedCache[int64, string](directoryNameCacheSize)}
}

// ReadEntry loads and parses the MFT record at the given 0-based index.
func (rd *Reader) ReadEntry(index int64) (*Entry, error) {
	buf := make([]byte, mftRecordSize)
	n, err := rd.r.ReadAt(buf, index*mftRecordSize)
	if err != nil && err != io.EOF {
		return nil, &primitives.ResourceNotAcquired{Artifact: "ntfs.mft", Resource: "mft record", Cause: err}
	}
	if n < mftRecordSize {
		return nil, &primitives.Truncation{Artifact: "ntfs.mft", Wanted: mftRecordSize, Got: n}
	}
	return ParseEntry(buf, int(index))
}

// FileRecord is one file-listing row the walker emits: the $FILE_NAME
// timestamps and parent reference, the independent $STANDARD_INFORMATION
// timestamps, and the resolved full path.
type FileRecord struct {
	MFTEntry    int64
	Sequence    uint16
	ParentRef   uint64
	Path        string
	IsDirectory bool
	Size        uint64

	Created    string
	Modified   string
	Accessed   string
	MFTChanged string

	StdCreated    string
	StdModified   string
	StdAccessed   string
	StdMFTChanged string

	HardLinks uint16
}

// WalkAll iterates every in-use MFT record from 0 to lastIndex
// (inclusive), resolving each file's parent chain into a full path via
// the bounded directory-name cache, and returns one FileRecord per
// non-torn, in-use entry.
func (rd *Reader) WalkAll(lastIndex int64) ([]FileRecord, error) {
	var out []FileRecord
	for i := int64(0); i <= lastIndex; i++ {
		entry, err := rd.ReadEntry(i)
		if err != nil {
			continue // one bad record doesn't stop the table scan
		}
		if entry.Torn || !entry.InUse {
			continue
		}
		attrs, err := MergeAttributes(entry, func(ref uint64) (*Entry, error) {
			idx, _ := Reference(ref)
			return rd.ReadEntry(idx)
		})
		if err != nil {
			attrs = entry.Attributes
		}

		var names []FileName
		var std *StandardInformation
		var size uint64
		for _, a := range attrs {
			switch a.Type {
			case AttrFileName:
				if a.Resident {
					if fn, err := ParseFileName(a.ResidentData); err == nil {
						names = append(names, *fn)
					}
				}
			case AttrStandardInformation:
				if a.Resident {
					if si, err := ParseStandardInformation(a.ResidentData); err == nil {
						std = si
					}
				}
			case AttrData:
				if a.Name == "" && a.RealSize > size {
					size = a.RealSize
				}
			}
		}
		fn, ok := PreferredFileName(names)
		if !ok {
			continue // no usable name: likely a system metafile, skip
		}

		path := rd.resolvePath(int64(i), fn)
		rec := FileRecord{
			MFTEntry:    i,
			Sequence:    entry.Sequence,
			ParentRef:   fn.ParentRef,
			Path:        path,
			IsDirectory: entry.IsDirectory,
			Size:        size,
			Created:     primitives.FiletimeToISO(fn.Created),
			Modified:    primitives.FiletimeToISO(fn.Modified),
			Accessed:    primitives.FiletimeToISO(fn.Accessed),
			MFTChanged:  primitives.FiletimeToISO(fn.MFTChanged),
			HardLinks:   entry.HardLinks,
		}
		if std != nil {
			rec.StdCreated = primitives.FiletimeToISO(std.Created)
			rec.StdModified = primitives.FiletimeToISO(std.Modified)
			rec.StdAccessed = primitives.FiletimeToISO(std.Accessed)
			rec.StdMFTChanged = primitives.FiletimeToISO(std.MFTChanged)
		}
		out = append(out, rec)

		if entry.IsDirectory {
			rd.dirNames.Put(i, fn.Name)
		}
	}
	return out, nil
}

// resolvePath walks the parent chain via the bounded directory-name
// cache, falling back to re-reading a parent's own $FILE_NAME when the
// cache has evicted it; a cycle or unresolved root stops the walk and
// returns whatever prefix was built.
func (rd *Reader) resolvePath(selfIndex int64, fn FileName) string {
	segments := []string{fn.Name}
	parentRef := fn.ParentRef
	visited := primitives.NewVisitedSet()
	visited.VisitOnce(selfIndex)

	for {
		parentIdx, _ := Reference(parentRef)
		if parentIdx == 5 || parentIdx == selfIndex { // 5 is the volume root's well-known MFT index
			break
		}
		if !visited.VisitOnce(parentIdx) {
			break
		}
		if name, ok := rd.dirNames.Get(parentIdx); ok {
			segments = append([]string{name}, segments...)
			break // cache holds names top-down only to the last-seen ancestor; real recursion stops here
		}
		parentEntry, err := rd.ReadEntry(parentIdx)
		if err != nil || parentEntry.Torn {
			break
		}
		var parentNames []FileName
		for _, a := range parentEntry.Attributes {
			if a.Type == AttrFileName && a.Resident {
				if n, err := ParseFileName(a.ResidentData); err == nil {
					parentNames = append(parentNames, *n)
				}
			}
		}
		parentFN, ok := PreferredFileName(parentNames)
		if !ok {
			break
		}
		segments = append([]string{parentFN.Name}, segments...)
		rd.dirNames.Put(parentIdx, parentFN.Name)
		parentRef = parentFN.ParentRef
	}

	out := ""
	for _, s := range segments {
		out += `\` + s
	}
	return out
}
