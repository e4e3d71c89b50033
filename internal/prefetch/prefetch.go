// Package prefetch decodes Windows Prefetch (.pf) files: an optional
// MAM\x04 LZXPRESS-Huffman wrapper around an SCCA-signed payload
// holding a file-metrics array, a volume-information array, and a flat
// filename string table.
package prefetch

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/compress"
	"github.com/puffycid/artemis-core/internal/primitives"
)

// File is a decoded Prefetch file.
type File struct {
	Version        uint32
	ExecutableName string
	PrefetchHash   uint32
	RunCount       uint32
	LastRun        string // most recent of the run timestamps, ISO-8601 UTC
	RunTimes       []string
	Filenames      []string
	Volumes        []VolumeInfo
}

// VolumeInfo is one decoded volume-information-array entry.
type VolumeInfo struct {
	DevicePath   string
	CreateTime   string
	SerialNumber uint32
}

// SCCA version constants this package recognizes.
const (
	VersionWinXP = 17
	VersionWin7  = 23
	VersionWin8  = 26
	VersionWin10 = 30
	VersionWin11 = 31
)

const commonHeaderSize = 84 // signature, version, header size, exe name, hash, unused

// Parse decompresses (if MAM\x04-wrapped) and decodes a .pf file.
func Parse(raw []byte) (*File, error) {
	payload, err := unwrap(raw)
	if err != nil {
		return nil, err
	}
	return parseSCCA(payload)
}

// unwrap strips the MAM\x04 compression header used by Win10+
// Prefetch files, decompressing with LZXPRESS-Huffman; an
// already-uncompressed (SCCA-signed) buffer passes through unchanged.
func unwrap(raw []byte) ([]byte, error) {
	if len(raw) < 8 {
		return nil, &primitives.Truncation{Artifact: "prefetch", Wanted: 8, Got: len(raw)}
	}
	if string(raw[4:8]) == "SCCA" {
		return raw, nil
	}
	if raw[0] == 'M' && raw[1] == 'A' && raw[2] == 'M' && raw[3] == 0x04 {
		outputSize := binary.LittleEndian.Uint32(raw[4:8])
		decompressed, err := compress.LzxpressHuffman(raw[8:], int(outputSize))
		if err != nil {
			return nil, &primitives.FormatViolation{Artifact: "prefetch", Kind: "MAM decompression failed: " + err.Error()}
		}
		return decompressed, nil
	}
	return nil, &primitives.FormatViolation{Artifact: "prefetch", Kind: "neither SCCA nor MAM\\x04 signature"}
}

// fileInformationLayout captures the per-version field offsets within
// the FILE_INFORMATION block that immediately follows the common
// 84-byte header. Offsets are relative to the start of that block.
type fileInformationLayout struct {
	size           int
	runTimesOffset int
	numRunTimes    int
	runCountOffset int
	filenameStrOff int // -> (offset uint32, size uint32) into the whole file
	volInfoOff     int // -> (offset uint32, count uint32) into the whole file
}

func layoutFor(version uint32) *fileInformationLayout {
	switch version {
	case VersionWin8, VersionWin10, VersionWin11:
		return &fileInformationLayout{
			size: 104, runTimesOffset: 44, numRunTimes: 8,
			runCountOffset: 124 - commonHeaderSize,
			filenameStrOff: 100 - commonHeaderSize,
			volInfoOff:     92 - commonHeaderSize,
		}
	case VersionWin7, VersionWinXP:
		return &fileInformationLayout{
			size: 68, runTimesOffset: 44, numRunTimes: 1,
			runCountOffset: 60 - commonHeaderSize,
			filenameStrOff: 100 - commonHeaderSize,
			volInfoOff:     92 - commonHeaderSize,
		}
	default:
		return nil
	}
}

func parseSCCA(buf []byte) (*File, error) {
	if len(buf) < commonHeaderSize {
		return nil, &primitives.Truncation{Artifact: "prefetch.scca", Wanted: commonHeaderSize, Got: len(buf)}
	}
	le := binary.LittleEndian
	if string(buf[4:8]) != "SCCA" {
		return nil, &primitives.FormatViolation{Artifact: "prefetch.scca", Kind: "bad SCCA signature"}
	}

	f := &File{
		Version:        le.Uint32(buf[0:]),
		ExecutableName: primitives.ExtractUTF16String(buf[16:76]),
		PrefetchHash:   le.Uint32(buf[76:]),
	}

	layout := layoutFor(f.Version)
	if layout == nil || commonHeaderSize+layout.size > len(buf) {
		return f, nil // unknown/truncated FILE_INFORMATION block: header fields are still useful
	}
	info := buf[commonHeaderSize : commonHeaderSize+layout.size]

	f.RunCount = le.Uint32(info[layout.runCountOffset:])
	f.RunTimes = decodeRunTimes(info, layout)
	if len(f.RunTimes) > 0 {
		f.LastRun = f.RunTimes[0]
	}

	if strOff, strLen, ok := readOffsetSizePair(info, layout.filenameStrOff); ok {
		base := commonHeaderSize + int(strOff)
		if base >= 0 && base+int(strLen) <= len(buf) {
			f.Filenames = splitFilenameTable(buf[base : base+int(strLen)])
		}
	}

	if volOff, volCount, ok := readOffsetSizePair(info, layout.volInfoOff); ok {
		f.Volumes = decodeVolumes(buf, commonHeaderSize+int(volOff), int(volCount))
	}

	return f, nil
}

func readOffsetSizePair(info []byte, at int) (offset, count uint32, ok bool) {
	if at < 0 || at+8 > len(info) {
		return 0, 0, false
	}
	le := binary.LittleEndian
	return le.Uint32(info[at:]), le.Uint32(info[at+4:]), true
}

func decodeRunTimes(info []byte, l *fileInformationLayout) []string {
	var out []string
	le := binary.LittleEndian
	for i := 0; i < l.numRunTimes; i++ {
		at := l.runTimesOffset + i*8
		if at+8 > len(info) {
			break
		}
		ft := le.Uint64(info[at:])
		if ft == 0 {
			continue
		}
		out = append(out, primitives.FiletimeToISO(ft))
	}
	return out
}

// splitFilenameTable splits a flat double-NUL-terminated UTF-16
// filename table into its individual strings.
func splitFilenameTable(buf []byte) []string {
	var out []string
	var cur []byte
	le := binary.LittleEndian
	for i := 0; i+1 < len(buf); i += 2 {
		u := le.Uint16(buf[i:])
		if u == 0 {
			if len(cur) > 0 {
				out = append(out, primitives.ExtractUTF16String(cur))
				cur = nil
			}
			continue
		}
		cur = append(cur, buf[i], buf[i+1])
	}
	if len(cur) > 0 {
		out = append(out, primitives.ExtractUTF16String(cur))
	}
	return out
}

func decodeVolumes(buf []byte, offset, count int) []VolumeInfo {
	var out []VolumeInfo
	le := binary.LittleEndian
	const entrySize = 40
	for i := 0; i < count; i++ {
		at := offset + i*entrySize
		if at < 0 || at+entrySize > len(buf) {
			break
		}
		devicePathOffset := le.Uint32(buf[at:])
		devicePathLen := le.Uint32(buf[at+4:])
		createTime := le.Uint64(buf[at+8:])
		serial := le.Uint32(buf[at+16:])

		base := offset + int(devicePathOffset)
		var path string
		if base >= 0 && base+int(devicePathLen)*2 <= len(buf) {
			path = primitives.ExtractUTF16String(buf[base : base+int(devicePathLen)*2])
		}
		out = append(out, VolumeInfo{
			DevicePath:   path,
			CreateTime:   primitives.FiletimeToISO(createTime),
			SerialNumber: serial,
		})
	}
	return out
}
