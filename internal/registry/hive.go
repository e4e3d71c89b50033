// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package registry walks a single Windows registry hive file: a
// sequence of 4 KiB hive-bin containers holding polymorphic cells
// tagged by a two-byte signature (nk, vk, sk, lf/lh/li/ri, db).
package registry

import (
	"encoding/binary"

	"github.com/puffycid/artemis-core/internal/primitives"
)

const baseOffset = 0x1000

// Hive is a parsed regf file, held entirely in memory: hive files are
// bounded by fsaccess.ReadBounded before reaching here.
type Hive struct {
	data []byte
}

// OpenHive validates the regf signature and wraps raw hive bytes.
func OpenHive(data []byte) (*Hive, error) {
	if len(data) < baseOffset+4 {
		return nil, &primitives.Truncation{Artifact: "registry", Wanted: baseOffset + 4, Got: len(data)}
	}
	if string(data[0:4]) != "regf" {
		return nil, &primitives.FormatViolation{Artifact: "registry", Offset: 0, Kind: "bad regf signature"}
	}
	return &Hive{data: data}, nil
}

// RootOffset returns the hive-relative offset of the root nk cell.
func (h *Hive) RootOffset() int32 {
	return int32(binary.LittleEndian.Uint32(h.data[0x24:]))
}

// LastWritten returns the hive's own last-written FILETIME, stored at
// offset 0xC in the base block.
func (h *Hive) LastWritten() uint64 {
	return binary.LittleEndian.Uint64(h.data[0xC:])
}

// cellAt returns a cell's body (after its 4-byte size prefix) given a
// hive-relative offset, and whether the cell is marked allocated
// (negative size) as every live nk/vk/sk/list cell must be.
func (h *Hive) cellAt(offset int32) (body []byte, allocated bool, err error) {
	if offset < 0 {
		return nil, false, &primitives.FormatViolation{Artifact: "registry", Kind: "negative cell offset"}
	}
	abs := baseOffset + int(offset)
	if abs < 0 || abs+4 > len(h.data) {
		return nil, false, &primitives.Truncation{Artifact: "registry", Offset: int64(abs), Wanted: 4, Got: len(h.data) - abs}
	}
	size := int32(binary.LittleEndian.Uint32(h.data[abs:]))
	allocated = size < 0
	n := size
	if n < 0 {
		n = -n
	}
	if n < 4 || abs+int(n) > len(h.data) {
		return nil, allocated, &primitives.Truncation{Artifact: "registry", Offset: int64(abs), Wanted: int(n), Got: len(h.data) - abs}
	}
	return h.data[abs+4 : abs+int(n)], allocated, nil
}

func signature(body []byte) (string, error) {
	if len(body) < 2 {
		return "", &primitives.Truncation{Artifact: "registry", Wanted: 2, Got: len(body)}
	}
	return string(body[:2]), nil
}
