// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package compress implements the decompression codecs the artifact
// parsers rely on: the three Microsoft-proprietary formats (LZXPRESS-
// Huffman, LZ77 plain, LZNT1) are hand-rolled; gzip, xz, zstd, and lz4
// delegate to well-known libraries, the same call-site shape the
// teacher repo used in fs.go's makeFSFromArchive (sniff a signature,
// wrap an io.Reader).
package compress

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/therootcompany/xz"
)

// Gzip decompresses a gzip-wrapped buffer (FSEvents pages, log
// shipping).
func Gzip(raw []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Xz decompresses an xz stream (Journal xz-compressed objects).
func Xz(raw []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(raw), xz.DefaultDictMax)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Zstd decompresses a zstd frame (Journal zstd-compressed objects).
func Zstd(raw []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// Lz4 decompresses an lz4 frame (Journal lz4-compressed objects).
func Lz4(raw []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(raw))
	return io.ReadAll(r)
}
