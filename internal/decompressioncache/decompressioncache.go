// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package decompressioncache memoizes expensive decompression work,
// keyed by a caller-derived key. Journal DATA objects referenced by
// more than one ENTRY_ARRAY re-decompress the same bytes without it
// (the journal reader is its only caller); every block stays in the shared bigcache instance until
// it's evicted, so a second read of the same key is free.
package decompressioncache

import (
	"context"
	"fmt"

	"github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"
)

var cache *bigcache.BigCache

func init() {
	c, err := bigcache.New(context.Background(), bigcache.Config{
		HardMaxCacheSize: 1024, // megabytes
		Shards:           1024,
	})
	if err != nil {
		panic(err)
	}
	cache = c
}

// Memoize returns the decompressed bytes for key, calling decompress
// only on a cache miss.
func Memoize(key string, decompress func() ([]byte, error)) ([]byte, error) {
	if blob, err := cache.Get(key); err == nil {
		return blob, nil
	}
	blob, err := decompress()
	if err != nil {
		return nil, err
	}
	cache.Set(key, blob)
	return blob, nil
}

// ObjectKey derives a compact, collision-resistant Memoize key from a
// journal/ESE file path plus a byte offset within it, the same
// identity-hashing idiom used elsewhere in this codebase to fold a
// path and a numeric field into one fixed-width key rather than
// growing an unbounded string per distinct path.
func ObjectKey(path string, offset int64) string {
	var h xxhash.Digest
	h.WriteString(path)
	var off [8]byte
	for i := range off {
		off[i] = byte(offset >> (8 * i))
	}
	h.Write(off[:])
	return fmt.Sprintf("%016x", h.Sum64())
}
