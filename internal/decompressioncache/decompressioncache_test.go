package decompressioncache

import (
	"errors"
	"testing"
)

func TestMemoizeCallsOnceThenCaches(t *testing.T) {
	calls := 0
	decompress := func() ([]byte, error) {
		calls++
		return []byte("decompressed"), nil
	}

	key := ObjectKey("/var/log/journal/machine-id/system.journal", 4096)

	first, err := Memoize(key, decompress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first) != "decompressed" {
		t.Fatalf("unexpected blob: %q", first)
	}

	second, err := Memoize(key, decompress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second) != "decompressed" {
		t.Fatalf("unexpected blob: %q", second)
	}

	if calls != 1 {
		t.Fatalf("expected decompress to run once, ran %d times", calls)
	}
}

func TestMemoizeDoesNotCacheOnError(t *testing.T) {
	wantErr := errors.New("corrupt object")
	calls := 0
	decompress := func() ([]byte, error) {
		calls++
		return nil, wantErr
	}

	key := ObjectKey("/var/lib/BITS/qmgr.db", 0)

	if _, err := Memoize(key, decompress); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if _, err := Memoize(key, decompress); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if calls != 2 {
		t.Fatalf("expected decompress to run on every call after a failed attempt, ran %d times", calls)
	}
}

func TestObjectKeyDistinguishesPathAndOffset(t *testing.T) {
	base := ObjectKey("/var/log/journal/a/system.journal", 0)

	if got := ObjectKey("/var/log/journal/a/system.journal", 8); got == base {
		t.Fatal("expected different offsets to produce different keys")
	}
	if got := ObjectKey("/var/log/journal/b/system.journal", 0); got == base {
		t.Fatal("expected different paths to produce different keys")
	}
	if got := ObjectKey("/var/log/journal/a/system.journal", 0); got != base {
		t.Fatal("expected the same (path, offset) pair to produce the same key")
	}
}
