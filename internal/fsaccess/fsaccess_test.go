package fsaccess

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestIsFileAndIsDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.txt")
	if err := os.WriteFile(file, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !IsDirectory(dir) {
		t.Fatal("expected dir to be a directory")
	}
	if !IsFile(file) {
		t.Fatal("expected file to be a regular file")
	}
	if IsFile(dir) || IsDirectory(file) {
		t.Fatal("type confusion between file and directory")
	}
	if IsFile(filepath.Join(dir, "nonexistent")) {
		t.Fatal("nonexistent path reported as a file")
	}
}

func TestGlobExpandsBraceAndStar(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alice.log", "bob.log", "carol.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Glob(filepath.Join(dir, "{alice,bob}.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(got), got)
	}
}

func TestWalkRecursiveMissingRootIsEmpty(t *testing.T) {
	got, err := WalkRecursive(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestReadBoundedRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "big.bin")
	f, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(MaxBoundedRead + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := ReadBounded(file); err == nil {
		t.Fatal("expected oversize file to be rejected")
	}
}

func TestStatReportsSize(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	if m.Size != 5 {
		t.Fatalf("got size %d want 5", m.Size)
	}
}

func TestOpenBoundedRawClipsClusterSlack(t *testing.T) {
	// Simulates a two-cluster (1024-byte) run holding a 10-byte
	// attribute: reads past realSize must see io.EOF, not the
	// trailing slack bytes from the second cluster.
	cluster := bytes.Repeat([]byte{0xAA}, 1024)
	raw := bytes.NewReader(cluster)

	nf := OpenBoundedRaw(raw, io.NopCloser(nil), 10)
	defer nf.Close()

	buf := make([]byte, 20)
	n, err := nf.ReadAt(buf, 0)
	if err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
	if n != 10 {
		t.Fatalf("n = %d, want 10", n)
	}
}
