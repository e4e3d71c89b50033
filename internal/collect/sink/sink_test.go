package sink

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalWritePlain(t *testing.T) {
	dir := t.TempDir()
	l := &Local{Directory: dir, Name: "run1"}
	if err := l.Write(context.Background(), "prefetch", "jsonl", []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "run1", "prefetch.jsonl"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestLocalWriteCompressed(t *testing.T) {
	dir := t.TempDir()
	l := &Local{Directory: dir, Name: "run1", Compress: true}
	if err := l.Write(context.Background(), "mft", "json", []byte("payload")); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "run1", "mft.json.gz"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gr.Close()
	got, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("unexpected decompressed contents: %q", got)
	}
}

func TestAppendBlobPathWithQuery(t *testing.T) {
	got := appendBlobPath("https://acct.blob.core.windows.net/container?sv=2020", "run1/mft.json")
	want := "https://acct.blob.core.windows.net/container/run1/mft.json?sv=2020"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAppendBlobPathNoQuery(t *testing.T) {
	got := appendBlobPath("https://acct.blob.core.windows.net/container", "run1/mft.json")
	want := "https://acct.blob.core.windows.net/container/run1/mft.json"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
