package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndReadBack(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	key, err := store.Write(context.Background(), "runs/run-1/result.png", []byte("payload"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "runs/run-1/result.png" {
		t.Fatalf("key mismatch: %s", key)
	}
	data, err := os.ReadFile(filepath.Join(store.basePath, "runs", "run-1", "result.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.txt", []byte("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
}

func TestWriteRequiresKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "  ", []byte("x")); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
