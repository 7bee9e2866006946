package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"resume-formatter/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mime, err := store.Save(ctx, "session-1", "resume.pdf", bytes.NewReader([]byte("%PDF-1.4 body")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("%PDF-1.4 body")) {
		t.Fatalf("unexpected size %d", size)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected sniffed application/pdf, got %s", mime)
	}
	if !strings.HasSuffix(key, "_resume.pdf") {
		t.Fatalf("unexpected key %s", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("unexpected body %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	for _, key := range []string{"../x", "/abs/path", "."} {
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if err := store.Delete(ctx, key); err == nil {
			t.Fatalf("expected delete error for key %q", key)
		}
	}
}

func TestSaveWithKeyRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.SaveWithKey(ctx, "results/abc.pdf", "application/pdf", strings.NewReader("rendered"))
	if err != nil {
		t.Fatalf("save with key: %v", err)
	}
	if n != int64(len("rendered")) {
		t.Fatalf("unexpected written %d", n)
	}
	rc, err := store.Open(ctx, "results/abc.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "rendered" {
		t.Fatalf("unexpected body %q", data)
	}
}
