package inspect

import (
	"bytes"
	"context"
	"testing"

	localstore "resume-formatter/internal/shared/storage/object/local"
	"resume-formatter/resume/render"
	"resume-formatter/resume/sample"
)

func TestInspectRenderedResume(t *testing.T) {
	data, err := render.RenderPDF(sample.Parsed(), nil, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	store := localstore.New(t.TempDir())
	key, _, _, err := store.Save(context.Background(), "s1", "resume.pdf", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	report, err := Inspect(context.Background(), store, key)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if report.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", report.Pages)
	}
}

func TestInspectBytesRejectsGarbage(t *testing.T) {
	if _, err := InspectBytes(context.Background(), []byte("%PDF-1.4 not really")); err == nil {
		t.Fatalf("expected error for malformed pdf")
	}
}

func TestInspectHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := InspectBytes(ctx, nil); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCountTextRunesAndPreview(t *testing.T) {
	if n := countTextRunes("a b\n1 - ."); n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
	if got := preview("  hello \n world  "); got != "hello world" {
		t.Fatalf("unexpected preview %q", got)
	}
}
