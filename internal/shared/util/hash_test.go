package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHashSessionKey(t *testing.T) {
	id := "2f4c9b0e-session"
	got := HashSessionKey(id)
	if got != HashSessionKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "resume.pdf", want: "resume.pdf"},
		{name: "separators", in: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{name: "whitespace", in: "  my   resume.pdf ", want: "my resume.pdf"},
		{name: "traversal", in: "../etc/passwd", wantErr: true},
		{name: "empty", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameKeepsExtensionWhenTruncating(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 200) + ".pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if utf8.RuneCountInString(got) != maxFileNameRunes {
		t.Fatalf("expected %d runes, got %d", maxFileNameRunes, utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("expected .pdf suffix, got %q", got)
	}
}
