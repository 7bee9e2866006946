// Package emphasis splits body text into plain and emphasized runs around
// keyword matches.
package emphasis

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Run is a contiguous slice of the input text.
type Run struct {
	Text       string `json:"text"`
	Emphasized bool   `json:"emphasized"`
}

// Normalize trims keywords and drops blanks. Order is preserved.
func Normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsKeyword reports whether s equals one of keywords ignoring case.
func IsKeyword(s string, keywords []string) bool {
	for _, k := range Normalize(keywords) {
		if strings.EqualFold(s, k) {
			return true
		}
	}
	return false
}

// Split scans text for the leftmost case-insensitive keyword match, repeatedly,
// and returns the resulting runs. When several keywords match at the same
// offset the longest one wins, then the earliest in the list. Concatenating
// the runs always yields text. Empty text yields nil.
func Split(text string, keywords []string) []Run {
	if text == "" {
		return nil
	}
	keys := Normalize(keywords)
	if len(keys) == 0 {
		return []Run{{Text: text}}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return utf8.RuneCountInString(keys[i]) > utf8.RuneCountInString(keys[j])
	})

	var runs []Run
	start := 0
	for i := 0; i < len(text); {
		end, ok := matchAny(text, i, keys)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		if i > start {
			runs = append(runs, Run{Text: text[start:i]})
		}
		runs = append(runs, Run{Text: text[i:end], Emphasized: true})
		i = end
		start = end
	}
	if start < len(text) {
		runs = append(runs, Run{Text: text[start:]})
	}
	return runs
}

// Join concatenates run texts.
func Join(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func matchAny(text string, at int, keys []string) (int, bool) {
	for _, k := range keys {
		if end, ok := matchAt(text, at, k); ok {
			return end, true
		}
	}
	return 0, false
}

// matchAt compares rune by rune so the returned offset always refers to text,
// even when folded forms differ in byte length.
func matchAt(text string, at int, key string) (int, bool) {
	pos := at
	for _, kr := range key {
		if pos >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[pos:])
		if !equalFoldRune(tr, kr) {
			return 0, false
		}
		pos += size
	}
	return pos, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	return strings.EqualFold(string(a), string(b))
}
