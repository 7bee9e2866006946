package util

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const maxFileNameRunes = 120

// ErrInvalidFileName is returned for empty names or names with traversal patterns.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators, collapses whitespace and
// rejects traversal patterns. Overlong names keep their extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Join(strings.Fields(name), " ")
	s = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) <= maxFileNameRunes {
		return s, nil
	}
	ext := ""
	if i := strings.LastIndex(s, "."); i > 0 && len(s)-i <= 10 {
		ext = s[i:]
		s = s[:i]
	}
	runes := []rune(s)
	return string(runes[:maxFileNameRunes-utf8.RuneCountInString(ext)]) + ext, nil
}
