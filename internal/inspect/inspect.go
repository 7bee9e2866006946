// Package inspect reads uploaded PDFs best-effort to report page count and
// whether the document carries extractable text.
package inspect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"resume-formatter/internal/shared/storage/object"
)

const (
	// minTextRunes below which a PDF is treated as a scan.
	minTextRunes = 20
	maxReadBytes = 32 << 20
	previewRunes = 280
)

// Report summarises an uploaded document.
type Report struct {
	Pages     int    `json:"pages"`
	TextRunes int    `json:"textRunes"`
	IsScanned bool   `json:"isScanned"`
	Preview   string `json:"preview,omitempty"`
}

// Inspect opens the stored object and inspects it.
func Inspect(ctx context.Context, store object.ObjectStore, fileKey string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return Report{}, fmt.Errorf("inspect key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxReadBytes))
	if err != nil {
		return Report{}, fmt.Errorf("inspect key=%s: read: %w", fileKey, err)
	}

	report, err := InspectBytes(ctx, raw)
	if err != nil {
		return Report{}, fmt.Errorf("inspect key=%s: %w", fileKey, err)
	}
	return report, nil
}

// InspectBytes inspects an in-memory PDF.
func InspectBytes(ctx context.Context, data []byte) (report Report, err error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	// The reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Report{}, err
	}
	report.Pages = reader.NumPage()

	text := ""
	if plain, perr := reader.GetPlainText(); perr == nil {
		var buf bytes.Buffer
		if _, cerr := io.Copy(&buf, plain); cerr == nil {
			text = buf.String()
		}
	}
	report.TextRunes = countTextRunes(text)
	report.IsScanned = report.TextRunes < minTextRunes
	report.Preview = preview(text)
	return report, nil
}

func countTextRunes(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func preview(s string) string {
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	runes := []rune(joined)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes])
	}
	return joined
}
