// Package uploads accepts the single source PDF for a session.
package uploads

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Rejection messages shown to the user.
const (
	MsgTooMany     = "Only one file can be uploaded."
	MsgTooLarge    = "File is too large. Max 10 MB."
	MsgNotPDF      = "Only PDF files are accepted."
	MsgUnsupported = "Unsupported file."
)

const pdfMimeType = "application/pdf"

var pdfMagic = []byte("%PDF")

// Rejection is a user-facing upload rejection.
type Rejection struct {
	Code    string
	Message string
	Status  int
}

func (r *Rejection) Error() string { return r.Message }

var (
	ErrTooMany     = &Rejection{Code: "too_many_files", Message: MsgTooMany, Status: http.StatusBadRequest}
	ErrTooLarge    = &Rejection{Code: "file_too_large", Message: MsgTooLarge, Status: http.StatusRequestEntityTooLarge}
	ErrNotPDF      = &Rejection{Code: "invalid_type", Message: MsgNotPDF, Status: http.StatusUnsupportedMediaType}
	ErrUnsupported = &Rejection{Code: "unsupported_file", Message: MsgUnsupported, Status: http.StatusBadRequest}
)

// AsRejection unwraps err into a Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Validate checks a single candidate file. head holds the first bytes of the
// body.
func Validate(name, contentType string, size, maxBytes int64, head []byte) error {
	if size <= 0 || strings.TrimSpace(name) == "" {
		return ErrUnsupported
	}
	if maxBytes > 0 && size > maxBytes {
		return ErrTooLarge
	}
	if !declaresPDF(name, contentType) {
		return ErrNotPDF
	}
	if !bytes.HasPrefix(head, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

func declaresPDF(name, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == pdfMimeType {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
