// Package session holds the per-browser-session resume store: its state
// machine, blob handle lifecycle, change notifications and persistence.
package session

import (
	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
)

// Status is the generation lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusUploading  Status = "uploading"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Result is a generated document.
type Result struct {
	PDFURL string         `json:"pdfUrl"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// File is the uploaded source document. It lives only in memory.
type File struct {
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	Size      int64  `json:"size"`
	Key       string `json:"-"`
	Pages     int    `json:"pages,omitempty"`
	IsScanned bool   `json:"isScanned,omitempty"`
}

// State is a point-in-time copy of a session store.
type State struct {
	File        *File               `json:"file"`
	FileURL     *string             `json:"fileUrl"`
	Prompt      string              `json:"prompt"`
	Status      Status              `json:"status"`
	Result      *Result             `json:"result"`
	Error       *string             `json:"error"`
	Parsed      *model.ParsedResume `json:"parsed"`
	Refinements *refine.Refinements `json:"refinements"`

	Revision uint64 `json:"revision"`
	Hydrated bool   `json:"hydrated"`
}

func initialState() State {
	return State{Status: StatusIdle}
}

// HasFile reports whether a source file handle is present.
func (s State) HasFile() bool {
	return s.FileURL != nil && *s.FileURL != ""
}

// HasResult reports whether a generated result handle is present.
func (s State) HasResult() bool {
	return s.Result != nil && s.Result.PDFURL != ""
}

// ErrorMessage returns the error text or "".
func (s State) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

func (s State) clone() State {
	out := s
	if s.File != nil {
		f := *s.File
		out.File = &f
	}
	out.FileURL = cloneString(s.FileURL)
	out.Error = cloneString(s.Error)
	if s.Result != nil {
		r := *s.Result
		if s.Result.Meta != nil {
			r.Meta = make(map[string]any, len(s.Result.Meta))
			for k, v := range s.Result.Meta {
				r.Meta[k] = v
			}
		}
		out.Result = &r
	}
	out.Parsed = s.Parsed.Clone()
	out.Refinements = s.Refinements.Clone()
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func strPtr(s string) *string {
	return &s
}
