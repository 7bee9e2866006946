package workspace

import "resume-formatter/internal/session"

// Page is a logical client page.
type Page string

const (
	PageUpload   Page = "upload"
	PageGenerate Page = "generate"
	PagePreview  Page = "preview"
)

// Decision is the outcome of a page guard.
type Decision struct {
	Page     Page   `json:"page"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	Hydrated bool   `json:"hydrated"`
}

// ParsePage accepts upload, generate and preview.
func ParsePage(raw string) (Page, bool) {
	switch Page(raw) {
	case PageUpload, PageGenerate, PagePreview:
		return Page(raw), true
	}
	return "", false
}

// Guard decides whether page may be shown for st. Nothing redirects before
// the store has hydrated.
func Guard(page Page, st session.State) Decision {
	d := Decision{Page: page, Allowed: true, Hydrated: st.Hydrated}
	if !st.Hydrated {
		return d
	}
	switch page {
	case PageGenerate:
		if !st.HasFile() {
			d.Allowed, d.Redirect = false, "/"+string(PageUpload)
		}
	case PagePreview:
		if !st.HasResult() {
			d.Allowed, d.Redirect = false, "/"+string(PageUpload)
		}
	}
	return d
}
