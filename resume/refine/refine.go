// Package refine holds the structured refinement record and the prompt
// composition rules built on top of it.
package refine

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Tone selects the writing register of the generated resume.
type Tone string

const (
	ToneConcise   Tone = "concise"
	ToneImpactful Tone = "impactful"
	ToneFormal    Tone = "formal"
	ToneFriendly  Tone = "friendly"
	ToneTechnical Tone = "technical"
)

// Tones lists every supported tone in display order.
var Tones = []Tone{ToneConcise, ToneImpactful, ToneFormal, ToneFriendly, ToneTechnical}

// DefaultTone is applied when a refinement record leaves the tone unset.
const DefaultTone = ToneConcise

// ParseTone maps user input onto a known tone.
func ParseTone(raw string) (Tone, bool) {
	candidate := Tone(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range Tones {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// Refinements tailors a generated resume.
type Refinements struct {
	TargetRole          string   `json:"targetRole,omitempty" validate:"max=120"`
	TargetCompany       string   `json:"targetCompany,omitempty" validate:"max=120"`
	Tone                Tone     `json:"tone,omitempty" validate:"omitempty,oneof=concise impactful formal friendly technical"`
	Keywords            []string `json:"keywords" validate:"max=50,dive,min=1,max=60"`
	KeepOriginalSummary bool     `json:"keepOriginalSummary"`
	AdditionalNotes     string   `json:"additionalNotes" validate:"max=1000"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks tone and length limits.
func (r *Refinements) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate.Struct(r)
}

// Defaults fills unset fields with the panel defaults. A nil record yields
// the default record.
func Defaults(partial *Refinements) Refinements {
	out := Refinements{Tone: DefaultTone, Keywords: []string{}}
	if partial == nil {
		return out
	}
	out.TargetRole = partial.TargetRole
	out.TargetCompany = partial.TargetCompany
	if partial.Tone != "" {
		out.Tone = partial.Tone
	}
	if partial.Keywords != nil {
		out.Keywords = append([]string(nil), partial.Keywords...)
	}
	out.KeepOriginalSummary = partial.KeepOriginalSummary
	out.AdditionalNotes = partial.AdditionalNotes
	return out
}

// Clone returns a deep copy.
func (r *Refinements) Clone() *Refinements {
	if r == nil {
		return nil
	}
	out := *r
	if r.Keywords != nil {
		out.Keywords = append([]string(nil), r.Keywords...)
	}
	return &out
}
