package refine

import "strings"

// Marker separates the user's base prompt from the generated refinements block.
const Marker = "\n\nRefinements:"

// header opens a block composed onto an empty base.
const header = "Refinements:"

// BuildText renders the refinement lines in their fixed order.
func BuildText(r Refinements) string {
	lines := make([]string, 0, 5)

	var target []string
	if r.TargetRole != "" {
		target = append(target, "Role: "+r.TargetRole)
	}
	if r.TargetCompany != "" {
		target = append(target, "Company: "+r.TargetCompany)
	}
	if len(target) > 0 {
		lines = append(lines, strings.Join(target, " | "))
	}
	if r.Tone != "" {
		lines = append(lines, "Tone: "+string(r.Tone)+".")
	}
	if len(r.Keywords) > 0 {
		lines = append(lines, "Emphasize: "+strings.Join(r.Keywords, ", ")+".")
	}
	if r.KeepOriginalSummary {
		lines = append(lines, "Preserve the original summary where possible.")
	}
	if notes := strings.TrimSpace(r.AdditionalNotes); notes != "" {
		lines = append(lines, notes)
	}
	return strings.Join(lines, "\n")
}

// StripBlock returns base with any previously composed refinements block
// removed, including a block composed onto an empty base.
func StripBlock(base string) string {
	if base == header || strings.HasPrefix(base, header+"\n") {
		return ""
	}
	if idx := strings.Index(base, Marker); idx >= 0 {
		return base[:idx]
	}
	return base
}

// Compose builds the effective prompt. Composing its own output again with
// the same refinements returns the same string.
func Compose(base string, r Refinements) string {
	clean := StripBlock(base)
	text := BuildText(r)
	if clean == "" {
		return header + "\n" + text
	}
	return clean + Marker + "\n" + text
}
