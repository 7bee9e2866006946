// Package render lays out a parsed resume as a one-page US Letter PDF.
package render

import (
	"sort"
	"strings"

	"resume-formatter/resume/emphasis"
	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
)

const (
	maxSkills          = 20
	maxExperience      = 2
	maxBulletsConcise  = 3
	maxBulletsDefault  = 4
	maxBulletRunes     = 180
	summarySkillsCount = 5
	ellipsis           = "…"
)

// Placeholders used when a field is missing.
const (
	PlaceholderName     = "Your Name"
	PlaceholderTitle    = "Professional Title"
	PlaceholderCompany  = "Company"
	PlaceholderRole     = "Role"
	PlaceholderMeta     = "Location · Dates"
	PlaceholderDocTitle = "Resume"
)

// Layout is the resolved content of the page, before drawing.
type Layout struct {
	Name       string
	Title      string
	Contact    []string
	Summary    string
	Skills     []string
	Experience []ExperienceBlock
	Education  *model.Education
	Keywords   []string
	DocTitle   string
	Author     string
}

// ExperienceBlock is one rendered work history entry.
type ExperienceBlock struct {
	Company string
	Role    string
	Meta    string
	Bullets []string
}

// Build resolves which content appears on the page. It never fails.
func Build(parsed *model.ParsedResume, r *refine.Refinements) Layout {
	if parsed == nil {
		parsed = &model.ParsedResume{}
	}
	var ref refine.Refinements
	if r != nil {
		ref = *r
	}
	keywords := emphasis.Normalize(ref.Keywords)

	l := Layout{
		Name:     firstNonEmpty(parsed.Name, PlaceholderName),
		Title:    firstNonEmpty(parsed.Title, ref.TargetRole, PlaceholderTitle),
		Contact:  contactItems(parsed),
		Summary:  SynthesizeSummary(parsed, r),
		Skills:   OrderSkills(parsed.Skills, keywords),
		Keywords: keywords,
		DocTitle: PlaceholderDocTitle,
		Author:   parsed.Name,
	}
	if parsed.Name != "" {
		l.DocTitle = parsed.Name + " — Resume"
	}

	for i, e := range parsed.Experience {
		if i >= maxExperience {
			break
		}
		meta := joinNonEmpty(" · ", e.Location, e.Range)
		l.Experience = append(l.Experience, ExperienceBlock{
			Company: firstNonEmpty(e.Company, PlaceholderCompany),
			Role:    firstNonEmpty(e.Role, PlaceholderRole),
			Meta:    firstNonEmpty(meta, PlaceholderMeta),
			Bullets: BulletsForTone(e.Bullets, ref.Tone),
		})
	}
	if parsed.Education != nil {
		edu := *parsed.Education
		l.Education = &edu
	}
	return l
}

// SynthesizeSummary returns the original summary when there is one, otherwise
// a one-line summary built from the role, top skills and target company.
func SynthesizeSummary(parsed *model.ParsedResume, r *refine.Refinements) string {
	if parsed == nil {
		parsed = &model.ParsedResume{}
	}
	if parsed.Summary != "" {
		return parsed.Summary
	}
	var ref refine.Refinements
	if r != nil {
		ref = *r
	}
	role := firstNonEmpty(ref.TargetRole, parsed.Title, "Professional")
	pieces := []string{"Results-driven " + role}
	if len(parsed.Skills) > 0 {
		top := parsed.Skills
		if len(top) > summarySkillsCount {
			top = top[:summarySkillsCount]
		}
		pieces = append(pieces, "skilled in "+strings.Join(top, ", "))
	}
	if ref.TargetCompany != "" {
		pieces = append(pieces, "tailored for "+ref.TargetCompany)
	}
	return strings.Join(pieces, " · ") + "."
}

// OrderSkills moves skills that exactly match a keyword to the front, keeping
// relative order otherwise, and caps the list.
func OrderSkills(skills []string, keywords []string) []string {
	out := append([]string(nil), skills...)
	if len(keywords) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return emphasis.IsKeyword(out[i], keywords) && !emphasis.IsKeyword(out[j], keywords)
		})
	}
	if len(out) > maxSkills {
		out = out[:maxSkills]
	}
	return out
}

// BulletsForTone keeps three bullets for the concise tone and four otherwise,
// truncating long bullets and dropping empty ones.
func BulletsForTone(bullets []string, tone refine.Tone) []string {
	limit := maxBulletsDefault
	if tone == refine.ToneConcise {
		limit = maxBulletsConcise
	}
	if len(bullets) > limit {
		bullets = bullets[:limit]
	}
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if t := Truncate(b, maxBulletRunes); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Truncate shortens s to n runes, the last being an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return ellipsis
	}
	return string(runes[:n-1]) + ellipsis
}

func contactItems(p *model.ParsedResume) []string {
	var items []string
	if p.Email != "" {
		items = append(items, p.Email)
	}
	if p.Phone != "" {
		items = append(items, "• "+p.Phone)
	}
	if p.Location != "" {
		items = append(items, "• "+p.Location)
	}
	for _, l := range p.Links {
		items = append(items, "• "+l.Label+": "+l.URL)
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
