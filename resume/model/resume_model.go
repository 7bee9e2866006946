package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ParsedResume is the structured resume the layout renders from.
type ParsedResume struct {
	Name       string       `json:"name,omitempty"`
	Title      string       `json:"title,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Location   string       `json:"location,omitempty"`
	Links      []Link       `json:"links,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  *Education   `json:"education,omitempty"`
	IsScanned  bool         `json:"isScanned,omitempty"`
}

// Link is a labelled contact URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Experience represents a work history entry.
type Experience struct {
	Company  string   `json:"company"`
	Role     string   `json:"role"`
	Range    string   `json:"range,omitempty"`
	Location string   `json:"location,omitempty"`
	Bullets  []string `json:"bullets"`
}

// Education represents the single education row.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree,omitempty"`
	Year   string `json:"year,omitempty"`
}

// Validate enforces the formatting rules for fields the layout prints verbatim.
func (p ParsedResume) Validate() error {
	for i, link := range p.Links {
		if strings.TrimSpace(link.Label) == "" {
			return fmt.Errorf("links[%d].label is required", i)
		}
		if !isFullURL(strings.TrimSpace(link.URL)) {
			return fmt.Errorf("links[%d] must be a full URL", i)
		}
	}
	for i, exp := range p.Experience {
		if strings.TrimSpace(exp.Company) == "" && strings.TrimSpace(exp.Role) == "" {
			return fmt.Errorf("experience[%d] needs a company or role", i)
		}
	}
	if p.Education != nil && strings.TrimSpace(p.Education.School) == "" {
		return errors.New("education.school is required")
	}
	return nil
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (p *ParsedResume) Clone() *ParsedResume {
	if p == nil {
		return nil
	}
	out := *p
	out.Links = append([]Link(nil), p.Links...)
	out.Skills = append([]string(nil), p.Skills...)
	if p.Experience != nil {
		out.Experience = make([]Experience, len(p.Experience))
		for i, e := range p.Experience {
			e.Bullets = append([]string(nil), e.Bullets...)
			out.Experience[i] = e
		}
	}
	if p.Education != nil {
		edu := *p.Education
		out.Education = &edu
	}
	return &out
}

func isFullURL(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
