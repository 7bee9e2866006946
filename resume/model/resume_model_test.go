package model

import "testing"

func TestValidateLinks(t *testing.T) {
	ok := ParsedResume{Links: []Link{{Label: "GitHub", URL: "https://github.com/x"}}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bad := ParsedResume{Links: []Link{{Label: "GitHub", URL: "github.com/x"}}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected relative url rejected")
	}

	noLabel := ParsedResume{Links: []Link{{URL: "https://x.dev"}}}
	if err := noLabel.Validate(); err == nil {
		t.Fatalf("expected missing label rejected")
	}
}

func TestValidateExperienceAndEducation(t *testing.T) {
	p := ParsedResume{Experience: []Experience{{Bullets: []string{"x"}}}}
	if err := p.Validate(); err == nil {
		t.Fatalf("expected empty experience rejected")
	}
	p = ParsedResume{Education: &Education{Degree: "BS"}}
	if err := p.Validate(); err == nil {
		t.Fatalf("expected missing school rejected")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &ParsedResume{
		Skills:     []string{"Go"},
		Experience: []Experience{{Company: "A", Bullets: []string{"b1"}}},
		Education:  &Education{School: "U"},
	}
	cp := orig.Clone()
	cp.Skills[0] = "Rust"
	cp.Experience[0].Bullets[0] = "changed"
	cp.Education.School = "Other"

	if orig.Skills[0] != "Go" || orig.Experience[0].Bullets[0] != "b1" || orig.Education.School != "U" {
		t.Fatalf("clone shares memory with original: %+v", orig)
	}
	var nilResume *ParsedResume
	if nilResume.Clone() != nil {
		t.Fatalf("expected nil clone of nil")
	}
}
