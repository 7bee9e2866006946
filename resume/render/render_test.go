package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ledongthuc/pdf"

	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
	"resume-formatter/resume/sample"
)

func TestRenderPDFSampleIsOnePage(t *testing.T) {
	ref := &refine.Refinements{
		TargetRole: "Staff Engineer",
		Tone:       refine.ToneTechnical,
		Keywords:   []string{"GraphQL", "Docker"},
	}
	data, err := RenderPDF(sample.Parsed(), ref, Options{CreationDate: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", data[:8])
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if n := reader.NumPage(); n != 1 {
		t.Fatalf("expected 1 page, got %d", n)
	}
}

func TestRenderPDFEmptyResume(t *testing.T) {
	data, err := RenderPDF(nil, nil, Options{})
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if reader.NumPage() != 1 {
		t.Fatalf("expected a single page")
	}
}

func TestBuildTitleFallbacks(t *testing.T) {
	l := Build(&model.ParsedResume{}, &refine.Refinements{TargetRole: "SRE"})
	if l.Title != "SRE" || l.Name != PlaceholderName || l.DocTitle != "Resume" {
		t.Fatalf("unexpected fallbacks %+v", l)
	}
	l = Build(&model.ParsedResume{}, nil)
	if l.Title != PlaceholderTitle {
		t.Fatalf("expected placeholder title, got %q", l.Title)
	}
	l = Build(sample.Parsed(), nil)
	if l.DocTitle != "Jordan Taylor — Resume" || l.Author != "Jordan Taylor" {
		t.Fatalf("unexpected metadata %q %q", l.DocTitle, l.Author)
	}
}

func TestBuildExperienceRules(t *testing.T) {
	parsed := sample.Parsed()
	parsed.Experience = append(parsed.Experience, model.Experience{Company: "Third", Bullets: []string{"x"}})
	parsed.Experience[1].Location = ""
	parsed.Experience[1].Range = ""

	concise := Build(parsed, &refine.Refinements{Tone: refine.ToneConcise})
	if len(concise.Experience) != 2 {
		t.Fatalf("expected 2 experience blocks, got %d", len(concise.Experience))
	}
	if len(concise.Experience[0].Bullets) != 3 {
		t.Fatalf("expected 3 bullets for concise, got %d", len(concise.Experience[0].Bullets))
	}
	if concise.Experience[0].Meta != "Remote · 2021–Present" {
		t.Fatalf("unexpected meta %q", concise.Experience[0].Meta)
	}
	if concise.Experience[1].Meta != PlaceholderMeta {
		t.Fatalf("expected meta placeholder, got %q", concise.Experience[1].Meta)
	}

	formal := Build(parsed, &refine.Refinements{Tone: refine.ToneFormal})
	if len(formal.Experience[0].Bullets) != 4 {
		t.Fatalf("expected 4 bullets, got %d", len(formal.Experience[0].Bullets))
	}
	untoned := Build(parsed, nil)
	if len(untoned.Experience[0].Bullets) != 4 {
		t.Fatalf("expected 4 bullets without tone, got %d", len(untoned.Experience[0].Bullets))
	}
}

func TestBulletsForToneTruncates(t *testing.T) {
	long := strings.Repeat("é", 200)
	got := BulletsForTone([]string{long, "", "ok"}, refine.ToneFriendly)
	if len(got) != 2 {
		t.Fatalf("expected empty bullet dropped, got %d", len(got))
	}
	runes := []rune(got[0])
	if len(runes) != 180 || string(runes[179]) != "…" {
		t.Fatalf("expected 180 runes ending in ellipsis, got %d", len(runes))
	}
	if Truncate("abc", 3) != "abc" {
		t.Fatalf("expected untouched short string")
	}
}

func TestSynthesizeSummary(t *testing.T) {
	withSummary := &model.ParsedResume{Summary: "Original."}
	if got := SynthesizeSummary(withSummary, &refine.Refinements{TargetRole: "X"}); got != "Original." {
		t.Fatalf("expected original summary, got %q", got)
	}

	p := &model.ParsedResume{Title: "Engineer", Skills: []string{"a", "b", "c", "d", "e", "f"}}
	got := SynthesizeSummary(p, &refine.Refinements{TargetCompany: "GovStar"})
	want := "Results-driven Engineer · skilled in a, b, c, d, e · tailored for GovStar."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	if got := SynthesizeSummary(&model.ParsedResume{}, nil); got != "Results-driven Professional." {
		t.Fatalf("unexpected bare summary %q", got)
	}
}

func TestOrderSkills(t *testing.T) {
	got := OrderSkills([]string{"React", "AWS", "Docker", "Jest"}, []string{"docker", "jest"})
	want := []string{"Docker", "Jest", "React", "AWS"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OrderSkills mismatch (-want +got):\n%s", diff)
	}

	many := make([]string, 30)
	for i := range many {
		many[i] = strings.Repeat("s", i+1)
	}
	if n := len(OrderSkills(many, nil)); n != 20 {
		t.Fatalf("expected cap of 20, got %d", n)
	}
}

func TestParseHex(t *testing.T) {
	if got := parseHex(ColorPrimary); got != (rgb{0x19, 0x8d, 0xaa}) {
		t.Fatalf("unexpected rgb %+v", got)
	}
	if got := parseHex("nope"); got != (rgb{}) {
		t.Fatalf("expected zero for invalid hex")
	}
}
