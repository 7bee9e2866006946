package refine

import (
	"strings"
	"testing"
)

func scenarioRefinements() Refinements {
	return Refinements{
		TargetRole:          "Senior Backend Engineer",
		TargetCompany:       "GovStar",
		Tone:                ToneFriendly,
		Keywords:            []string{"Python", "security clearance"},
		KeepOriginalSummary: true,
		AdditionalNotes:     "Prefer metrics.",
	}
}

func TestComposeReplacesPreviousBlock(t *testing.T) {
	got := Compose("BASE\n\nRefinements:\nOLD", scenarioRefinements())

	if !strings.HasPrefix(got, "BASE\n\nRefinements:\n") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if n := strings.Count(got, Marker); n != 1 {
		t.Fatalf("expected one marker, got %d in %q", n, got)
	}
	for _, want := range []string{
		"Role: Senior Backend Engineer | Company: GovStar",
		"Tone: friendly.",
		"Emphasize: Python, security clearance.",
		"Preserve the original summary where possible.",
		"Prefer metrics.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "OLD") {
		t.Fatalf("superseded block leaked: %q", got)
	}
}

func TestComposeIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		base string
		r    Refinements
	}{
		{name: "empty base", base: "", r: scenarioRefinements()},
		{name: "plain base", base: "Emphasize leadership.", r: Refinements{Tone: ToneFormal}},
		{name: "trailing newline", base: "A\n", r: Refinements{Keywords: []string{"Go"}}},
		{name: "nothing set", base: "X", r: Refinements{}},
		{name: "already composed", base: "B\n\nRefinements:\nTone: concise.", r: scenarioRefinements()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Compose(tt.base, tt.r)
			twice := Compose(once, tt.r)
			if once != twice {
				t.Fatalf("compose not idempotent:\nonce:  %q\ntwice: %q", once, twice)
			}
		})
	}
}

func TestComposeEmptyBase(t *testing.T) {
	got := Compose("", Refinements{Tone: ToneConcise})
	if got != "Refinements:\nTone: concise." {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestBuildTextPartialTarget(t *testing.T) {
	if got := BuildText(Refinements{TargetCompany: "GovStar"}); got != "Company: GovStar" {
		t.Fatalf("unexpected %q", got)
	}
	if got := BuildText(Refinements{TargetRole: "SRE", AdditionalNotes: "   "}); got != "Role: SRE" {
		t.Fatalf("unexpected %q", got)
	}
	if got := BuildText(Refinements{AdditionalNotes: "  keep it short \n"}); got != "keep it short" {
		t.Fatalf("expected trimmed notes, got %q", got)
	}
}

func TestComposeOnEmptyBaseReplacesBlock(t *testing.T) {
	first := Compose("", Refinements{Tone: ToneConcise})
	got := Compose(first, Refinements{Tone: ToneFormal})
	if got != "Refinements:\nTone: formal." {
		t.Fatalf("expected single replaced block, got %q", got)
	}
	if n := strings.Count(got, "Refinements:"); n != 1 {
		t.Fatalf("expected one block, got %d", n)
	}
	if StripBlock(first) != "" {
		t.Fatalf("expected empty base after strip, got %q", StripBlock(first))
	}
	if StripBlock("Refinements:") != "" {
		t.Fatalf("expected bare header stripped")
	}
}
