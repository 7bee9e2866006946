package session

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
)

func TestEncodeSnapshotLayout(t *testing.T) {
	url := "blob:1"
	st := State{
		File:        &File{Name: "a.pdf", Key: "k"},
		FileURL:     &url,
		Prompt:      "p",
		Status:      StatusReady,
		Result:      &Result{PDFURL: "blob:2"},
		Parsed:      &model.ParsedResume{Name: "Jordan"},
		Refinements: &refine.Refinements{Tone: refine.ToneConcise},
		Revision:    9,
		Hydrated:    true,
	}
	data, err := EncodeSnapshot(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if string(raw["version"]) != "2" {
		t.Fatalf("expected version 2, got %s", raw["version"])
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(raw["state"], &inner); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	for _, k := range []string{"fileUrl", "prompt", "result", "error", "parsed", "refinements"} {
		if _, ok := inner[k]; !ok {
			t.Fatalf("missing persisted key %s", k)
		}
	}
	for _, k := range []string{"file", "status", "revision", "hydrated"} {
		if _, ok := inner[k]; ok {
			t.Fatalf("key %s must not be persisted", k)
		}
	}
}

func TestDecodeSnapshotRoundTrip(t *testing.T) {
	url := "blob:1"
	st := State{FileURL: &url, Prompt: "p", Parsed: &model.ParsedResume{Name: "N", Skills: []string{"Go"}}}
	data, err := EncodeSnapshot(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, ok, err := DecodeSnapshot(data)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(Partialize(st), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSnapshotMigratesVersionOne(t *testing.T) {
	data := []byte(`{"state":{"fileUrl":"blob:x","prompt":"keep","result":{"pdfUrl":"blob:y"},"error":null,"parsed":{"name":"drop"},"refinements":{"tone":"formal"}},"version":1}`)
	got, ok, err := DecodeSnapshot(data)
	if err != nil || !ok {
		t.Fatalf("decode: ok=%v err=%v", ok, err)
	}
	if got.Prompt != "keep" || got.Result == nil || got.Result.PDFURL != "blob:y" {
		t.Fatalf("expected v1 fields kept, got %+v", got)
	}
	if got.Parsed != nil || got.Refinements != nil {
		t.Fatalf("expected parsed and refinements dropped, got %+v", got)
	}
}

func TestDecodeSnapshotIgnoresNewerVersion(t *testing.T) {
	_, ok, err := DecodeSnapshot([]byte(`{"state":{"prompt":"x"},"version":3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected newer snapshot ignored")
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeSnapshot([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
