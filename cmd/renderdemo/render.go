package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-formatter/internal/inspect"
	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
	"resume-formatter/resume/render"
	"resume-formatter/resume/sample"
)

var (
	renderOut         string
	renderInput       string
	renderRole        string
	renderCompany     string
	renderTone        string
	renderKeywords    string
	renderNotes       string
	renderKeepSummary bool
	renderNoModel     bool
)

func init() {
	rootCmd.Flags().StringVarP(&renderOut, "out", "o", "./out/sample_resume.pdf", "Output path for the generated PDF")
	rootCmd.Flags().StringVarP(&renderInput, "input", "i", "", "Path to a parsed resume JSON file (defaults to the bundled sample)")
	rootCmd.Flags().StringVar(&renderRole, "role", "", "Target role")
	rootCmd.Flags().StringVar(&renderCompany, "company", "", "Target company")
	rootCmd.Flags().StringVar(&renderTone, "tone", string(refine.DefaultTone), "Tone: concise, impactful, formal, friendly or technical")
	rootCmd.Flags().StringVarP(&renderKeywords, "keywords", "k", "", "Comma-separated keywords to emphasize")
	rootCmd.Flags().StringVar(&renderNotes, "notes", "", "Additional notes")
	rootCmd.Flags().BoolVar(&renderKeepSummary, "keep-summary", false, "Keep the original summary instead of synthesizing one")
	rootCmd.Flags().BoolVar(&renderNoModel, "no-model", false, "Skip writing the resolved model JSON next to the PDF")
}

func runRender(cmd *cobra.Command, _ []string) error {
	parsed, err := loadParsed(renderInput)
	if err != nil {
		return err
	}
	r, err := buildRefinements()
	if err != nil {
		return err
	}

	data, err := render.RenderPDF(parsed, &r, render.Options{Creator: "renderdemo"})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if err := writeOutputs(renderOut, parsed, &r, data); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	report, err := inspect.InspectBytes(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("render validation failed: %w", err)
	}
	if report.Pages != 1 {
		return fmt.Errorf("render validation failed: expected 1 page, got %d", report.Pages)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: wrote %s (%d bytes, %d page)\n", renderOut, len(data), report.Pages)
	return nil
}

func loadParsed(path string) (*model.ParsedResume, error) {
	if path == "" {
		return sample.Parsed(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	var parsed model.ParsedResume
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return &parsed, nil
}

func buildRefinements() (refine.Refinements, error) {
	tone, ok := refine.ParseTone(renderTone)
	if !ok {
		return refine.Refinements{}, fmt.Errorf("unknown tone %q", renderTone)
	}
	r := refine.Defaults(&refine.Refinements{
		TargetRole:          strings.TrimSpace(renderRole),
		TargetCompany:       strings.TrimSpace(renderCompany),
		Tone:                tone,
		Keywords:            refine.AddKeywords(nil, renderKeywords),
		KeepOriginalSummary: renderKeepSummary,
		AdditionalNotes:     strings.TrimSpace(renderNotes),
	})
	if err := r.Validate(); err != nil {
		return refine.Refinements{}, fmt.Errorf("invalid refinements: %w", err)
	}
	return r, nil
}

func writeOutputs(outPath string, parsed *model.ParsedResume, r *refine.Refinements, data []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	if renderNoModel {
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
	modelPath := filepath.Join(dir, base+"_model.json")
	payload, err := json.MarshalIndent(render.Build(parsed, r), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(modelPath, payload, 0o644)
}
