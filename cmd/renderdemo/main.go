// Package main renders a resume PDF from the bundled sample (or a parsed
// resume JSON file) so the template can be checked without the API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "renderdemo",
	Short:        "Render the one-page resume template to PDF",
	Long:         "Renders a parsed resume through the refinement pipeline and the PDF template, then checks the output parses back as a one-page document.",
	SilenceUsage: true,
	RunE:         runRender,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
