// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/apply-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCVProfile outputs a human-readable summary of the stored CV profile.
func (p *Printer) PrintCVProfile(profile *types.CVProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	name := "(not detected)"
	if profile.HasName() {
		name = profile.Name
	}
	sb.WriteString(fmt.Sprintf("Name:  %s\n", name))
	sb.WriteString("\n")

	if len(profile.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Skills[i]))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(profile.Experience), 3)
		for i := 0; i < count; i++ {
			entry := profile.Experience[i]
			if len(entry) > 50 {
				entry = entry[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", entry))
		}
		if len(profile.Experience) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Experience)-3))
		}
	}

	if len(profile.Skills) == 0 && len(profile.Experience) == 0 {
		sb.WriteString("No structured fields; raw CV text will be used as-is.\n")
	}

	p.printBox("CV PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompanySummary outputs the fetched company profile and its summary.
func (p *Printer) PrintCompanySummary(profile *types.CompanyProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", profile.DisplayName()))
	sb.WriteString(fmt.Sprintf("URL:      %s\n", profile.URL))

	if profile.Summary != "" {
		sb.WriteString("\n")
		for _, line := range wrapText(profile.Summary, boxWidth-4) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	p.printBox("COMPANY PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifacts outputs word counts and previews for the generated artifacts.
func (p *Printer) PrintArtifacts(result *types.GenerationResult) {
	if result == nil {
		return
	}

	artifacts := []struct {
		label string
		text  string
	}{
		{"cover_letter_short", result.CoverLetterShort},
		{"cover_letter_medium", result.CoverLetterMedium},
		{"linkedin_message", result.LinkedInMessage},
	}

	var sb strings.Builder
	for i, a := range artifacts {
		sb.WriteString(fmt.Sprintf("• %s (%d words)\n", a.label, len(strings.Fields(a.text))))
		preview := strings.SplitN(a.text, "\n", 2)[0]
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", preview))
		if i < len(artifacts)-1 {
			sb.WriteString("\n")
		}
	}

	if result.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("\nSaved to: %s", result.OutputDir))
	}

	p.printBox("GENERATED ARTIFACTS", strings.TrimSuffix(sb.String(), "\n"))
}

// wrapText word-wraps s to lines of at most width bytes.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
