// Package generate composes the application artifacts: a short cover letter,
// a medium cover letter, and a LinkedIn outreach message. Each artifact is a
// separate sequential LLM call checked against an advisory policy.
package generate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/prompts"
	"github.com/jonathan/apply-agent/internal/types"
)

// Kind identifies one generated artifact.
type Kind string

const (
	KindCoverLetterShort  Kind = "cover_letter_short"
	KindCoverLetterMedium Kind = "cover_letter_medium"
	KindLinkedInMessage   Kind = "linkedin_message"
)

// maxGenerationAttempts is one initial call plus at most one regeneration
// when the advisory checks fail.
const maxGenerationAttempts = 2

// maxRawCVChars caps the CV excerpt interpolated into prompts when no
// structured profile is available.
const maxRawCVChars = 1500

var promptKeys = map[Kind]string{
	KindCoverLetterShort:  "cover-letter-short",
	KindCoverLetterMedium: "cover-letter-medium",
	KindLinkedInMessage:   "linkedin-message",
}

// Inputs carries everything the artifact prompts interpolate.
type Inputs struct {
	CV       types.CVProfile
	Company  string
	Summary  string
	Position string
	Notes    string
}

// Set holds the three generated artifacts.
type Set struct {
	CoverLetterShort  string
	CoverLetterMedium string
	LinkedInMessage   string
}

// Artifacts generates all three artifacts in order: short letter, medium
// letter, LinkedIn message. A failed LLM call aborts immediately with a
// *GenerationError. Failed advisory checks trigger at most one regeneration
// per artifact; if the retry also fails its checks, the text is kept as-is.
func Artifacts(ctx context.Context, client llm.Client, in Inputs, policy Policy) (*Set, error) {
	short, err := generateOne(ctx, client, KindCoverLetterShort, in, policy)
	if err != nil {
		return nil, err
	}

	medium, err := generateOne(ctx, client, KindCoverLetterMedium, in, policy)
	if err != nil {
		return nil, err
	}

	linkedin, err := generateOne(ctx, client, KindLinkedInMessage, in, policy)
	if err != nil {
		return nil, err
	}

	return &Set{
		CoverLetterShort:  short,
		CoverLetterMedium: medium,
		LinkedInMessage:   linkedin,
	}, nil
}

func generateOne(ctx context.Context, client llm.Client, kind Kind, in Inputs, policy Policy) (string, error) {
	template := prompts.MustGet(prompts.FileLetters, promptKeys[kind])
	prompt := prompts.Format(template, map[string]string{
		"Company":   in.Company,
		"Summary":   in.Summary,
		"Position":  in.Position,
		"Notes":     in.Notes,
		"Candidate": candidateBlock(in.CV),
	})

	text, err := llm.Attempt(maxGenerationAttempts, func(attempt int) (string, error) {
		response, err := client.GenerateContent(ctx, prompt, llm.TierAdvanced)
		if err != nil {
			return "", &GenerationError{
				Message: fmt.Sprintf("%s call failed", kind),
				Cause:   err,
			}
		}

		response = strings.TrimSpace(response)
		if checks := policy.Check(kind, response, in.CV.HasName()); !checks.Pass() {
			return response, llm.Retryable(fmt.Errorf("%s: %s", kind, strings.Join(checks.Failures(), ", ")))
		}
		return response, nil
	})

	// Check failures are advisory: once the single regeneration is spent the
	// last response ships anyway. An empty artifact is never acceptable.
	if err != nil && llm.IsRetryable(err) {
		err = nil
	}
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", &GenerationError{Message: fmt.Sprintf("%s returned no usable text", kind)}
	}
	return text, nil
}

// candidateBlock renders the CV profile as prompt-ready lines. With no CV at
// all, the model is told not to invent specifics.
func candidateBlock(cv types.CVProfile) string {
	if !cv.HasName() && len(cv.Skills) == 0 && len(cv.Experience) == 0 && strings.TrimSpace(cv.RawText) == "" {
		return "No CV on file. Write in a generic first person and do not invent specific names or experience."
	}

	var b strings.Builder
	if cv.HasName() {
		fmt.Fprintf(&b, "Name: %s\n", cv.Name)
	} else {
		b.WriteString("Name: not provided\n")
	}
	if len(cv.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(cv.Skills, ", "))
	}
	for _, entry := range cv.Experience {
		fmt.Fprintf(&b, "- %s\n", entry)
	}

	// Fall back to the raw CV text when extraction produced no structure.
	if len(cv.Skills) == 0 && len(cv.Experience) == 0 && strings.TrimSpace(cv.RawText) != "" {
		fmt.Fprintf(&b, "CV text excerpt:\n%s\n", truncateChars(strings.TrimSpace(cv.RawText), maxRawCVChars))
	}

	return strings.TrimSpace(b.String())
}

func truncateChars(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
