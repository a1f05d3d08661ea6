// Package analysis produces the free-text company summary that grounds the
// generated application artifacts.
package analysis

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/prompts"
)

// MaxCompanyTextChars caps the page text submitted for summarization so the
// prompt stays well inside the local model's context window.
const MaxCompanyTextChars = 6000

// SummarizeCompany produces a short prose summary of a company from its page
// text. Text beyond MaxCompanyTextChars is dropped before submission. The
// call is not retried; a failure aborts the surrounding request.
func SummarizeCompany(ctx context.Context, client llm.Client, text, title string) (string, error) {
	if title == "" {
		title = "(unknown)"
	}

	template := prompts.MustGet(prompts.FileCompany, "summarize-company")
	prompt := prompts.Format(template, map[string]string{
		"Title": title,
		"Text":  truncateChars(text, MaxCompanyTextChars),
	})

	summary, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &GenerationError{Message: "company summarization failed", Cause: err}
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", &GenerationError{Message: "company summarization returned no text"}
	}
	return summary, nil
}

// truncateChars caps s at max characters, counting runes rather than bytes so
// a multi-byte character is never split.
func truncateChars(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
