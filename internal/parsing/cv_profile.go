// Package parsing extracts a structured CV profile from raw CV text using LLM
// structured extraction. Extraction is best-effort: callers are expected to
// map any returned error to FallbackProfile so an unparseable CV never blocks
// generation.
package parsing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/prompts"
	"github.com/jonathan/apply-agent/internal/schemas"
	"github.com/jonathan/apply-agent/internal/types"
)

// maxExtractionAttempts is one initial call plus one reformat request for a
// malformed response.
const maxExtractionAttempts = 2

// BuildProfile extracts a CVProfile from cvText. A malformed model response
// is sent back once with a reformat instruction; if the second response is
// still malformed, the *ParseError surfaces so the caller can choose the
// fallback. LLM transport failures surface immediately as *APICallError and
// are never retried here.
func BuildProfile(ctx context.Context, client llm.Client, cvText string) (types.CVProfile, error) {
	var lastResponse, lastProblem string

	return llm.Attempt(maxExtractionAttempts, func(attempt int) (types.CVProfile, error) {
		var prompt string
		if attempt == 1 {
			template := prompts.MustGet(prompts.FileProfile, "extract-cv-profile")
			prompt = prompts.Format(template, map[string]string{"CVText": cvText})
		} else {
			template := prompts.MustGet(prompts.FileProfile, "reformat-cv-profile")
			prompt = prompts.Format(template, map[string]string{
				"Previous": lastResponse,
				"Error":    lastProblem,
			})
		}

		response, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
		if err != nil {
			return types.CVProfile{}, &APICallError{Message: "CV profile extraction call failed", Cause: err}
		}

		profile, err := parseProfile(response, cvText)
		if err != nil {
			lastResponse = response
			lastProblem = err.Error()
			return types.CVProfile{}, llm.Retryable(err)
		}
		return profile, nil
	})
}

// FallbackProfile is the profile substituted when extraction fails entirely:
// no structured fields, raw text preserved so generation can still draw on
// the CV content.
func FallbackProfile(cvText string) types.CVProfile {
	return types.CVProfile{
		RawText:    cvText,
		Skills:     []string{},
		Experience: []string{},
	}
}

// parseProfile validates and decodes a model response into a CVProfile.
func parseProfile(response, cvText string) (types.CVProfile, error) {
	cleaned := llm.CleanJSONBlock(response)

	if err := schemas.ValidateCVProfile(cleaned); err != nil {
		return types.CVProfile{}, &ParseError{Message: "model output does not match the CV profile schema", Cause: err}
	}

	var decoded struct {
		Name       *string  `json:"name"`
		Skills     []string `json:"skills"`
		Experience []string `json:"experience"`
	}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return types.CVProfile{}, &ParseError{Message: "model output is not valid JSON", Cause: err}
	}

	profile := types.CVProfile{
		RawText:    cvText,
		Skills:     normalizeList(decoded.Skills),
		Experience: normalizeList(decoded.Experience),
	}
	if decoded.Name != nil {
		profile.Name = strings.TrimSpace(*decoded.Name)
	}
	return profile, nil
}

// normalizeList trims entries, drops empty ones, and removes duplicates
// case-insensitively while preserving the first-seen casing and order.
func normalizeList(entries []string) []string {
	result := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		key := strings.ToLower(trimmed)
		if trimmed == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, trimmed)
	}
	return result
}
