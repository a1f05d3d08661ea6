package generate

import (
	"strings"
)

// Policy configures the advisory self-checks applied to generated artifacts.
// The thresholds are heuristics and deliberately configurable; they gate a
// single regeneration, never the request itself.
type Policy struct {
	// MinWords is the minimum word count per artifact kind.
	MinWords map[Kind]int
	// MaxWords is the maximum word count per artifact kind; zero means unbounded.
	MaxWords map[Kind]int
	// Placeholders are literal tokens indicating the model emitted template
	// text instead of using the provided facts.
	Placeholders []string
}

// placeholderYourName is skipped when no candidate name is known, since the
// model then has nothing to sign with.
const placeholderYourName = "[Your Name]"

// DefaultPolicy returns the standard check thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinWords: map[Kind]int{
			KindCoverLetterShort:  40,
			KindCoverLetterMedium: 100,
			KindLinkedInMessage:   20,
		},
		MaxWords: map[Kind]int{
			KindLinkedInMessage: 150,
		},
		Placeholders: []string{
			placeholderYourName,
			"[Company Name]",
			"[Company]",
			"[Hiring Manager]",
			"[Position]",
			"[Date]",
		},
	}
}

// ChecksResult holds the advisory check outcomes for one artifact.
type ChecksResult struct {
	LengthOK       bool
	NoPlaceholders bool
}

// Pass reports whether every check passed.
func (r ChecksResult) Pass() bool {
	return r.LengthOK && r.NoPlaceholders
}

// Failures lists the failed checks, for logs and error messages.
func (r ChecksResult) Failures() []string {
	var failures []string
	if !r.LengthOK {
		failures = append(failures, "length out of bounds")
	}
	if !r.NoPlaceholders {
		failures = append(failures, "contains placeholder text")
	}
	return failures
}

// Check applies the policy to one artifact. nameKnown controls whether a
// literal "[Your Name]" counts as a failure.
func (p Policy) Check(kind Kind, text string, nameKnown bool) ChecksResult {
	result := ChecksResult{
		LengthOK:       p.checkLength(kind, text),
		NoPlaceholders: p.checkPlaceholders(text, nameKnown),
	}
	return result
}

func (p Policy) checkLength(kind Kind, text string) bool {
	words := len(strings.Fields(text))
	if min := p.MinWords[kind]; words < min {
		return false
	}
	if max := p.MaxWords[kind]; max > 0 && words > max {
		return false
	}
	return true
}

func (p Policy) checkPlaceholders(text string, nameKnown bool) bool {
	lower := strings.ToLower(text)
	for _, token := range p.Placeholders {
		if !nameKnown && strings.EqualFold(token, placeholderYourName) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(token)) {
			return false
		}
	}
	return true
}
