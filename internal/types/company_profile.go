// Package types provides type definitions for structured data used throughout the apply-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// CompanyProfile captures what was learned about a company for one request.
// It is created per generation request, written to the output directory, and
// not retained across requests. Title is empty when the page had none.
type CompanyProfile struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	RawText string `json:"raw_text,omitempty"`
	Summary string `json:"summary"`
}

// DisplayName returns the best human-readable company name available: the
// page title when present, otherwise the URL. Titles like "Acme | Home" are
// cut at the separator.
func (c *CompanyProfile) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Title != "" {
		name, _, _ := strings.Cut(c.Title, "|")
		return strings.TrimSpace(name)
	}
	return c.URL
}
