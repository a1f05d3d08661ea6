// Package types provides type definitions for structured data used throughout the apply-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CVProfile is the structured record extracted from an uploaded CV.
// At most one profile is active per process; it is replaced on re-upload
// and cleared on explicit delete. Name is empty when the extractor could
// not determine it.
type CVProfile struct {
	Name       string   `json:"name"`
	RawText    string   `json:"raw_text,omitempty"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
}

// HasName reports whether a candidate name was extracted.
func (p *CVProfile) HasName() bool {
	return p != nil && p.Name != ""
}

// NameOrNil returns the candidate name, or nil when unknown.
// API payloads use this to encode an unknown name as JSON null.
func (p *CVProfile) NameOrNil() *string {
	if p == nil || p.Name == "" {
		return nil
	}
	return &p.Name
}

// EnsureSlices replaces nil skill and experience slices with empty ones
// so JSON output always carries [] rather than null.
func (p *CVProfile) EnsureSlices() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []string{}
	}
}
