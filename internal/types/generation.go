// Package types provides type definitions for structured data used throughout the apply-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// GenerationRequest is the input for one content-generation run.
// CompanyURL may arrive without a scheme; the fetcher normalizes it.
type GenerationRequest struct {
	CompanyURL    string `json:"company_url" validate:"required"`
	PositionTitle string `json:"position_title,omitempty" validate:"omitempty,max=200"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// Validate validates the GenerationRequest using the validator.
func (r *GenerationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GenerationResult holds the artifacts of one completed run. All three text
// artifacts are non-empty on success; a run that cannot produce all of them
// fails instead of returning a partial set. Immutable once returned.
type GenerationResult struct {
	Company           *CompanyProfile `json:"company_profile"`
	CoverLetterShort  string          `json:"cover_letter_short"`
	CoverLetterMedium string          `json:"cover_letter_medium"`
	LinkedInMessage   string          `json:"linkedin_message"`
	OutputDir         string          `json:"output_dir"`
}

// Complete reports whether all three text artifacts are present.
func (r *GenerationResult) Complete() bool {
	return r != nil && r.CoverLetterShort != "" && r.CoverLetterMedium != "" && r.LinkedInMessage != ""
}
