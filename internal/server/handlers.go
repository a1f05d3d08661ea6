package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/apply-agent/internal/extract"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/parsing"
	"github.com/jonathan/apply-agent/internal/types"
)

// maxUploadBytes caps the in-memory portion of a CV upload. CVs are text
// documents; anything past this is not a CV.
const maxUploadBytes = 10 << 20

// UploadCVResponse is the response body for POST /upload-cv. Name is null
// when no candidate name could be extracted.
type UploadCVResponse struct {
	Name   *string  `json:"name"`
	Skills []string `json:"skills"`
}

// CVStatusResponse is the response body for GET /cv-status.
type CVStatusResponse struct {
	Uploaded bool    `json:"uploaded"`
	Name     *string `json:"name"`
}

// DeleteCVResponse is the response body for DELETE /cv. Removed is false
// when no CV was stored to begin with.
type DeleteCVResponse struct {
	Removed bool `json:"removed"`
}

// GenerateResponse is the response body for POST /generate.
type GenerateResponse struct {
	CompanySummary    string `json:"company_summary"`
	CoverLetterShort  string `json:"cover_letter_short"`
	CoverLetterMedium string `json:"cover_letter_medium"`
	LinkedInMessage   string `json:"linkedin_message"`
	OutputDir         string `json:"output_dir"`
}

// handleUploadCV accepts a multipart CV upload, extracts its text, and
// stores a structured profile for later generation runs. Re-uploading
// replaces the stored profile.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "CV upload requires a 'file' form field")
		return
	}
	defer file.Close()

	format, err := extract.FormatFromFilename(header.Filename)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	text, err := extract.Text(data, format)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// Structured extraction is best effort. When the model cannot produce
	// a usable profile the raw text still works for generation, so store
	// the fallback instead of failing the upload.
	profile, err := parsing.BuildProfile(r.Context(), s.llm, text)
	if err != nil {
		log.Printf("CV profile extraction failed, storing raw-text fallback: %v", err)
		profile = parsing.FallbackProfile(text)
	}
	s.cvs.Set(profile)

	s.jsonResponse(w, http.StatusOK, UploadCVResponse{
		Name:   profile.NameOrNil(),
		Skills: profile.Skills,
	})
}

// handleCVStatus reports whether a CV is currently stored.
func (s *Server) handleCVStatus(w http.ResponseWriter, r *http.Request) {
	cv, uploaded := s.cvs.Get()
	s.jsonResponse(w, http.StatusOK, CVStatusResponse{
		Uploaded: uploaded,
		Name:     cv.NameOrNil(),
	})
}

// handleDeleteCV clears the stored CV, if any.
func (s *Server) handleDeleteCV(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, DeleteCVResponse{
		Removed: s.cvs.Clear(),
	})
}

// handleGenerate runs the full generation pipeline for a company URL and
// returns the three artifacts plus the directory they were written to.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request: "+err.Error())
		return
	}

	// Reject malformed URLs before the pipeline spends a fetch on them.
	if _, err := fetch.NormalizeURL(req.CompanyURL); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		log.Printf("Generation failed for %s: %v", req.CompanyURL, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, GenerateResponse{
		CompanySummary:    result.Company.Summary,
		CoverLetterShort:  result.CoverLetterShort,
		CoverLetterMedium: result.CoverLetterMedium,
		LinkedInMessage:   result.LinkedInMessage,
		OutputDir:         result.OutputDir,
	})
}
