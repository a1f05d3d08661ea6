// Package server provides the HTTP REST API for the apply agent.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/apply-agent/internal/analysis"
	"github.com/jonathan/apply-agent/internal/extract"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/generate"
	"github.com/jonathan/apply-agent/internal/output"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Pipeline errors arrive wrapped in a *pipeline.StageError, so matching
// goes through errors.As rather than a direct type switch.
//
// Upload format and extraction problems are the client's fault (400).
// A URL that cannot be parsed is a semantic error in an otherwise valid
// request (422). Fetch and LLM failures are upstream failures (502).
// Anything else, including persistence failures, is a server error (500).
func HTTPStatus(err error) int {
	var (
		unsupported *extract.UnsupportedFormatError
		extraction  *extract.ExtractionError
		invalidURL  *fetch.InvalidURLError
		unreachable *fetch.UnreachableError
		timeout     *fetch.TimeoutError
		summarize   *analysis.GenerationError
		generation  *generate.GenerationError
		ioFailure   *output.IOError
	)

	switch {
	case errors.As(err, &unsupported), errors.As(err, &extraction):
		return http.StatusBadRequest
	case errors.As(err, &invalidURL):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unreachable), errors.As(err, &timeout):
		return http.StatusBadGateway
	case errors.As(err, &summarize), errors.As(err, &generation):
		return http.StatusBadGateway
	case errors.As(err, &ioFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
