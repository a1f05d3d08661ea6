// Package pipeline provides the high-level orchestration for one content
// generation request, from company fetch through artifact persistence.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/apply-agent/internal/analysis"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/generate"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/output"
	"github.com/jonathan/apply-agent/internal/store"
	"github.com/jonathan/apply-agent/internal/types"
)

// DefaultPosition is used when a request does not name a position.
const DefaultPosition = "junior developer"

// Stage names a pipeline state for progress reporting and error tagging.
type Stage string

const (
	StageReceived  Stage = "received"
	StageFetch     Stage = "fetching_company"
	StageCVLookup  Stage = "cv_lookup"
	StageSummarize Stage = "summarizing"
	StageGenerate  Stage = "generating"
	StagePersist   Stage = "persisting"
	StageCompleted Stage = "completed"
	StageFailed    Stage = "failed"
)

// StageError tags a failure with the stage it occurred in. The underlying
// error is preserved for classification via errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Runner holds the collaborators for pipeline runs. A single Runner serves
// all requests; per-request state lives on the stack of Run.
type Runner struct {
	LLM        llm.Client
	CVs        *store.CVStore
	Writer     *output.Writer
	Fetch      *fetch.Options
	Policy     generate.Policy
	OnProgress ProgressCallback
	Verbose    bool
}

// NewRunner wires a Runner with the default generation policy.
func NewRunner(client llm.Client, cvs *store.CVStore, writer *output.Writer) *Runner {
	return &Runner{
		LLM:    client,
		CVs:    cvs,
		Writer: writer,
		Policy: generate.DefaultPolicy(),
	}
}

// Run executes the stages for one request strictly in order: fetch the
// company page, look up the stored CV, summarize, generate the three
// artifacts, persist them. The first stage failure aborts the run and is
// returned as a *StageError; nothing after the failing stage executes, so a
// fetch failure costs zero LLM calls.
func (r *Runner) Run(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	runID := uuid.New().String()
	printer := observability.NewPrinter(os.Stdout)

	r.emit(runID, StageReceived, fmt.Sprintf("generation request for %s", req.CompanyURL))

	r.emit(runID, StageFetch, "fetching company page")
	page, err := fetch.Company(ctx, req.CompanyURL, r.Fetch)
	if err != nil {
		return nil, r.fail(runID, StageFetch, err)
	}
	company := &types.CompanyProfile{
		URL:     page.URL,
		Title:   page.Title,
		RawText: page.Text,
	}

	r.emit(runID, StageCVLookup, "looking up stored CV")
	var cv types.CVProfile
	hasCV := false
	if r.CVs != nil {
		cv, hasCV = r.CVs.Get()
	}
	if !hasCV {
		r.emit(runID, StageCVLookup, "no CV on file, generating generic letters")
	}
	if r.Verbose && hasCV {
		printer.PrintCVProfile(&cv)
	}

	r.emit(runID, StageSummarize, "summarizing company page")
	summary, err := analysis.SummarizeCompany(ctx, r.LLM, page.Text, page.Title)
	if err != nil {
		return nil, r.fail(runID, StageSummarize, err)
	}
	company.Summary = summary
	if r.Verbose {
		printer.PrintCompanySummary(company)
	}

	position := req.PositionTitle
	if position == "" {
		position = DefaultPosition
	}

	r.emit(runID, StageGenerate, "generating application artifacts")
	set, err := generate.Artifacts(ctx, r.LLM, generate.Inputs{
		CV:       cv,
		Company:  company.DisplayName(),
		Summary:  summary,
		Position: position,
		Notes:    req.Notes,
	}, r.Policy)
	if err != nil {
		return nil, r.fail(runID, StageGenerate, err)
	}

	result := &types.GenerationResult{
		Company:           company,
		CoverLetterShort:  set.CoverLetterShort,
		CoverLetterMedium: set.CoverLetterMedium,
		LinkedInMessage:   set.LinkedInMessage,
	}

	r.emit(runID, StagePersist, "writing artifacts to output directory")
	writer := r.Writer
	if writer == nil {
		writer = output.NewWriter("")
	}
	dir, err := writer.Write(result, position)
	if err != nil {
		return nil, r.fail(runID, StagePersist, err)
	}
	result.OutputDir = dir

	if r.Verbose {
		printer.PrintArtifacts(result)
	}
	r.emit(runID, StageCompleted, fmt.Sprintf("artifacts written to %s", dir))

	return result, nil
}

// emit reports progress to the configured callback and, in verbose mode, to
// the process log.
func (r *Runner) emit(runID string, stage Stage, message string) {
	if r.Verbose {
		log.Printf("[PIPELINE] %s: %s", stage, message)
	}
	if r.OnProgress != nil {
		r.OnProgress(ProgressEvent{RunID: runID, Stage: stage, Message: message})
	}
}

// fail emits a failure event and wraps err with the failing stage.
func (r *Runner) fail(runID string, stage Stage, err error) error {
	r.emit(runID, StageFailed, fmt.Sprintf("%s failed: %v", stage, err))
	return &StageError{Stage: stage, Err: err}
}
