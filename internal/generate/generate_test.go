package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/types"
)

// scriptedClient replays canned responses and errors by call order and
// records every prompt it receives.
type scriptedClient struct {
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func (s *scriptedClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.GenerateContent(ctx, prompt, tier)
}

func (s *scriptedClient) GetModel(llm.ModelTier) string { return "stub-model" }
func (s *scriptedClient) Close() error                  { return nil }

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

var testInputs = Inputs{
	CV: types.CVProfile{
		Name:   "Jane Doe",
		Skills: []string{"Python", "React"},
	},
	Company:  "Acme Robotics",
	Summary:  "Acme builds warehouse robots.",
	Position: "junior developer",
	Notes:    "I met the team at a meetup.",
}

func TestArtifacts_Success(t *testing.T) {
	short, medium, linkedin := words(60), words(150), words(80)
	client := &scriptedClient{responses: []string{short, medium, linkedin}}

	set, err := Artifacts(context.Background(), client, testInputs, DefaultPolicy())

	require.NoError(t, err)
	assert.Equal(t, short, set.CoverLetterShort)
	assert.Equal(t, medium, set.CoverLetterMedium)
	assert.Equal(t, linkedin, set.LinkedInMessage)
	require.Len(t, client.prompts, 3)
	assert.Contains(t, client.prompts[0], "Acme Robotics")
	assert.Contains(t, client.prompts[0], "Jane Doe")
	assert.Contains(t, client.prompts[0], "junior developer")
	assert.Contains(t, client.prompts[2], "LinkedIn")
}

func TestArtifacts_Deterministic(t *testing.T) {
	responses := []string{words(60), words(150), words(80)}

	first, err := Artifacts(context.Background(), &scriptedClient{responses: responses}, testInputs, DefaultPolicy())
	require.NoError(t, err)

	second, err := Artifacts(context.Background(), &scriptedClient{responses: responses}, testInputs, DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestArtifacts_RegeneratesOnFailedChecks(t *testing.T) {
	good := words(60)
	client := &scriptedClient{responses: []string{
		"far too short",
		good,
		words(150),
		words(80),
	}}

	set, err := Artifacts(context.Background(), client, testInputs, DefaultPolicy())

	require.NoError(t, err)
	assert.Equal(t, good, set.CoverLetterShort)
	assert.Len(t, client.prompts, 4)
}

func TestArtifacts_ChecksAreAdvisory(t *testing.T) {
	client := &scriptedClient{responses: []string{
		"first short draft",
		"second short draft",
		words(150),
		words(80),
	}}

	set, err := Artifacts(context.Background(), client, testInputs, DefaultPolicy())

	// Both attempts failed the length check; the last response ships anyway.
	require.NoError(t, err)
	assert.Equal(t, "second short draft", set.CoverLetterShort)
	assert.Len(t, client.prompts, 4)
}

func TestArtifacts_CallFailureAborts(t *testing.T) {
	client := &scriptedClient{
		responses: []string{words(60)},
		errs:      []error{nil, errors.New("connection refused")},
	}

	set, err := Artifacts(context.Background(), client, testInputs, DefaultPolicy())

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Nil(t, set)
	// The failed call is not retried and no further artifacts are attempted.
	assert.Len(t, client.prompts, 2)
}

func TestArtifacts_PlaceholderTriggersRegeneration(t *testing.T) {
	tainted := words(50) + " Sincerely, [Your Name]"
	good := words(60)
	client := &scriptedClient{responses: []string{
		tainted,
		good,
		words(150),
		words(80),
	}}

	set, err := Artifacts(context.Background(), client, testInputs, DefaultPolicy())

	require.NoError(t, err)
	assert.Equal(t, good, set.CoverLetterShort)
	assert.Len(t, client.prompts, 4)
}

func TestArtifacts_PlaceholderAllowedWithoutName(t *testing.T) {
	tainted := words(50) + " Sincerely, [Your Name]"
	client := &scriptedClient{responses: []string{
		tainted,
		words(150),
		words(80),
	}}

	in := testInputs
	in.CV = types.CVProfile{RawText: "anonymous cv"}

	set, err := Artifacts(context.Background(), client, in, DefaultPolicy())

	require.NoError(t, err)
	assert.Equal(t, tainted, set.CoverLetterShort)
	assert.Len(t, client.prompts, 3)
}

func TestArtifacts_EmptyResponsesFail(t *testing.T) {
	client := &scriptedClient{responses: []string{"", ""}}

	_, err := Artifacts(context.Background(), client, testInputs, DefaultPolicy())

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestCandidateBlock_FullProfile(t *testing.T) {
	block := candidateBlock(types.CVProfile{
		Name:       "Jane Doe",
		Skills:     []string{"Python", "React"},
		Experience: []string{"Engineer at Acme (2021-): backend work"},
	})

	assert.Contains(t, block, "Name: Jane Doe")
	assert.Contains(t, block, "Skills: Python, React")
	assert.Contains(t, block, "- Engineer at Acme")
}

func TestCandidateBlock_FallbackUsesRawText(t *testing.T) {
	block := candidateBlock(types.CVProfile{RawText: "Jane Doe, Python, React"})

	assert.Contains(t, block, "Name: not provided")
	assert.Contains(t, block, "CV text excerpt:")
	assert.Contains(t, block, "Jane Doe, Python, React")
}

func TestCandidateBlock_NoCV(t *testing.T) {
	block := candidateBlock(types.CVProfile{})

	assert.Contains(t, block, "No CV on file")
}
