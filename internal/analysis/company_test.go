package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/llm"
)

type stubClient struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (s *stubClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.GenerateContent(ctx, prompt, tier)
}

func (s *stubClient) GetModel(llm.ModelTier) string { return "stub-model" }
func (s *stubClient) Close() error                  { return nil }

func TestSummarizeCompany_Success(t *testing.T) {
	client := &stubClient{response: "  Acme builds warehouse robots for logistics companies.  "}

	summary, err := SummarizeCompany(context.Background(), client, "page text about robots", "Acme Robotics")

	require.NoError(t, err)
	assert.Equal(t, "Acme builds warehouse robots for logistics companies.", summary)
	assert.Contains(t, client.lastPrompt, "Acme Robotics")
	assert.Contains(t, client.lastPrompt, "page text about robots")
	assert.Equal(t, 1, client.calls)
}

func TestSummarizeCompany_MissingTitle(t *testing.T) {
	client := &stubClient{response: "A company."}

	_, err := SummarizeCompany(context.Background(), client, "some text", "")

	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "(unknown)")
}

func TestSummarizeCompany_TruncatesLongText(t *testing.T) {
	client := &stubClient{response: "Summary."}
	longText := strings.Repeat("0", 10_000)

	_, err := SummarizeCompany(context.Background(), client, longText, "Acme")

	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, strings.Repeat("0", MaxCompanyTextChars))
	assert.NotContains(t, client.lastPrompt, strings.Repeat("0", MaxCompanyTextChars+1))
}

func TestSummarizeCompany_TruncationKeepsValidUTF8(t *testing.T) {
	client := &stubClient{response: "Summary."}
	longText := strings.Repeat("é", MaxCompanyTextChars+1000)

	_, err := SummarizeCompany(context.Background(), client, longText, "Acme")

	require.NoError(t, err)
	assert.True(t, utf8.ValidString(client.lastPrompt))
}

func TestSummarizeCompany_CallFailure(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}

	_, err := SummarizeCompany(context.Background(), client, "text", "Acme")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 1, client.calls, "summarization must not retry")
}

func TestSummarizeCompany_EmptyResponse(t *testing.T) {
	client := &stubClient{response: "   "}

	_, err := SummarizeCompany(context.Background(), client, "text", "Acme")

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "abc", truncateChars("abc", 10))
	assert.Equal(t, "ab", truncateChars("abcd", 2))
	assert.Equal(t, "éé", truncateChars("ééé", 2))
}
