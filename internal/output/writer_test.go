package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/types"
)

func sampleResult() *types.GenerationResult {
	return &types.GenerationResult{
		Company: &types.CompanyProfile{
			URL:     "https://acme.example",
			Title:   "Acme Robotics | Home",
			Summary: "Acme Robotics builds warehouse automation.",
		},
		CoverLetterShort:  "short letter body",
		CoverLetterMedium: "medium letter body",
		LinkedInMessage:   "linkedin message body",
	}
}

func readArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestWrite_Success(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)

	dir, err := w.Write(sampleResult(), "junior developer")
	require.NoError(t, err)

	assert.Equal(t, base, filepath.Dir(dir))
	assert.Contains(t, filepath.Base(dir), "_Acme_Robotics")

	assert.Equal(t, "short letter body", readArtifact(t, dir, FileCoverLetterShort))
	assert.Equal(t, "medium letter body", readArtifact(t, dir, FileCoverLetterMedium))
	assert.Equal(t, "linkedin message body", readArtifact(t, dir, FileLinkedInMessage))

	info := readArtifact(t, dir, FileCompanyInfo)
	assert.Contains(t, info, "Company: Acme Robotics\n")
	assert.Contains(t, info, "URL: https://acme.example\n")
	assert.Contains(t, info, "Description: Acme Robotics builds warehouse automation.\n")
	assert.Contains(t, info, "Position: junior developer\n")
	assert.Contains(t, info, "Generated: ")
}

func TestWrite_SameSecondGetsDistinctDirs(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	first, err := w.Write(sampleResult(), "junior developer")
	require.NoError(t, err)
	second, err := w.Write(sampleResult(), "junior developer")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, "20260314_150926_Acme_Robotics", filepath.Base(first))
	assert.Equal(t, "20260314_150926_Acme_Robotics-2", filepath.Base(second))

	// Both runs keep their full set of files.
	assert.FileExists(t, filepath.Join(first, FileLinkedInMessage))
	assert.FileExists(t, filepath.Join(second, FileLinkedInMessage))
}

func TestWrite_FailureRemovesPartialDir(t *testing.T) {
	base := t.TempDir()
	w := NewWriter(base)
	w.writeFile = func(name string, data []byte, perm os.FileMode) error {
		if strings.Contains(name, FileLinkedInMessage) {
			return errors.New("disk full")
		}
		return os.WriteFile(name, data, perm)
	}

	_, err := w.Write(sampleResult(), "junior developer")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Contains(t, ioErr.Path, FileLinkedInMessage)

	entries, readErr := os.ReadDir(base)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "partial run directory should have been removed")
}

func TestWrite_BaseDirNotCreatable(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	w := NewWriter(filepath.Join(blocker, "out"))
	_, err := w.Write(sampleResult(), "junior developer")

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestWrite_CompanyWithoutTitleUsesURL(t *testing.T) {
	w := NewWriter(t.TempDir())
	result := sampleResult()
	result.Company.Title = ""

	dir, err := w.Write(result, "junior developer")
	require.NoError(t, err)

	assert.Contains(t, filepath.Base(dir), "https_acme.example")
}

func TestNewWriter_DefaultBaseDir(t *testing.T) {
	assert.Equal(t, DefaultBaseDir, NewWriter("").BaseDir)
}

func TestSanitizeCompanyName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plainName", "Acme", "Acme"},
		{"spaces", "Acme Robotics GmbH", "Acme_Robotics_GmbH"},
		{"slashesAndColons", "we/build:stuff", "we_build_stuff"},
		{"nonASCIICollapsed", "Müller & Söhne", "M_ller_S_hne"},
		{"leadingTrailingJunk", "  Acme!  ", "Acme"},
		{"keepsSafePunctuation", "acme.example_v2-beta", "acme.example_v2-beta"},
		{"empty", "", "company"},
		{"onlyJunk", "///", "company"},
		{"longNameTruncated", strings.Repeat("a", 80), strings.Repeat("a", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeCompanyName(tt.input))
		})
	}
}
