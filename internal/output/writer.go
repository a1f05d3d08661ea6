// Package output persists the artifacts of one generation run to a
// timestamped directory on the local filesystem.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/apply-agent/internal/types"
)

// DefaultBaseDir is where run directories are created.
const DefaultBaseDir = "output"

// Artifact file names within a run directory.
const (
	FileCompanyInfo       = "company_info.txt"
	FileCoverLetterShort  = "cover_letter_short.txt"
	FileCoverLetterMedium = "cover_letter_medium.txt"
	FileLinkedInMessage   = "linkedin_message.txt"
)

// maxDirAttempts bounds the suffix search for a free directory name when
// several runs for the same company land in the same second.
const maxDirAttempts = 100

// IOError represents a filesystem failure while persisting artifacts.
// It is fatal for the request; no partial output is left behind.
type IOError struct {
	Path    string
	Message string
	Cause   error
}

func (e *IOError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("output error at %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("output error at %s: %s", e.Path, e.Message)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// Writer persists generation runs under BaseDir. The zero value writes to
// DefaultBaseDir using the real clock and filesystem.
type Writer struct {
	BaseDir string

	// Overridable for tests.
	now       func() time.Time
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// NewWriter returns a Writer rooted at baseDir, or DefaultBaseDir when empty.
func NewWriter(baseDir string) *Writer {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return &Writer{BaseDir: baseDir}
}

// Write creates <base>/<timestamp>_<sanitized company>/ and writes the four
// artifact files into it. On any write failure the partially created
// directory is removed and an *IOError is returned; no partial run output is
// ever left behind.
func (w *Writer) Write(result *types.GenerationResult, position string) (string, error) {
	dir, err := w.createRunDir(result.Company.DisplayName())
	if err != nil {
		return "", err
	}

	files := []struct {
		name    string
		content string
	}{
		{FileCompanyInfo, w.companyInfo(result.Company, position)},
		{FileCoverLetterShort, result.CoverLetterShort},
		{FileCoverLetterMedium, result.CoverLetterMedium},
		{FileLinkedInMessage, result.LinkedInMessage},
	}

	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := w.write(path, []byte(file.content)); err != nil {
			_ = os.RemoveAll(dir)
			return "", &IOError{Path: path, Message: "failed to write artifact", Cause: err}
		}
	}

	return dir, nil
}

// createRunDir picks a unique directory name. os.Mkdir is exclusive, so two
// runs in the same second for the same company cannot share a directory; the
// loser of the race gets a numeric suffix.
func (w *Writer) createRunDir(company string) (string, error) {
	base := w.BaseDir
	if base == "" {
		base = DefaultBaseDir
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", &IOError{Path: base, Message: "failed to create output directory", Cause: err}
	}

	name := fmt.Sprintf("%s_%s", w.timeNow().Format("20060102_150405"), sanitizeCompanyName(company))
	for i := 1; i <= maxDirAttempts; i++ {
		candidate := name
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", name, i)
		}
		dir := filepath.Join(base, candidate)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !os.IsExist(err) {
			return "", &IOError{Path: dir, Message: "failed to create run directory", Cause: err}
		}
	}

	return "", &IOError{Path: base, Message: "no free run directory name"}
}

func (w *Writer) companyInfo(company *types.CompanyProfile, position string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", company.DisplayName())
	fmt.Fprintf(&b, "URL: %s\n", company.URL)
	fmt.Fprintf(&b, "Description: %s\n", company.Summary)
	fmt.Fprintf(&b, "Position: %s\n", position)
	fmt.Fprintf(&b, "Generated: %s\n", w.timeNow().Format("2006-01-02 15:04:05"))
	return b.String()
}

func (w *Writer) timeNow() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}

func (w *Writer) write(name string, data []byte) error {
	if w.writeFile != nil {
		return w.writeFile(name, data, 0o644)
	}
	return os.WriteFile(name, data, 0o644)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// maxCompanyNameLen keeps directory names well under filesystem limits.
const maxCompanyNameLen = 60

// sanitizeCompanyName reduces a company name to filesystem-safe characters.
func sanitizeCompanyName(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if len(name) > maxCompanyNameLen {
		name = strings.Trim(name[:maxCompanyNameLen], "_")
	}
	if name == "" {
		return "company"
	}
	return name
}
