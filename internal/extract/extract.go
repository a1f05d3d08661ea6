// Package extract converts uploaded CV files into plain text. PDF and DOCX
// conversion is delegated to docconv; plain text is validated and normalized
// in place.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
)

// Format identifies a supported CV file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UnsupportedFormatError indicates a declared format outside the supported set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported CV format %q (supported: pdf, docx, txt)", e.Format)
}

// ExtractionError indicates that a supported format could not be converted
// to text, or yielded no text at all.
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// FormatFromFilename maps a file name to a Format by extension.
// The extension check is case-insensitive.
func FormatFromFilename(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".text":
		return FormatText, nil
	default:
		return "", &UnsupportedFormatError{Format: strings.TrimPrefix(ext, ".")}
	}
}

// Text extracts plain text from raw file content in the declared format.
// The declared format is trusted for dispatch, but plain text content is
// checked for binary payloads smuggled in under a .txt name.
func Text(data []byte, format Format) (string, error) {
	switch format {
	case FormatPDF:
		return convert(data, format, mimePDF)
	case FormatDOCX:
		return convert(data, format, mimeDOCX)
	case FormatText:
		return plainText(data)
	default:
		return "", &UnsupportedFormatError{Format: string(format)}
	}
}

func convert(data []byte, format Format, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, true)
	if err != nil {
		return "", &ExtractionError{Format: format, Message: "conversion failed", Cause: err}
	}

	text := normalizeWhitespace(res.Body)
	if text == "" {
		return "", &ExtractionError{Format: format, Message: "document contains no extractable text"}
	}
	return text, nil
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &ExtractionError{Format: FormatText, Message: "content is not valid UTF-8 text"}
	}
	if isBinary(data) {
		return "", &ExtractionError{Format: FormatText, Message: "content appears to be a binary file"}
	}

	text := normalizeWhitespace(string(data))
	if text == "" {
		return "", &ExtractionError{Format: FormatText, Message: "file is empty"}
	}
	return text, nil
}

// isBinary catches binary files uploaded under a text extension. PDF and ZIP
// magic numbers cover the common cases (a .docx is a ZIP archive); a NUL byte
// anywhere rules out plain text.
func isBinary(data []byte) bool {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return true
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// normalizeWhitespace normalizes line endings, collapses runs of spaces and
// tabs, and limits consecutive blank lines so downstream prompts stay compact.
func normalizeWhitespace(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}

	result := strings.Join(lines, "\n")
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
