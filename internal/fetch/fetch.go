// Package fetch retrieves a company's web page and reduces it to the visible
// text used for summarization. URLs may arrive without a scheme; https is
// tried first with a single http fallback when the https connection fails.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a whole fetch, including the http fallback attempt.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ApplyAgent/1.0)"

// Page holds the visible text and metadata of a fetched company page.
type Page struct {
	URL    string // final URL, including the scheme that worked
	Scheme string
	Title  string
	Text   string
}

// InvalidURLError indicates the requested URL cannot be turned into a
// fetchable http(s) URL at all. No network call is made.
type InvalidURLError struct {
	URL     string
	Message string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid company URL %q: %s", e.URL, e.Message)
}

// UnreachableError indicates the page could not be retrieved: connection
// failures on every attempt, or a non-success HTTP status.
type UnreachableError struct {
	URL        string
	StatusCode int // non-zero when the server responded with a non-success status
	Cause      error
}

func (e *UnreachableError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("company page %s unreachable: HTTP status %d", e.URL, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("company page %s unreachable: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("company page %s unreachable", e.URL)
	}
}

func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates the fetch exceeded its wall-clock bound.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("fetching %s exceeded %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// UseBrowser enables a headless-browser retry when the plain fetch
	// yields too little text, for JavaScript-rendered sites.
	UseBrowser bool
	Verbose    bool
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// NormalizeURL validates rawURL and prepends https:// when the scheme is
// missing. Returns an *InvalidURLError when the input cannot be fetched.
func NormalizeURL(rawURL string) (string, error) {
	normalized, _, err := normalizeURL(rawURL)
	return normalized, err
}

func normalizeURL(rawURL string) (normalized string, prepended bool, err error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", false, &InvalidURLError{URL: rawURL, Message: "URL is empty"}
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
		prepended = true
	}

	parsed, parseErr := url.Parse(trimmed)
	if parseErr != nil {
		return "", false, &InvalidURLError{URL: rawURL, Message: "not a parseable URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false, &InvalidURLError{URL: rawURL, Message: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return "", false, &InvalidURLError{URL: rawURL, Message: "missing host"}
	}

	return parsed.String(), prepended, nil
}

// Company fetches the page at rawURL and returns its visible text and title.
// A URL without a scheme is tried as https first; if that attempt fails at
// the connection level, it is retried once over plain http. The whole fetch,
// fallback included, is bounded by Options.Timeout.
func Company(ctx context.Context, rawURL string, opts *Options) (*Page, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	normalized, prepended, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := fetchOnce(ctx, normalized, opts)
	if err != nil && prepended && isConnectionError(err) {
		httpURL := "http://" + strings.TrimPrefix(normalized, "https://")
		var retryErr error
		if page, retryErr = fetchOnce(ctx, httpURL, opts); retryErr != nil {
			err = retryErr
		} else {
			err = nil
		}
	}
	if err != nil {
		return nil, classify(normalized, timeout, err)
	}

	if opts.UseBrowser && ShouldUseBrowser(page.Text) {
		renderBrowser(ctx, page, opts)
	}

	return page, nil
}

func fetchOnce(ctx context.Context, urlStr string, opts *Options) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	title, text, err := ExtractPage(string(body))
	if err != nil {
		return nil, err
	}

	parsed, _ := url.Parse(urlStr)
	return &Page{
		URL:    urlStr,
		Scheme: parsed.Scheme,
		Title:  title,
		Text:   text,
	}, nil
}

// renderBrowser re-fetches the page through a headless browser and keeps the
// result when it yields more text. Rendering failures fall back silently to
// the plain fetch result.
func renderBrowser(ctx context.Context, page *Page, opts *Options) {
	html, err := WithBrowser(ctx, page.URL, opts.Verbose)
	if err != nil {
		return
	}
	title, text, err := ExtractPage(html)
	if err != nil || len(text) <= len(page.Text) {
		return
	}
	page.Text = text
	if title != "" {
		page.Title = title
	}
}

// statusError is an internal marker for non-success HTTP responses, so the
// fallback logic can tell them apart from connection failures.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP status %d", e.code)
}

func classify(urlStr string, timeout time.Duration, err error) error {
	var status *statusError
	if errors.As(err, &status) {
		return &UnreachableError{URL: urlStr, StatusCode: status.code}
	}
	if isTimeout(err) {
		return &TimeoutError{URL: urlStr, Timeout: timeout, Cause: err}
	}
	return &UnreachableError{URL: urlStr, Cause: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectionError reports whether err is a connection-level failure. A
// non-success status means the connection worked; a timeout means the
// wall-clock bound is spent and a retry would be pointless.
func isConnectionError(err error) bool {
	var status *statusError
	if errors.As(err, &status) {
		return false
	}
	return !isTimeout(err)
}

// noiseSelector matches elements that never contribute visible page content.
const noiseSelector = "nav, footer, header, script, style, noscript, iframe, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// companySelectors locate the main content of typical company pages, in
// preference order. The document body is the fallback.
var companySelectors = []string{
	"main",
	"article",
	".about-content",
	".main-content",
	"#main-content",
	".content",
	"#content",
}

// ExtractPage parses HTML and returns the page title plus the visible text of
// its main content. Scripts, styles, and navigation chrome are excluded.
func ExtractPage(html string) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(noiseSelector).Remove()

	var mainContent *goquery.Selection
	for _, selector := range companySelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return title, cleanWhitespace(mainContent.Text()), nil
}

var innerSpace = regexp.MustCompile(`[ \t]+`)

// cleanWhitespace collapses runs of whitespace and drops blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
