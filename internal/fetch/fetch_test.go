package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Robotics | Home</title>
<script>window.analytics = true;</script>
<style>body { color: red; }</style>
</head>
<body>
<nav>Home About Careers</nav>
<main>
<h1>Acme Robotics</h1>
<p>We build warehouse automation robots for logistics companies.</p>
</main>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestCompany_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(companyHTML))
	}))
	defer server.Close()

	page, err := Company(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics | Home", page.Title)
	assert.Contains(t, page.Text, "warehouse automation robots")
	assert.Equal(t, "http", page.Scheme)
	assert.Equal(t, server.URL, page.URL)
}

func TestCompany_StripsScriptsAndChrome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(companyHTML))
	}))
	defer server.Close()

	page, err := Company(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.NotContains(t, page.Text, "analytics")
	assert.NotContains(t, page.Text, "color: red")
	assert.NotContains(t, page.Text, "Copyright")
	assert.NotContains(t, page.Text, "Careers")
}

func TestCompany_SchemelessFallsBackToHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(companyHTML))
	}))
	defer server.Close()

	// The test server only speaks plain HTTP, so the initial https attempt
	// fails at the TLS handshake and the fallback must kick in.
	hostPort := strings.TrimPrefix(server.URL, "http://")
	page, err := Company(context.Background(), hostPort, nil)

	require.NoError(t, err)
	assert.Equal(t, "http", page.Scheme)
	assert.Contains(t, page.Text, "Acme Robotics")
}

func TestCompany_ExplicitSchemeNoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(companyHTML))
	}))
	hostPort := strings.TrimPrefix(server.URL, "http://")
	server.Close()

	_, err := Company(context.Background(), "https://"+hostPort, nil)

	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
}

func TestCompany_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer server.Close()

	_, err := Company(context.Background(), server.URL, nil)

	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, http.StatusNotFound, unreachable.StatusCode)
}

func TestCompany_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Timeout = 50 * time.Millisecond

	_, err := Company(context.Background(), server.URL, opts)

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 50*time.Millisecond, timeout.Timeout)
}

func TestCompany_ConnectionRefused(t *testing.T) {
	// Port 1 is reserved and virtually never listening.
	_, err := Company(context.Background(), "http://127.0.0.1:1", nil)

	var unreachable *UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Zero(t, unreachable.StatusCode)
}

func TestCompany_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "://missing-scheme", "ftp://example.com", "https://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Company(context.Background(), raw, nil)

			var invalid *InvalidURLError
			require.ErrorAs(t, err, &invalid, "input %q", raw)
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"schemeless", "example.com", "https://example.com", false},
		{"schemeless with path", "example.com/about", "https://example.com/about", false},
		{"http preserved", "http://example.com", "http://example.com", false},
		{"https preserved", "https://example.com", "https://example.com", false},
		{"surrounding space", "  example.com  ", "https://example.com", false},
		{"empty", "", "", true},
		{"scheme only", "https://", "", true},
		{"unsupported scheme", "ftp://example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				var invalid *InvalidURLError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPage(t *testing.T) {
	title, text, err := ExtractPage(companyHTML)

	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics | Home", title)
	assert.Contains(t, text, "Acme Robotics")
	assert.Contains(t, text, "warehouse automation")
	assert.NotContains(t, text, "analytics")
}

func TestExtractPage_FallsBackToBody(t *testing.T) {
	html := `<html><head><title>Plain</title></head><body><p>Just a paragraph.</p></body></html>`

	title, text, err := ExtractPage(html)

	require.NoError(t, err)
	assert.Equal(t, "Plain", title)
	assert.Equal(t, "Just a paragraph.", text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser("   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("content ", 100)))
}

func TestCleanWhitespace(t *testing.T) {
	input := "  Line one  \n\n\n   Line   two\t\tend  \n"
	assert.Equal(t, "Line one\nLine two end", cleanWhitespace(input))
}
