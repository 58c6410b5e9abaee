package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
)

func TestFetchRejectsDisallowedURL(t *testing.T) {
	f := New(0, 0)

	for _, u := range []string{
		"http://127.0.0.1/x",
		"ftp://example.com/x",
		"http://localhost:6379/",
	} {
		_, err := f.Fetch(context.Background(), u)
		if err == nil {
			t.Errorf("Fetch(%q) should fail", u)
			continue
		}
		var e *apperr.Error
		if !errors.As(err, &e) {
			t.Errorf("Fetch(%q): untyped error %v", u, err)
			continue
		}
		if e.Kind != apperr.KindAcquisition || e.Reason != apperr.ReasonDisallowed {
			t.Errorf("Fetch(%q): kind=%s reason=%s, want fetch_failed/disallowed", u, e.Kind, e.Reason)
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a\x00b\x07c", "abc"},
		{"line one\n\n\nline two", "line one\nline two"},
		{"wide   spacing\t\there", "wide spacing here"},
		{"  trimmed  ", "trimmed"},
	}
	for _, tc := range cases {
		if got := CleanText(tc.in); got != tc.want {
			t.Errorf("CleanText(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanTextCapsLength(t *testing.T) {
	long := strings.Repeat("x", maxTextChars+500)
	if got := CleanText(long); len(got) != maxTextChars {
		t.Errorf("len=%d, want %d", len(got), maxTextChars)
	}
}

func TestClassifyContent(t *testing.T) {
	cases := []struct {
		contentType string
		body        string
		want        string
	}{
		{"text/html; charset=utf-8", "<html></html>", "html"},
		{"application/pdf", "%PDF-1.7 ...", "pdf"},
		{"text/plain", "plain words", "text"},
		{"", "%PDF-1.4 binary", "pdf"},
		{"", "<!DOCTYPE html><html><body>hi</body></html>", "html"},
		{"application/octet-stream", "just words here", "text"},
	}
	for _, tc := range cases {
		if got := classifyContent(tc.contentType, []byte(tc.body)); got != tc.want {
			t.Errorf("classifyContent(%q, %q)=%q, want %q", tc.contentType, tc.body, got, tc.want)
		}
	}
}

func TestExtractHTML(t *testing.T) {
	page := `<html><head><style>.x{}</style><script>alert(1)</script></head>
<body>
<nav>Home | About</nav>
<header>Site header</header>
<main>
 <h1>Sustainability Report</h1>
 <p>We reduced emissions by 35% this year.</p>
 <p>Board diversity reached 40%.</p>
</main>
<footer>Copyright</footer>
</body></html>`

	text := ExtractHTML([]byte(page))
	if !strings.Contains(text, "reduced emissions by 35%") {
		t.Errorf("main content missing: %q", text)
	}
	if !strings.Contains(text, "Board diversity reached 40%") {
		t.Errorf("second paragraph missing: %q", text)
	}
	for _, boiler := range []string{"alert(1)", "Home | About", "Site header", "Copyright", ".x{}"} {
		if strings.Contains(text, boiler) {
			t.Errorf("boilerplate leaked: %q", boiler)
		}
	}
	// paragraph break preserved
	if !strings.Contains(text, "\n") {
		t.Error("paragraph breaks lost")
	}
}

func TestExtractHTMLNoMainElement(t *testing.T) {
	page := `<html><body><div><p>Loose content without landmarks.</p></div></body></html>`
	text := ExtractHTML([]byte(page))
	if !strings.Contains(text, "Loose content") {
		t.Errorf("fallback extraction failed: %q", text)
	}
}
