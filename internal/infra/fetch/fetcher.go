package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/veridianlabs/esg-intel/internal/domain/analysis"
	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
)

const (
	// DefaultMaxBytes caps the response body at 10 MiB.
	DefaultMaxBytes = 10 << 20
	// DefaultTimeout bounds the whole fetch.
	DefaultTimeout = 15 * time.Second

	connectTimeout = 5 * time.Second
	maxRedirects   = 5
	maxTextChars   = 200_000
	userAgent      = "esg-intel/1.0 (+disclosure analysis)"
)

// Fetcher acquires and cleans disclosure content from a single URL.
type Fetcher struct {
	MaxBytes int64
	Timeout  time.Duration

	client *http.Client
}

// New builds a fetcher whose transport validates every dialed address
// against the SSRF guard, including after redirects.
func New(maxBytes int64, timeout time.Duration) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host)
			if err != nil {
				return nil, err
			}
			if err := checkResolved(ips); err != nil {
				return nil, err
			}
			// Dial the vetted address, not the hostname, so the check
			// can't be raced by a second resolution.
			return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
		},
		MaxIdleConns:    10,
		IdleConnTimeout: 30 * time.Second,
	}

	f := &Fetcher{MaxBytes: maxBytes, Timeout: timeout}
	f.client = &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			// Each hop re-runs the pre-resolution guard.
			return ValidateURL(req.URL.String())
		},
	}
	return f
}

// Fetch downloads the URL, enforces the size cap, and extracts cleaned
// text according to the content type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (analysis.Fetched, error) {
	if err := ValidateURL(rawURL); err != nil {
		return analysis.Fetched{}, apperr.Fetch(apperr.ReasonDisallowed, "%v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return analysis.Fetched{}, apperr.Fetch(apperr.ReasonDisallowed, "invalid URL: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, application/pdf, text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return analysis.Fetched{}, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return analysis.Fetched{}, apperr.Fetch(apperr.ReasonUpstream5xx, "upstream returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return analysis.Fetched{}, apperr.Fetch(apperr.ReasonUpstream4xx, "upstream returned %d", resp.StatusCode)
	}

	// Read one byte past the cap to tell "exactly at the limit" from
	// "over it".
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return analysis.Fetched{}, classifyTransportErr(err)
	}
	if int64(len(body)) > f.MaxBytes {
		return analysis.Fetched{}, apperr.Fetch(apperr.ReasonTooLarge, "response body exceeds %d bytes", f.MaxBytes)
	}

	kind := classifyContent(resp.Header.Get("Content-Type"), body)
	var text string
	switch kind {
	case "html":
		text = ExtractHTML(body)
		if strings.TrimSpace(text) == "" {
			return analysis.Fetched{}, apperr.Parse("HTML document empty after cleaning")
		}
	case "pdf":
		text, err = ExtractPDF(body)
		if err != nil {
			return analysis.Fetched{}, apperr.Parse("PDF unreadable: %v", err)
		}
	default:
		text = string(body)
	}

	return analysis.Fetched{
		Text:     CleanText(text),
		MIME:     kind,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

func classifyTransportErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Fetch(apperr.ReasonTimeout, "fetch timed out")
	case strings.Contains(err.Error(), "not publicly routable"),
		strings.Contains(err.Error(), "not allowed"),
		strings.Contains(err.Error(), "disallowed scheme"):
		return apperr.Fetch(apperr.ReasonDisallowed, "%v", err)
	default:
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return apperr.Fetch(apperr.ReasonTimeout, "fetch timed out")
		}
		return apperr.Fetch(apperr.ReasonUpstream5xx, "fetch failed: %v", err)
	}
}

// classifyContent prefers the declared content type and falls back to
// sniffing the body.
func classifyContent(contentType string, body []byte) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch {
		case mt == "text/html" || mt == "application/xhtml+xml":
			return "html"
		case mt == "application/pdf":
			return "pdf"
		case strings.HasPrefix(mt, "text/"):
			return "text"
		}
	}
	if len(body) > 4 && string(body[:5]) == "%PDF-" {
		return "pdf"
	}
	sniffed := http.DetectContentType(body)
	if strings.HasPrefix(sniffed, "text/html") {
		return "html"
	}
	return "text"
}

// CleanText normalizes whitespace, strips control characters, and caps
// the result at the analysis text budget.
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastNL := false
	lastSpace := false
	for _, r := range s {
		switch {
		case r == '\n' || r == '\f':
			if !lastNL {
				b.WriteByte('\n')
			}
			lastNL = true
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\r' || r == '\u00a0':
			if !lastSpace && !lastNL {
				b.WriteByte(' ')
			}
			lastSpace = true
		case r < 0x20 || r == 0x7f:
			// drop control characters
		default:
			b.WriteRune(r)
			lastNL = false
			lastSpace = false
		}
	}
	out := strings.TrimSpace(b.String())
	if len(out) > maxTextChars {
		out = out[:maxTextChars]
	}
	return out
}
