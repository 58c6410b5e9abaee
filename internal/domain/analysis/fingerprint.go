package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/veridianlabs/esg-intel/internal/domain/catalog"
)

// FingerprintURL derives the cache fingerprint of a URL-sourced request:
// SHA-256 over the canonicalized URL, the analysis kind, the sorted
// framework set, and the industry sector.
func FingerprintURL(rawURL string, kind Kind, frameworks []catalog.Framework, industry string) string {
	return digest(canonicalURL(rawURL), kind, frameworks, industry)
}

// FingerprintText derives the fingerprint of an inline-text request.
// The text is hashed first so the outer digest stays bounded.
func FingerprintText(text string, kind Kind, frameworks []catalog.Framework, industry string) string {
	inner := sha256.Sum256([]byte(text))
	return digest(hex.EncodeToString(inner[:]), kind, frameworks, industry)
}

func digest(source string, kind Kind, frameworks []catalog.Framework, industry string) string {
	fws := make([]string, len(frameworks))
	for i, fw := range frameworks {
		fws[i] = string(fw)
	}
	sort.Strings(fws)

	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte{'|'})
	h.Write([]byte(kind))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(fws, ",")))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(industry))))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalURL lowercases scheme and host, drops default ports and
// fragments, and trims trailing slashes so equivalent URLs share a
// fingerprint.
func canonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndexByte(u.Host, ':')]
	}
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
