package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/veridianlabs/esg-intel/internal/domain/apperr"
	"github.com/veridianlabs/esg-intel/internal/middleware"
)

// errorEnvelope is the wire form of every error response.
type errorEnvelope struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
	Reason     string `json:"reason,omitempty"`
	UpgradeURL string `json:"upgrade_url,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// writeError maps an error onto the envelope, sets rate-limit headers
// when applicable, and logs internals with their correlation id.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	status := e.HTTPStatus()

	if e.Kind == apperr.KindRateLimited || e.Kind == apperr.KindBusy {
		retry := e.RetryAfter
		if retry < 1 {
			retry = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}
	if e.Kind == apperr.KindRateLimited {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(e.RateLimit))
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Duration(e.RetryAfter)*time.Second).Unix(), 10))
	}

	if status >= 500 {
		log.Printf("request_id=%s status=%d kind=%s err=%v",
			middleware.RequestIDFromContext(r.Context()), status, e.Kind, err)
	}

	msg := e.Message
	if e.Kind == apperr.KindInternal {
		// Never leak internals on 5xx; the correlation id is in the
		// X-Request-Id header.
		msg = "internal error"
	}
	_ = writeJSON(w, status, errorEnvelope{
		Error:      string(e.Kind),
		Message:    msg,
		RetryAfter: e.RetryAfter,
		Reason:     e.Reason,
		UpgradeURL: e.UpgradeURL,
	})
}
