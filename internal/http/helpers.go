package http

import (
	"context"
	"net/http"
	"strings"

	"fintrack/internal/app"
)

// HeaderConfirmed carries the user's answer to the delete prompt.
// The UI sets it together with hx-confirm.
const HeaderConfirmed = "X-Confirmed"

// headerConfirmer answers the delete prompt from the request.
type headerConfirmer struct {
	r *http.Request
}

func (c headerConfirmer) Confirm(_ context.Context, _ string) bool {
	v := strings.ToLower(strings.TrimSpace(c.r.Header.Get(HeaderConfirmed)))
	return v == "true" || v == "1" || v == "yes"
}

var _ app.Confirmer = headerConfirmer{}

// wantsJSON reports whether the caller asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// sanitizeInput removes control characters (except tab and newlines) and trims whitespace.
func sanitizeInput(s string) string {
	return stripControl(strings.TrimSpace(s))
}

// searchTerm cleans a wallet query without trimming it; spaces are part of
// the substring the user typed.
func searchTerm(r *http.Request) string {
	return stripControl(r.URL.Query().Get("q"))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
