// Package http serves the fintrack web UI: full pages, HTMX partials,
// chart datasets and exports.
//
// This file implements the builder for HTMX responses. Events travel in the
// HX-Trigger header; toasts are queued so one response can carry several.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"fintrack/internal/app"
)

// Client-side events.
const (
	EventNotification        = "show-notification"
	EventFormClose           = "form:close"
	EventTransactionsChanged = "transactions:changed"
	EventNavChanged          = "nav:changed"
)

// Toast durations in milliseconds.
const (
	successToastMs = 3000
	errorToastMs   = 5000
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
type HTMXResponseBuilder struct {
	triggers      map[string]any
	notifications []toast
	statusCode    int
	body          []byte
	headers       map[string]string
}

type toast struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Duration int    `json:"duration"`
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named event with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerTransactionsChanged tells every section to reload from the new snapshot.
func (b *HTMXResponseBuilder) TriggerTransactionsChanged(version uint64, count int) *HTMXResponseBuilder {
	return b.Trigger(EventTransactionsChanged, map[string]any{"version": version, "count": count})
}

// TriggerFormClose closes the create modal.
func (b *HTMXResponseBuilder) TriggerFormClose() *HTMXResponseBuilder {
	return b.Trigger(EventFormClose, struct{}{})
}

// TriggerNavChanged switches the visible section and page title.
func (b *HTMXResponseBuilder) TriggerNavChanged(section, title string) *HTMXResponseBuilder {
	return b.Trigger(EventNavChanged, map[string]string{"section": section, "title": title})
}

// TriggerNotification queues a toast; all queued toasts are shown in order.
func (b *HTMXResponseBuilder) TriggerNotification(level app.Level, message string) *HTMXResponseBuilder {
	duration := successToastMs
	if level == app.LevelError {
		duration = errorToastMs
	}
	b.notifications = append(b.notifications, toast{Type: string(level), Message: message, Duration: duration})
	return b
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(app.LevelSuccess, message)
}

func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.TriggerNotification(app.LevelError, message)
}

// Notify and CloseForm make the builder an app.Notifier for one request.
func (b *HTMXResponseBuilder) Notify(n app.Notification) {
	b.TriggerNotification(n.Level, n.Message)
}

func (b *HTMXResponseBuilder) CloseForm() {
	b.TriggerFormClose()
}

// Notifications returns the queued toasts, for JSON callers.
func (b *HTMXResponseBuilder) Notifications() []app.Notification {
	out := make([]app.Notification, len(b.notifications))
	for i, t := range b.notifications {
		out[i] = app.Notification{Level: app.Level(t.Type), Message: t.Message}
	}
	return out
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// BodyJSON encodes v as the response body.
func (b *HTMXResponseBuilder) BodyJSON(v any) *HTMXResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.statusCode = http.StatusInternalServerError
		data = []byte(`{"error":"encode response"}`)
	}
	b.headers["Content-Type"] = "application/json"
	b.body = data
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	triggers := b.triggers
	if len(b.notifications) > 0 {
		triggers = make(map[string]any, len(b.triggers)+1)
		for k, v := range b.triggers {
			triggers[k] = v
		}
		triggers[EventNotification] = map[string]any{"items": b.notifications}
	}
	if len(triggers) > 0 {
		if triggerJSON, err := json.Marshal(triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
