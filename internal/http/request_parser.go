// This file parses and validates request data: the create form (or its
// JSON equivalent), path ids and method guards.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

const maxBodyBytes = 64 << 10

// RequestBodyParser handles JSON and form-encoded bodies alike.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, up to maxBodyBytes.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like JSON, else as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}
	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	return p.err
}

// Get returns a sanitized value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FieldErrors maps form field names to a validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, k := range []string{"description", "amount", "type", "category", "date"} {
		if msg, ok := fe[k]; ok {
			parts = append(parts, k+": "+msg)
		}
	}
	return "invalid transaction: " + strings.Join(parts, "; ")
}

// ParseNewTransaction builds the create payload, enforcing the same rules
// as the form inputs: required description, positive amount, known type,
// ISO date. Category is optional.
func ParseNewTransaction(p *RequestBodyParser) (core.NewTransaction, error) {
	if err := p.Parse(); err != nil {
		return core.NewTransaction{}, fmt.Errorf("parse body: %w", err)
	}

	var n core.NewTransaction
	errs := FieldErrors{}

	n.Description = p.Get("description")
	switch {
	case n.Description == "":
		errs["description"] = "required"
	case len(n.Description) > 200:
		errs["description"] = "too long (max 200 characters)"
	}

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		errs["amount"] = "must be a positive number"
	}
	n.Amount = amount

	typ, err := core.ParseTransactionType(p.Get("type"))
	if err != nil {
		errs["type"] = "must be INCOME or EXPENSE"
	}
	n.Type = typ

	n.Category = p.Get("category")
	if len(n.Category) > 100 {
		errs["category"] = "too long (max 100 characters)"
	}

	date, err := core.ParseDate(p.Get("date"))
	if err != nil {
		errs["date"] = "must be a date (YYYY-MM-DD)"
	}
	n.Date = date

	if len(errs) > 0 {
		return core.NewTransaction{}, errs
	}
	return n, nil
}

var errInvalidID = errors.New("invalid transaction id")

// ParseID reads a positive transaction id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidID, s)
	}
	return id, nil
}

// RequireMethod returns an error response unless r uses one of methods.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}
