// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Bodies may be JSON objects or form-encoded; both are read through the same
// RequestBodyParser so handlers do not care which one the client sent.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"smartfinance/internal/core"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// Field validation messages.
const (
	msgCategoryRequired = "Category is required"
	msgAmountRequired   = "Amount is required"
	msgAmountInvalid    = "Amount must be a non-negative number"
	msgDateInvalid      = "Date must be in YYYY-MM-DD format"
	msgDescriptionLong  = "Description must be at most 200 characters"
)

// fieldErrors maps a request field to a user-facing message.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.Contains(p.contentType, "application/json") {
		// Numbers keep their literal digits so amounts are parsed exactly.
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]interface{})
		err := dec.Decode(&p.jsonData)
		if err == nil && dec.More() {
			err = errors.New("unexpected data after JSON object")
		}
		if err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Has reports whether key was sent with a non-null value.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		return ok && v != nil
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// Raw returns the value for key exactly as sent, without trimming or
// sanitising. Secrets are read this way.
func (p *RequestBodyParser) Raw(key string) string {
	if p.jsonData != nil {
		return stringValue(p.jsonData[key])
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// Fields returns every submitted field. Form values are reduced to their
// first value.
func (p *RequestBodyParser) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	if p.jsonData != nil {
		for k, v := range p.jsonData {
			out[k] = v
		}
		return out
	}
	for k := range p.formData {
		out[k] = p.formData.Get(k)
	}
	return out
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseBody reads and parses the request body, answering 400 itself when the
// body is malformed. It returns nil in that case.
func parseBody(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body")
		return nil
	}
	return p
}

// ParseTransactionInput reads category, amount, description and date. An
// empty date means today. Registry membership is checked later by the
// application.
func ParseTransactionInput(p *RequestBodyParser, today core.Date) (core.TransactionInput, error) {
	errs := fieldErrors{}
	in := core.TransactionInput{
		Category:    p.Get("category"),
		Description: p.Get("description"),
		Date:        today,
	}

	if in.Category == "" {
		errs["category"] = msgCategoryRequired
	}

	raw := p.Get("amount")
	if raw == "" {
		errs["amount"] = msgAmountRequired
	} else if amount, err := core.ParseAmount(raw); err != nil {
		errs["amount"] = msgAmountInvalid
	} else {
		in.Amount = amount
	}

	if s := p.Get("date"); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			errs["date"] = msgDateInvalid
		} else {
			in.Date = d
		}
	}

	if utf8.RuneCountInString(in.Description) > 200 {
		errs["description"] = msgDescriptionLong
	}

	if len(errs) > 0 {
		return core.TransactionInput{}, errs
	}
	return in, nil
}

// ParseAmountField reads a required non-negative amount under key.
func ParseAmountField(p *RequestBodyParser, key string) (core.Amount, error) {
	raw := p.Get(key)
	if raw == "" {
		return core.Amount{}, fieldErrors{key: msgAmountRequired}
	}
	a, err := core.ParseAmount(raw)
	if err != nil {
		return core.Amount{}, fieldErrors{key: msgAmountInvalid}
	}
	return a, nil
}

// ParseWeddingGoal reads budget and date. Fields left out keep the values
// from current.
func ParseWeddingGoal(p *RequestBodyParser, current core.WeddingGoal) (core.WeddingGoal, error) {
	goal := current
	errs := fieldErrors{}

	if p.Has("budget") {
		a, err := ParseAmountField(p, "budget")
		var fe fieldErrors
		if errors.As(err, &fe) {
			for k, v := range fe {
				errs[k] = v
			}
		} else {
			goal.Budget = a
		}
	}
	if p.Has("date") {
		d, err := core.ParseDate(p.Get("date"))
		if err != nil {
			errs["date"] = msgDateInvalid
		} else {
			goal.Date = d
		}
	}

	if len(errs) > 0 {
		return core.WeddingGoal{}, errs
	}
	return goal, nil
}

// sanitizeInput removes control characters other than tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
