package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized matches any *Error carrying a 401 status
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the backend.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string              // "detail" field of the body, when present
	Fields     map[string][]string // per-field validation messages, e.g. {"username": [...]}
	Body       []byte
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			names = append(names, k)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, k := range names {
			parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// HasField reports whether the backend rejected the named field
func (e *Error) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

// StatusCode returns the HTTP status of err if it is an *Error, otherwise 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// newError builds an Error from a response body. DRF bodies are either
// {"detail": "..."} or {"field": ["msg", ...], ...}.
func newError(req *http.Request, statusCode int, body []byte) *Error {
	e := &Error{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: statusCode,
		Body:       body,
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return e
	}

	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if k == "detail" {
				e.Detail = s
				continue
			}
			addField(e, k, s)
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			for _, s := range list {
				addField(e, k, s)
			}
		}
	}
	return e
}

func addField(e *Error, name, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = append(e.Fields[name], msg)
}
