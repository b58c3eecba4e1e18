package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/camuig/trade-journal/internal/journal"
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	Message    string
	Details    []journal.FieldError
}

func (e *Error) Error() string {
	if e.StatusCode == http.StatusBadRequest && len(e.Details) > 0 {
		return (&journal.ValidationError{Fields: e.Details}).Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type errorBody struct {
	Error   string               `json:"error"`
	Message string               `json:"message"`
	Details []journal.FieldError `json:"details"`
}

func decodeError(status int, data []byte) error {
	e := &Error{StatusCode: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		e.Message = body.Error
		if e.Message == "" {
			e.Message = body.Message
		}
		e.Details = body.Details
	}
	return e
}

// StatusCode extracts the HTTP status from err, or 0 if err did not come
// from a backend response.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
