package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedInput aborts a load: a source row could not be parsed.
	ErrMalformedInput = errors.New("malformed input")
	// ErrDuplicateKey aborts a join: a CRM lead_id appears more than once.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrEmptySelection is returned when a filter receives no channel.
	ErrEmptySelection = errors.New("empty channel selection")
	// ErrUndefinedMetric marks a ratio with a zero denominator that has no
	// meaningful value (e.g. CPL without conversions).
	ErrUndefinedMetric = errors.New("undefined metric")
)

// Malformed wraps ErrMalformedInput with the table and row that failed.
func Malformed(table string, row int, format string, args ...any) error {
	return fmt.Errorf("%w: %s row %d: %s", ErrMalformedInput, table, row, fmt.Sprintf(format, args...))
}

// DuplicateKeyError reports the lead_id that matched more than one CRM row.
type DuplicateKeyError struct {
	LeadID int
	Count  int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: crm lead_id %d appears %d times", ErrDuplicateKey, e.LeadID, e.Count)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// Error is the envelope returned to API callers.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// JSON returns the envelope as a JSON string.
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// From maps any pipeline error onto an envelope with a matching HTTP status.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(Status(err), err.Error(), err)
}

// Status maps pipeline errors to HTTP status codes.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptySelection):
		return http.StatusBadRequest
	case errors.Is(err, ErrMalformedInput), errors.Is(err, ErrDuplicateKey):
		return http.StatusInternalServerError
	default:
		var appErr *Error
		if errors.As(err, &appErr) {
			return appErr.Code
		}
		return http.StatusInternalServerError
	}
}
