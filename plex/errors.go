package plex

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid plex configuration")

	// ErrMissingEnvelope is returned when a body has no MediaContainer field
	ErrMissingEnvelope = errors.New("missing MediaContainer field")
	// ErrNoVariant is returned when no Directory shape matches an object
	ErrNoVariant = errors.New("no variant matches")
	// ErrMissingTag is returned when a Metadatum has no type field
	ErrMissingTag = errors.New("missing type field")
	// ErrUnknownTag is returned when a Metadatum type is not recognised
	ErrUnknownTag = errors.New("unknown type")
	// ErrMissingFields is returned when required fields are absent
	ErrMissingFields = errors.New("missing required fields")
	// ErrUnknownValue is returned when an enumeration value is not recognised
	ErrUnknownValue = errors.New("unknown value")

	errNotObject = errors.New("not a JSON object")
)

// TransportError wraps a failure to build, send or read a request
type TransportError struct {
	Op  string
	URL string
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("plex: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError represents a non-2xx response from the server
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("plex API error: status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound checks if the error indicates a not found response
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// DecodeError describes a response body that does not match the expected
// records. Family names the record family (MediaContainer, Directory,
// Metadatum, Media, Part, DirectoryType, ViewGroup or a payload type),
// Value holds an offending discriminant or enumeration value and Fields
// lists the fields present (no shape matched) or missing (required fields).
type DecodeError struct {
	Family string
	Value  string
	Fields []string
	Err    error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("plex: decode ")
	sb.WriteString(e.Family)
	if e.Value != "" {
		fmt.Fprintf(&sb, " %q", e.Value)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&sb, " (fields: %s)", strings.Join(e.Fields, ", "))
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
