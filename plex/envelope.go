package plex

import (
	"encoding/json"
	"errors"
	"fmt"
)

const envelopeField = "MediaContainer"

// Envelope is the MediaContainer object every response body is wrapped in.
type Envelope[T any] struct {
	Payload T `json:"MediaContainer"`
}

// Wrap builds an envelope around a payload.
func Wrap[T any](payload T) Envelope[T] {
	return Envelope[T]{Payload: payload}
}

// Unwrap decodes a response body and returns the payload inside its
// MediaContainer field. Errors are always *DecodeError.
func Unwrap[T any](data []byte) (T, error) {
	var zero T

	fields, err := objectFields(envelopeField, data)
	if err != nil {
		return zero, err
	}

	raw, ok := fields[envelopeField]
	if !ok || kindOf(raw) == kindNull {
		return zero, &DecodeError{Family: envelopeField, Fields: fieldNames(fields), Err: ErrMissingEnvelope}
	}

	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return zero, asDecodeError(fmt.Sprintf("%T", payload), err)
	}
	return payload, nil
}

// asDecodeError passes a *DecodeError through and wraps anything else
func asDecodeError(family string, err error) *DecodeError {
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return &DecodeError{Family: family, Err: err}
}
