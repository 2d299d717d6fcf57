package plex

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
	"strings"
)

// jsonKind is the JSON type of a raw value
type jsonKind int

const (
	kindInvalid jsonKind = iota
	kindNull
	kindString
	kindNumber
	kindBool
	kindArray
	kindObject
)

// kindOf classifies a raw JSON value by its first significant byte
func kindOf(raw json.RawMessage) jsonKind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return kindInvalid
	}

	switch c := raw[0]; {
	case c == '"':
		return kindString
	case c == '{':
		return kindObject
	case c == '[':
		return kindArray
	case c == 't' || c == 'f':
		return kindBool
	case c == 'n':
		return kindNull
	case c == '-' || (c >= '0' && c <= '9'):
		return kindNumber
	}
	return kindInvalid
}

// shape is the field layout of one record variant, derived from the json
// tags of its Go struct. Fields tagged omitempty, and pointer fields, are
// optional; everything else is required.
type shape struct {
	required map[string]jsonKind
	known    map[string]bool
}

func shapeOf(v any) *shape {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	s := &shape{
		required: make(map[string]jsonKind),
		known:    make(map[string]bool),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}

		s.known[name] = true
		if f.Type.Kind() == reflect.Pointer || slices.Contains(strings.Split(opts, ","), "omitempty") {
			continue
		}
		s.required[name] = goKind(f.Type)
	}

	return s
}

// goKind maps a Go type to the JSON kind encoding/json produces for it
func goKind(t reflect.Type) jsonKind {
	switch t.Kind() {
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumber
	case reflect.Slice, reflect.Array:
		return kindArray
	case reflect.Struct, reflect.Map:
		return kindObject
	}
	return kindInvalid
}

// missing returns the sorted required fields that are absent, null or of
// the wrong JSON kind
func (s *shape) missing(fields map[string]json.RawMessage) []string {
	var out []string
	for name, want := range s.required {
		raw, ok := fields[name]
		if !ok || kindOf(raw) != want {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// satisfiedBy reports whether every required field is present and well typed
func (s *shape) satisfiedBy(fields map[string]json.RawMessage) bool {
	return len(s.missing(fields)) == 0
}

// coverage returns the present fields this shape knows about
func (s *shape) coverage(fields map[string]json.RawMessage) map[string]bool {
	out := make(map[string]bool)
	for name := range fields {
		if s.known[name] {
			out[name] = true
		}
	}
	return out
}

// requiredSet returns the names of the required fields
func (s *shape) requiredSet() map[string]bool {
	out := make(map[string]bool, len(s.required))
	for name := range s.required {
		out[name] = true
	}
	return out
}

// strictSuperset reports whether a holds every member of b and at least one more
func strictSuperset(a, b map[string]bool) bool {
	if len(a) <= len(b) {
		return false
	}
	for name := range b {
		if !a[name] {
			return false
		}
	}
	return true
}

// objectFields splits a JSON object into its fields
func objectFields(family string, data []byte) (map[string]json.RawMessage, error) {
	if kindOf(data) != kindObject {
		return nil, &DecodeError{Family: family, Err: errNotObject}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &DecodeError{Family: family, Err: err}
	}
	return fields, nil
}

// fieldNames returns the sorted keys of an object
func fieldNames(fields map[string]json.RawMessage) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// decodeRequired checks the required fields of s before decoding data into v
func decodeRequired(family string, s *shape, data []byte, v any) error {
	fields, err := objectFields(family, data)
	if err != nil {
		return err
	}
	if missing := s.missing(fields); len(missing) > 0 {
		return &DecodeError{Family: family, Fields: missing, Err: ErrMissingFields}
	}
	return json.Unmarshal(data, v)
}

// mergeObjects marshals each value and merges the resulting objects into one
func mergeObjects(values ...any) ([]byte, error) {
	merged := make(map[string]json.RawMessage)
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		for name, raw := range fields {
			merged[name] = raw
		}
	}
	return json.Marshal(merged)
}
