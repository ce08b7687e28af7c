// Package fields extracts scalar values from the roster service's wrapped
// field records, where every field is sent as {"value": ..., ...}.
package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "scoutnet/pkg/errors"
	"scoutnet/pkg/model"
)

const valueKey = "value"

// Values holds the unwrapped raw JSON of every field that carried a value.
// A present key may still hold JSON null.
type Values map[string]json.RawMessage

// Unwrap keeps only fields that are objects with a "value" key.
func Unwrap(record json.RawMessage) (Values, error) {
	parsed := gjson.ParseBytes(record)
	if !parsed.IsObject() {
		return nil, apperrors.InvalidPayload("record", fmt.Errorf("expected object, got %s", parsed.Type))
	}

	values := make(Values)
	parsed.ForEach(func(key, field gjson.Result) bool {
		if !field.IsObject() {
			return true
		}
		v := field.Get(valueKey)
		if !v.Exists() {
			return true
		}
		values[key.String()] = json.RawMessage(v.Raw)
		return true
	})
	return values, nil
}

// Has reports whether the field carried a non-null value.
func (v Values) Has(name string) bool {
	raw, ok := v[name]
	return ok && !isNull(raw)
}

// String returns a required string field.
func (v Values) String(name string) (string, error) {
	raw, ok := v[name]
	if !ok || isNull(raw) {
		return "", missing(name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", apperrors.FieldValidation(name, "expected a string", err)
	}
	return s, nil
}

// OptionalString returns nil for an absent or null field.
func (v Values) OptionalString(name string) (*string, error) {
	if !v.Has(name) {
		return nil, nil
	}
	s, err := v.String(name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Int accepts a JSON integer or a string holding one.
func (v Values) Int(name string) (int, error) {
	raw, ok := v[name]
	if !ok || isNull(raw) {
		return 0, missing(name)
	}
	n, err := coerceInt(raw)
	if err != nil {
		return 0, apperrors.FieldValidation(name, "expected an integer", err)
	}
	return n, nil
}

// Date parses a required ISO calendar date.
func (v Values) Date(name string) (model.Date, error) {
	s, err := v.String(name)
	if err != nil {
		return model.Date{}, err
	}
	d, err := model.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return model.Date{}, apperrors.FieldValidation(name, "expected a date (YYYY-MM-DD)", err)
	}
	return d, nil
}

// Strings returns a required array of strings; an empty array is valid.
func (v Values) Strings(name string) ([]string, error) {
	raw, ok := v[name]
	if !ok || isNull(raw) {
		return nil, missing(name)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.FieldValidation(name, "expected a list of strings", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// ParseInt coerces a JSON number or numeric string to int.
func ParseInt(raw json.RawMessage) (int, error) {
	return coerceInt(raw)
}

func coerceInt(raw json.RawMessage) (int, error) {
	r := gjson.ParseBytes(raw)
	switch r.Type {
	case gjson.Number:
		n, err := strconv.Atoi(r.Raw)
		if err != nil {
			return 0, fmt.Errorf("%s is not an integer", r.Raw)
		}
		return n, nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", r.Str)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unexpected %s", r.Type)
}

func missing(name string) error {
	return apperrors.FieldValidation(name, "field required", nil)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
