package fields

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	apperrors "scoutnet/pkg/errors"
)

// Entry is one key/value pair of a JSON object.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Entries returns the members of a JSON object in document order. The
// service encodes an empty map as [], so an empty array (and null) yields
// no entries.
func Entries(raw json.RawMessage, resource string) ([]Entry, error) {
	parsed := gjson.ParseBytes(raw)
	switch {
	case parsed.IsObject():
	case parsed.Type == gjson.Null:
		return nil, nil
	case parsed.IsArray() && len(parsed.Array()) == 0:
		return nil, nil
	default:
		return nil, apperrors.InvalidPayload(resource, fmt.Errorf("expected object, got %s", describe(parsed)))
	}

	var entries []Entry
	parsed.ForEach(func(key, value gjson.Result) bool {
		entries = append(entries, Entry{Key: key.String(), Value: json.RawMessage(value.Raw)})
		return true
	})
	return entries, nil
}

// Data returns the entries of the "data" member of a payload.
func Data(raw json.RawMessage, resource string) ([]Entry, error) {
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return nil, apperrors.InvalidPayload(resource, fmt.Errorf("expected object, got %s", describe(parsed)))
	}
	data := parsed.Get("data")
	if !data.Exists() {
		return nil, apperrors.InvalidPayload(resource, fmt.Errorf("missing data"))
	}
	return Entries(json.RawMessage(data.Raw), resource)
}

func describe(r gjson.Result) string {
	if r.IsArray() {
		return "array"
	}
	if r.IsObject() {
		return "object"
	}
	return r.Type.String()
}
