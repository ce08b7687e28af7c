package service

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"scoutnet/internal/roster/fields"
	apperrors "scoutnet/pkg/errors"
)

// ListMetadata is one entry of the customlists index.
type ListMetadata struct {
	ID          int
	Title       *string
	Description *string
	Link        string
	Aliases     []string
}

// DecodeListMetadata reads a customlists entry. id may be a number or a
// numeric string; aliases may be an object of key to address, or [] when
// the list has none. Title, description and link are optional.
func DecodeListMetadata(raw json.RawMessage) (ListMetadata, error) {
	entry := gjson.ParseBytes(raw)
	if !entry.IsObject() {
		return ListMetadata{}, apperrors.InvalidPayload("customlists", fmt.Errorf("list entry is not an object"))
	}

	idField := entry.Get("id")
	if !idField.Exists() || idField.Type == gjson.Null {
		return ListMetadata{}, apperrors.FieldValidation("id", "field required", nil)
	}
	id, err := fields.ParseInt(json.RawMessage(idField.Raw))
	if err != nil {
		return ListMetadata{}, apperrors.FieldValidation("id", "expected an integer", err)
	}

	meta := ListMetadata{
		ID:          id,
		Title:       optionalStringPtr(entry, "title"),
		Description: optionalStringPtr(entry, "description"),
		Link:        optionalString(entry, "link"),
	}

	aliases, err := fields.Entries(json.RawMessage(entry.Get("aliases").Raw), "aliases")
	if err != nil {
		return ListMetadata{}, err
	}
	meta.Aliases = make([]string, 0, len(aliases))
	for _, a := range aliases {
		var alias string
		if err := json.Unmarshal(a.Value, &alias); err != nil {
			return ListMetadata{}, apperrors.FieldValidation("aliases", fmt.Sprintf("alias %q is not a string", a.Key), err)
		}
		meta.Aliases = append(meta.Aliases, alias)
	}
	return meta, nil
}

func optionalString(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

func optionalStringPtr(r gjson.Result, path string) *string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return nil
	}
	s := v.Str
	return &s
}

func titleOf(title *string) string {
	if title == nil {
		return ""
	}
	return *title
}
