package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "scoutnet/pkg/errors"
)

// Dump holds captured raw payloads. Lists maps a list's member URL to the
// payload served from it and is omitted when nothing was captured.
type Dump struct {
	Memberlist  json.RawMessage            `json:"memberlist"`
	Customlists json.RawMessage            `json:"customlists"`
	Lists       map[string]json.RawMessage `json:"lists,omitempty"`
}

// Marshal encodes the dump without HTML escaping, so compact payloads come
// back byte for byte.
func (d *Dump) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalDump decodes a dump, rejecting documents that lack either index
// payload.
func UnmarshalDump(data []byte) (*Dump, error) {
	var d Dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, apperrors.InvalidPayload("dump", err)
	}
	if len(d.Memberlist) == 0 {
		return nil, apperrors.InvalidPayload("dump", fmt.Errorf("missing memberlist"))
	}
	if len(d.Customlists) == 0 {
		return nil, apperrors.InvalidPayload("dump", fmt.Errorf("missing customlists"))
	}
	return &d, nil
}
