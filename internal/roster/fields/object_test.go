package fields

import (
	"encoding/json"
	"testing"

	apperrors "scoutnet/pkg/errors"
)

func TestEntries_PreservesDocumentOrder(t *testing.T) {
	raw := json.RawMessage(`{"30": {"id": 30}, "10": {"id": 10}, "20": {"id": 20}}`)

	entries, err := Entries(raw, "customlists")
	if err != nil {
		t.Fatalf("Entries() unexpected error: %v", err)
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	want := []string{"30", "10", "20"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Entries() keys = %v, want %v", keys, want)
		}
	}
	if string(entries[0].Value) != `{"id": 30}` {
		t.Errorf("entry value = %s", entries[0].Value)
	}
}

func TestEntries_EmptyForms(t *testing.T) {
	for _, raw := range []string{`[]`, `{}`, `null`} {
		entries, err := Entries(json.RawMessage(raw), "aliases")
		if err != nil {
			t.Errorf("Entries(%s) unexpected error: %v", raw, err)
		}
		if len(entries) != 0 {
			t.Errorf("Entries(%s) = %v, want none", raw, entries)
		}
	}
}

func TestEntries_RejectsScalarsAndNonEmptyArrays(t *testing.T) {
	for _, raw := range []string{`"x"`, `1`, `["a"]`} {
		_, err := Entries(json.RawMessage(raw), "aliases")
		if !apperrors.IsCode(err, apperrors.CodeInvalidPayload) {
			t.Errorf("Entries(%s) expected %s, got %v", raw, apperrors.CodeInvalidPayload, err)
		}
	}
}

func TestData(t *testing.T) {
	entries, err := Data(json.RawMessage(`{"data": {"1": {}, "2": {}}, "labels": {}}`), "memberlist")
	if err != nil {
		t.Fatalf("Data() unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Data() returned %d entries, want 2", len(entries))
	}

	if _, err := Data(json.RawMessage(`{"labels": {}}`), "memberlist"); !apperrors.IsCode(err, apperrors.CodeInvalidPayload) {
		t.Errorf("missing data should be %s, got %v", apperrors.CodeInvalidPayload, err)
	}

	empty, err := Data(json.RawMessage(`{"data": []}`), "list members")
	if err != nil || len(empty) != 0 {
		t.Errorf("Data([] data) = %v, %v", empty, err)
	}
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt(json.RawMessage(`"17"`))
	if err != nil || n != 17 {
		t.Errorf("ParseInt() = %d, %v", n, err)
	}
}
