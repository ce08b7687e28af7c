package dumpstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoutnet/internal/roster/fetcher"
	"scoutnet/pkg/logger"
)

func sampleDump() *fetcher.Dump {
	return &fetcher.Dump{
		Memberlist:  json.RawMessage(`{"data":{"3":{"member_no":{"value":"3"}}}}`),
		Customlists: json.RawMessage(`{"1":{"id":"1","aliases":[]}}`),
		Lists:       map[string]json.RawMessage{"https://example.test/l?list_id=1": json.RawMessage(`{"data":[]}`)},
	}
}

func testRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	d := sampleDump()
	require.NoError(t, store.Save(ctx, "weekly", d))

	got, err := store.Load(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	replaced := sampleDump()
	replaced.Lists = nil
	require.NoError(t, store.Save(ctx, "weekly", replaced))

	got, err = store.Load(ctx, "weekly")
	require.NoError(t, err)
	assert.Nil(t, got.Lists)

	_, err = store.Load(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestFileStore_RoundTrip(t *testing.T) {
	testRoundTrip(t, NewFileStore(filepath.Join(t.TempDir(), "dumps")))
}

func TestFileStore_WritesOneFilePerDump(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	require.NoError(t, store.Save(context.Background(), "a", sampleDump()))
	require.NoError(t, store.Save(context.Background(), "b", sampleDump()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"a.json", "b.json"}, names)
}

func TestFileStore_LoadsPlainTwoKeyDump(t *testing.T) {
	dir := t.TempDir()
	doc := `{"memberlist": {"data": {}}, "customlists": []}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), []byte(doc), 0o644))

	d, err := NewFileStore(dir).Load(context.Background(), "old")
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{}}`, string(d.Memberlist))
	assert.Nil(t, d.Lists)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{name: "weekly", valid: true},
		{name: "2024-05-01_full.v2", valid: true},
		{name: "", valid: false},
		{name: ".hidden", valid: false},
		{name: "../escape", valid: false},
		{name: "a/b", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.name)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestMongoStore_RoundTrip(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	database := "scoutnet_test_" + time.Now().UTC().Format("20060102150405")
	store, err := ConnectMongo(ctx, logger.Nop(), uri, database, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.client.Database(database).Drop(context.Background())
		_ = store.Close(context.Background())
	})

	testRoundTrip(t, store)
}
