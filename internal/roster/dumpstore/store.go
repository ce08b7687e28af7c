package dumpstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"scoutnet/internal/roster/fetcher"
)

var (
	ErrNotFound    = errors.New("dump not found")
	ErrInvalidName = errors.New("invalid dump name")
)

var reName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Store persists captured dumps by name. Saving under an existing name
// replaces it.
type Store interface {
	Save(ctx context.Context, name string, d *fetcher.Dump) error
	Load(ctx context.Context, name string) (*fetcher.Dump, error)
}

func validateName(name string) error {
	if !reName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
