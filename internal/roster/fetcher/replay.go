package fetcher

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "scoutnet/pkg/errors"
)

var ErrNotCaptured = errors.New("payload not captured in dump")

// Replay serves payloads from a Dump. List member URLs missing from the dump
// go to the fallback, when one is set.
type Replay struct {
	dump     *Dump
	fallback Fetcher
}

var _ Fetcher = (*Replay)(nil)

func NewReplay(d *Dump, fallback Fetcher) *Replay {
	return &Replay{dump: d, fallback: fallback}
}

func (r *Replay) Memberlist(ctx context.Context) (json.RawMessage, error) {
	return r.dump.Memberlist, nil
}

func (r *Replay) Customlists(ctx context.Context) (json.RawMessage, error) {
	return r.dump.Customlists, nil
}

func (r *Replay) ListMembers(ctx context.Context, url string) (json.RawMessage, error) {
	if raw, ok := r.dump.Lists[url]; ok {
		return raw, nil
	}
	if r.fallback != nil {
		return r.fallback.ListMembers(ctx, url)
	}
	return nil, apperrors.Transport(url, 0, ErrNotCaptured)
}
