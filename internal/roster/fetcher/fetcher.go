package fetcher

import (
	"context"
	"encoding/json"
	"time"

	"scoutnet/pkg/client"
)

// Fetcher retrieves raw payloads from the roster service or a stand-in.
type Fetcher interface {
	Memberlist(ctx context.Context) (json.RawMessage, error)
	Customlists(ctx context.Context) (json.RawMessage, error)
	ListMembers(ctx context.Context, url string) (json.RawMessage, error)
}

// Live talks to the roster service over HTTP.
type Live struct {
	*client.ScoutnetClient
}

var _ Fetcher = (*Live)(nil)

func NewLive(endpoint string, creds client.Credentials, timeout time.Duration) *Live {
	return &Live{ScoutnetClient: client.NewScoutnetClient(endpoint, creds, timeout)}
}
