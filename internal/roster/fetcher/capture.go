package fetcher

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"scoutnet/internal/roster/fields"
)

// Capture fetches both index payloads verbatim. With withLists set it also
// fetches the member payload behind every list link, once per distinct URL.
func Capture(ctx context.Context, f Fetcher, withLists bool) (*Dump, error) {
	memberlist, err := f.Memberlist(ctx)
	if err != nil {
		return nil, err
	}
	customlists, err := f.Customlists(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dump{Memberlist: memberlist, Customlists: customlists}
	if !withLists {
		return d, nil
	}

	entries, err := fields.Entries(customlists, "customlists")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		link := gjson.GetBytes(entry.Value, "link")
		if link.Type != gjson.String || link.Str == "" {
			continue
		}
		if _, seen := d.Lists[link.Str]; seen {
			continue
		}
		raw, err := f.ListMembers(ctx, link.Str)
		if err != nil {
			return nil, err
		}
		if d.Lists == nil {
			d.Lists = make(map[string]json.RawMessage)
		}
		d.Lists[link.Str] = raw
	}
	return d, nil
}
