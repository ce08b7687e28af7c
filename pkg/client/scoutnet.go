package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	apperrors "scoutnet/pkg/errors"
)

const (
	DefaultEndpoint = "https://www.scoutnet.se/api"

	CapabilityMemberlist  = "memberlist"
	CapabilityCustomlists = "customlists"

	memberlistPath  = "/group/memberlist"
	customlistsPath = "/group/customlists"
)

type Credentials struct {
	APIID             string
	APIKeyMemberlist  string
	APIKeyCustomlists string
}

// ScoutnetClient holds one authenticated session per capability. A session
// whose key was not configured is nil and every call needing it fails with
// MISSING_CREDENTIAL before a request is made.
type ScoutnetClient struct {
	endpoint    string
	memberlist  *HttpClient
	customlists *HttpClient
}

func NewScoutnetClient(endpoint string, creds Credentials, timeout time.Duration) *ScoutnetClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base := NewHttpClient(endpoint, timeout)

	c := &ScoutnetClient{endpoint: base.BaseURL}
	if creds.APIKeyMemberlist != "" {
		c.memberlist = base.WithBasicAuth(creds.APIID, creds.APIKeyMemberlist)
	}
	if creds.APIKeyCustomlists != "" {
		c.customlists = base.WithBasicAuth(creds.APIID, creds.APIKeyCustomlists)
	}
	return c
}

func (c *ScoutnetClient) Endpoint() string {
	return c.endpoint
}

func (c *ScoutnetClient) HasCapability(capability string) bool {
	switch capability {
	case CapabilityMemberlist:
		return c.memberlist != nil
	case CapabilityCustomlists:
		return c.customlists != nil
	}
	return false
}

// Memberlist returns the raw roster payload.
func (c *ScoutnetClient) Memberlist(ctx context.Context) (json.RawMessage, error) {
	if c.memberlist == nil {
		return nil, apperrors.MissingCredential(CapabilityMemberlist)
	}
	return fetchJSON(ctx, c.memberlist, memberlistPath, CapabilityMemberlist)
}

// Customlists returns the raw custom list index payload.
func (c *ScoutnetClient) Customlists(ctx context.Context) (json.RawMessage, error) {
	if c.customlists == nil {
		return nil, apperrors.MissingCredential(CapabilityCustomlists)
	}
	return fetchJSON(ctx, c.customlists, customlistsPath, CapabilityCustomlists)
}

// ListMembers returns the raw member payload behind a list's link.
func (c *ScoutnetClient) ListMembers(ctx context.Context, link string) (json.RawMessage, error) {
	if c.customlists == nil {
		return nil, apperrors.MissingCredential(CapabilityCustomlists)
	}
	return fetchJSON(ctx, c.customlists, link, "list members")
}

// ListURL builds the member URL for a list id.
func (c *ScoutnetClient) ListURL(listID int) string {
	q := url.Values{}
	q.Set("list_id", fmt.Sprintf("%d", listID))
	return c.endpoint + customlistsPath + "?" + q.Encode()
}

func fetchJSON(ctx context.Context, hc *HttpClient, path, resource string) (json.RawMessage, error) {
	resp, err := hc.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(resp.Body) {
		return nil, apperrors.InvalidPayload(resource, fmt.Errorf("response from %s is not JSON", resp.Request.URL))
	}
	return json.RawMessage(resp.Body), nil
}
