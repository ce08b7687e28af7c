package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
)

const (
	FakeAPIID          = "742"
	FakeMemberlistKey  = "memberlist-secret"
	FakeCustomlistsKey = "customlists-secret"

	RouteMemberlist  = "/api/group/memberlist"
	RouteCustomlists = "/api/group/customlists"
)

// FakeScoutnet is an in-process stand-in for the roster service. It checks
// basic auth per capability and counts requests per route.
type FakeScoutnet struct {
	*httptest.Server

	mu          sync.Mutex
	memberlist  json.RawMessage
	customlists json.RawMessage
	lists       map[string]json.RawMessage
	failures    map[string]int
	hits        map[string]int
	listHits    map[string]int
}

func NewFakeScoutnet(t *testing.T) *FakeScoutnet {
	t.Helper()

	f := &FakeScoutnet{
		memberlist:  json.RawMessage(`{"data":{}}`),
		customlists: json.RawMessage(`{}`),
		lists:       make(map[string]json.RawMessage),
		failures:    make(map[string]int),
		hits:        make(map[string]int),
		listHits:    make(map[string]int),
	}

	router := httprouter.New()
	router.GET(RouteMemberlist, f.requireKey(FakeMemberlistKey, f.handleMemberlist))
	router.GET(RouteCustomlists, f.requireKey(FakeCustomlistsKey, f.handleCustomlists))

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Close)
	return f
}

// Endpoint is the API base URL to configure clients with.
func (f *FakeScoutnet) Endpoint() string {
	return f.URL + "/api"
}

func (f *FakeScoutnet) ListLink(id int) string {
	return fmt.Sprintf("%s%s?list_id=%d", f.URL, RouteCustomlists, id)
}

func (f *FakeScoutnet) SetRoster(members ...*RecordBuilder) {
	f.SetMemberlistPayload(DataPayload(members...))
}

func (f *FakeScoutnet) SetMemberlistPayload(raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberlist = raw
}

// SetLists publishes the index and every list's member payload. Lists get a
// link to this server unless built WithoutLink.
func (f *FakeScoutnet) SetLists(lists ...*ListBuilder) {
	for _, l := range lists {
		if !l.noLink {
			l.WithLink(f.ListLink(l.id))
		}
		f.SetListMembersPayload(l.id, l.MembersPayload())
	}
	f.SetCustomlistsPayload(CustomlistsPayload(lists...))
}

func (f *FakeScoutnet) SetCustomlistsPayload(raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customlists = raw
}

func (f *FakeScoutnet) SetListMembersPayload(id int, raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[strconv.Itoa(id)] = raw
}

// FailWith makes a route answer with status instead of its payload.
func (f *FakeScoutnet) FailWith(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = status
}

// FailList makes one list's member fetch answer with status.
func (f *FakeScoutnet) FailList(id int, status int) {
	f.FailWith(listRoute(strconv.Itoa(id)), status)
}

// Hits counts requests to a route; list member fetches are counted separately.
func (f *FakeScoutnet) Hits(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

// ListHits counts member fetches for one list.
func (f *FakeScoutnet) ListHits(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listHits[strconv.Itoa(id)]
}

// TotalListHits counts member fetches across all lists.
func (f *FakeScoutnet) TotalListHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.listHits {
		total += n
	}
	return total
}

func (f *FakeScoutnet) requireKey(key string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != FakeAPIID || pass != key {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r, ps)
	}
}

func (f *FakeScoutnet) handleMemberlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	f.mu.Lock()
	f.hits[RouteMemberlist]++
	status := f.failures[RouteMemberlist]
	payload := f.memberlist
	f.mu.Unlock()

	writePayload(w, status, payload)
}

func (f *FakeScoutnet) handleCustomlists(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listID := r.URL.Query().Get("list_id")

	f.mu.Lock()
	status := f.failures[RouteCustomlists]
	payload := f.customlists
	found := true
	if listID != "" {
		f.listHits[listID]++
		status = f.failures[listRoute(listID)]
		payload, found = f.lists[listID]
	} else {
		f.hits[RouteCustomlists]++
	}
	f.mu.Unlock()

	if !found {
		http.Error(w, `{"error":"no such list"}`, http.StatusNotFound)
		return
	}
	writePayload(w, status, payload)
}

func writePayload(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"injected failure"}`))
		return
	}
	_, _ = w.Write(payload)
}

func listRoute(listID string) string {
	return RouteCustomlists + "?list_id=" + listID
}
