package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoutnet/internal/roster/events"
	"scoutnet/internal/roster/fetcher"
	"scoutnet/internal/roster/validator"
	"scoutnet/internal/testutil"
	"scoutnet/pkg/client"
	apperrors "scoutnet/pkg/errors"
)

type harness struct {
	fake     *testutil.FakeScoutnet
	live     *fetcher.Live
	recorder *events.Recorder
	service  RosterService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	fake := testutil.NewFakeScoutnet(t)
	live := fetcher.NewLive(fake.Endpoint(), client.Credentials{
		APIID:             testutil.FakeAPIID,
		APIKeyMemberlist:  testutil.FakeMemberlistKey,
		APIKeyCustomlists: testutil.FakeCustomlistsKey,
	}, 5*time.Second)

	h := &harness{fake: fake, live: live, recorder: &events.Recorder{}}
	h.service = h.serviceWith(t, live)
	return h
}

func (h *harness) serviceWith(t *testing.T, f fetcher.Fetcher) RosterService {
	t.Helper()
	v, err := validator.NewRecordValidator("")
	require.NoError(t, err)
	return NewRosterService(f, v, h.recorder)
}

func TestGetAllMembers(t *testing.T) {
	h := newHarness(t)
	h.fake.SetRoster(
		testutil.NewMemberBuilder(3).With("email", "Three@Example.com"),
		testutil.NewMemberBuilder(1).With("contact_mobile_phone", "46701234567"),
	)

	members, err := h.service.GetAllMembers(context.Background())
	require.NoError(t, err)

	require.Len(t, members, 2)
	require.NotNil(t, members[3].Email)
	assert.Equal(t, "three@example.com", *members[3].Email)
	require.NotNil(t, members[1].ContactMobilePhone)
	assert.Equal(t, "+46701234567", *members[1].ContactMobilePhone)
	assert.Equal(t, 1, h.fake.Hits(testutil.RouteMemberlist))

	accepted := h.recorder.OfType(events.MemberAccepted)
	require.Len(t, accepted, 2)
	assert.Equal(t, 3, accepted[0].MemberNo)
	assert.Equal(t, 1, accepted[1].MemberNo)
}

func TestGetAllMembers_KeyedByValidatedMemberNo(t *testing.T) {
	h := newHarness(t)
	h.fake.SetRoster(testutil.NewMemberBuilder(42).WithKey("not-a-number"))

	members, err := h.service.GetAllMembers(context.Background())
	require.NoError(t, err)
	assert.Contains(t, members, 42)
}

func TestGetAllMembers_EmptyRoster(t *testing.T) {
	h := newHarness(t)
	h.fake.SetMemberlistPayload(json.RawMessage(`{"data":[]}`))

	members, err := h.service.GetAllMembers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestGetAllMembers_AbortsOnFirstInvalidRecord(t *testing.T) {
	h := newHarness(t)
	h.fake.SetRoster(
		testutil.NewMemberBuilder(1),
		testutil.NewMemberBuilder(2).With("contact_mobile_phone", "123"),
		testutil.NewMemberBuilder(3),
	)

	members, err := h.service.GetAllMembers(context.Background())
	require.Error(t, err)
	assert.Nil(t, members)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeFieldValidation))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidPhone))
	assert.Equal(t, "contact_mobile_phone", apperrors.Field(err))

	assert.Len(t, h.recorder.OfType(events.MemberAccepted), 1)
	rejected := h.recorder.OfType(events.MemberRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "2", rejected[0].Reason)
}

func TestGetAllMembers_TransportError(t *testing.T) {
	h := newHarness(t)
	h.fake.FailWith(testutil.RouteMemberlist, http.StatusInternalServerError)

	_, err := h.service.GetAllMembers(context.Background())
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeTransport, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Details["status"])
}

func TestGetAllMembers_MissingCredential(t *testing.T) {
	h := newHarness(t)
	noRoster := fetcher.NewLive(h.fake.Endpoint(), client.Credentials{
		APIID:             testutil.FakeAPIID,
		APIKeyCustomlists: testutil.FakeCustomlistsKey,
	}, time.Second)

	_, err := h.serviceWith(t, noRoster).GetAllMembers(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingCredential))
	assert.Equal(t, 0, h.fake.Hits(testutil.RouteMemberlist))
}

func TestGetAllLists_RecipientsDeduplicatedAndSorted(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(testutil.NewListBuilder(1).
		WithAliases("a", "z-alias@lists.example.com", "b", "a-alias@lists.example.com", "c", "z-alias@lists.example.com").
		WithMembers(
			testutil.NewListMemberBuilder(10).
				With("email", "a@x.se").
				With("extra_emails", []string{"A@X.se", "b@x.se"}),
		))

	lists, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.NoError(t, err)

	l, ok := lists.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{"a@x.se", "b@x.se"}, l.Recipients)
	assert.Equal(t, []string{"a-alias@lists.example.com", "z-alias@lists.example.com"}, l.Aliases)
	assert.Len(t, l.Members, 1)
}

func TestGetAllLists_RecipientsSortedAcrossMembers(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(testutil.NewListBuilder(1).WithMembers(
		testutil.NewListMemberBuilder(1).With("email", "zed@example.com"),
		testutil.NewListMemberBuilder(2).With("email", nil).With("extra_emails", []string{"mid@example.com"}),
		testutil.NewListMemberBuilder(3).With("email", "alpha@example.com"),
	))

	lists, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.NoError(t, err)

	l, _ := lists.Get(1)
	assert.Equal(t, []string{"alpha@example.com", "mid@example.com", "zed@example.com"}, l.Recipients)
}

func TestGetAllLists_DropsListsWithoutAliases(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(
		testutil.NewListBuilder(1),
		testutil.NewListBuilder(2).WithoutAliases().WithMembers(testutil.NewListMemberBuilder(5)),
		testutil.NewListBuilder(3),
	)

	lists, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, lists.IDs())
	_, ok := lists.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 1, h.fake.ListHits(2))

	excluded := h.recorder.OfType(events.ListExcluded)
	require.Len(t, excluded, 1)
	assert.Equal(t, 2, excluded[0].ListID)
	assert.Equal(t, reasonNoAliases, excluded[0].Reason)
}

func TestGetAllLists_EmptyAliasValueStillIncluded(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(testutil.NewListBuilder(1).WithTitle("T").WithAliases("a", ""))

	lists, err := h.service.GetAllLists(context.Background(), ListOptions{FetchMembers: false})
	require.NoError(t, err)

	l, ok := lists.Get(1)
	require.True(t, ok)
	assert.Equal(t, []string{""}, l.Aliases)
	assert.Empty(t, h.recorder.OfType(events.ListExcluded))
}

func TestGetAllLists_WithoutMembersNeverFetchesLists(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(
		testutil.NewListBuilder(1).WithMembers(testutil.NewListMemberBuilder(1)),
		testutil.NewListBuilder(2).WithoutLink(),
	)

	lists, err := h.service.GetAllLists(context.Background(), ListOptions{FetchMembers: false})
	require.NoError(t, err)

	assert.Equal(t, 2, lists.Len())
	for _, id := range lists.IDs() {
		l, _ := lists.Get(id)
		assert.Nil(t, l.Members)
		assert.Nil(t, l.Recipients)
		assert.False(t, l.HasMembers())
	}
	assert.Equal(t, 0, h.fake.TotalListHits())
}

func TestGetAllLists_LimitCountsDroppedLists(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(
		testutil.NewListBuilder(1).WithoutAliases(),
		testutil.NewListBuilder(2).WithoutAliases(),
		testutil.NewListBuilder(3),
	)

	lists, err := h.service.GetAllLists(context.Background(), ListOptions{Limit: 2, FetchMembers: true})
	require.NoError(t, err)

	assert.Equal(t, 0, lists.Len())
	assert.Len(t, h.recorder.OfType(events.ListFetched), 2)
	assert.Equal(t, 1, h.fake.ListHits(1))
	assert.Equal(t, 1, h.fake.ListHits(2))
	assert.Equal(t, 0, h.fake.ListHits(3))
}

func TestGetAllLists_LimitAppliesAfterFilter(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(
		testutil.NewListBuilder(1),
		testutil.NewListBuilder(2),
		testutil.NewListBuilder(3),
		testutil.NewListBuilder(4),
	)

	lists, err := h.service.GetAllLists(context.Background(), ListOptions{
		Limit:        1,
		FetchMembers: true,
		ListIDs:      []int{3, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{3}, lists.IDs())
	assert.Equal(t, 1, h.fake.TotalListHits())
}

func TestGetAllLists_FilterSkipsMemberFetch(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(
		testutil.NewListBuilder(1),
		testutil.NewListBuilder(2),
		testutil.NewListBuilder(3),
	)

	lists, err := h.service.GetAllLists(context.Background(), ListOptions{
		FetchMembers: true,
		ListIDs:      []int{3, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, lists.IDs())
	assert.Equal(t, 0, h.fake.ListHits(2))
	skipped := h.recorder.OfType(events.ListSkipped)
	require.Len(t, skipped, 1)
	assert.Equal(t, 2, skipped[0].ListID)
}

func TestGetAllLists_PreservesPayloadOrder(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(
		testutil.NewListBuilder(30),
		testutil.NewListBuilder(4),
		testutil.NewListBuilder(100),
	)

	lists, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{30, 4, 100}, lists.IDs())
}

func TestGetAllLists_MissingLink(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(testutil.NewListBuilder(7).WithoutLink())

	_, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingListURL))
}

func TestGetAllLists_MemberFetchFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(testutil.NewListBuilder(1), testutil.NewListBuilder(2))
	h.fake.FailList(2, http.StatusForbidden)

	_, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeTransport))
}

func TestGetAllLists_InvalidListMember(t *testing.T) {
	h := newHarness(t)
	h.fake.SetLists(testutil.NewListBuilder(1).WithMembers(
		testutil.NewListMemberBuilder(1).With("extra_emails", []string{"broken"}),
	))

	_, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeFieldValidation))
	assert.Equal(t, "extra_emails[0]", apperrors.Field(err))
}

func TestGetAllLists_EmptyIndex(t *testing.T) {
	h := newHarness(t)
	h.fake.SetCustomlistsPayload(json.RawMessage(`[]`))

	lists, err := h.service.GetAllLists(context.Background(), DefaultListOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, lists.Len())
	assert.JSONEq(t, `{}`, string(mustMarshal(t, lists)))
}

func TestAggregate_LastWriteWins(t *testing.T) {
	h := newHarness(t)
	h.fake.SetListMembersPayload(9, testutil.DataPayload(
		testutil.NewListMemberBuilder(5).WithKey("a").With("first_name", "First").With("email", "first@example.com"),
		testutil.NewListMemberBuilder(5).WithKey("b").With("first_name", "Second").With("email", "second@example.com"),
	))

	l, err := h.service.Aggregate(context.Background(), ListMetadata{
		ID:      9,
		Link:    h.fake.ListLink(9),
		Aliases: []string{"nine@lists.example.com"},
	}, true)
	require.NoError(t, err)

	require.Len(t, l.Members, 1)
	assert.Equal(t, "Second", l.Members[5].FirstName)
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, l.Recipients)
}

func TestAggregate_EmptyMemberPayload(t *testing.T) {
	h := newHarness(t)
	h.fake.SetListMembersPayload(9, json.RawMessage(`{"data":[]}`))

	l, err := h.service.Aggregate(context.Background(), ListMetadata{ID: 9, Link: h.fake.ListLink(9)}, true)
	require.NoError(t, err)

	assert.NotNil(t, l.Members)
	assert.Empty(t, l.Members)
	assert.NotNil(t, l.Recipients)
	assert.Empty(t, l.Recipients)
	assert.Empty(t, l.Aliases)
}

func TestAggregate_WithoutMembersIgnoresMissingLink(t *testing.T) {
	h := newHarness(t)

	l, err := h.service.Aggregate(context.Background(), ListMetadata{
		ID:      3,
		Title:   strPtr("Utmanare"),
		Aliases: []string{"b@lists.example.com", "a@lists.example.com", "b@lists.example.com"},
	}, false)
	require.NoError(t, err)

	require.NotNil(t, l.Title)
	assert.Equal(t, "Utmanare", *l.Title)
	assert.Nil(t, l.Description)
	assert.Equal(t, []string{"a@lists.example.com", "b@lists.example.com"}, l.Aliases)
	assert.Nil(t, l.Members)
	assert.Nil(t, l.Recipients)
}

func TestReplayMatchesLiveFetch(t *testing.T) {
	h := newHarness(t)
	h.fake.SetRoster(
		testutil.NewMemberBuilder(1).With("email", "one@example.com"),
		testutil.NewMemberBuilder(2).With("contact_mobile_phone", "070-123 45 67"),
	)
	h.fake.SetLists(
		testutil.NewListBuilder(10).WithMembers(testutil.NewListMemberBuilder(1), testutil.NewListMemberBuilder(2)),
		testutil.NewListBuilder(20).WithoutAliases(),
		testutil.NewListBuilder(30).WithMembers(testutil.NewListMemberBuilder(2).With("extra_emails", []string{"x@example.com"})),
	)
	ctx := context.Background()

	liveMembers, err := h.service.GetAllMembers(ctx)
	require.NoError(t, err)
	liveLists, err := h.service.GetAllLists(ctx, DefaultListOptions())
	require.NoError(t, err)

	dump, err := fetcher.Capture(ctx, h.live, true)
	require.NoError(t, err)
	encoded, err := dump.Marshal()
	require.NoError(t, err)
	restored, err := fetcher.UnmarshalDump(encoded)
	require.NoError(t, err)

	hitsBefore := h.fake.Hits(testutil.RouteMemberlist) + h.fake.Hits(testutil.RouteCustomlists) + h.fake.TotalListHits()

	replayed := h.serviceWith(t, fetcher.NewReplay(restored, nil))
	replayMembers, err := replayed.GetAllMembers(ctx)
	require.NoError(t, err)
	replayLists, err := replayed.GetAllLists(ctx, DefaultListOptions())
	require.NoError(t, err)

	assert.Equal(t, liveMembers, replayMembers)
	assert.Equal(t, liveLists, replayLists)
	assert.JSONEq(t, string(mustMarshal(t, liveLists)), string(mustMarshal(t, replayLists)))

	hitsAfter := h.fake.Hits(testutil.RouteMemberlist) + h.fake.Hits(testutil.RouteCustomlists) + h.fake.TotalListHits()
	assert.Equal(t, hitsBefore, hitsAfter)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
