package service

import (
	"context"
	"fmt"

	"scoutnet/internal/roster/events"
	"scoutnet/internal/roster/fetcher"
	"scoutnet/internal/roster/fields"
	"scoutnet/internal/roster/validator"
	"scoutnet/pkg/model"
)

const reasonNoAliases = "no aliases"

type RosterService interface {
	GetAllMembers(ctx context.Context) (map[int]*model.Member, error)
	GetAllLists(ctx context.Context, opts ListOptions) (*model.MailingLists, error)
	Aggregate(ctx context.Context, meta ListMetadata, fetchMembers bool) (*model.MailingList, error)
}

type rosterService struct {
	fetcher   fetcher.Fetcher
	validator *validator.RecordValidator
	observer  events.Observer
}

func NewRosterService(
	f fetcher.Fetcher,
	validator *validator.RecordValidator,
	observer events.Observer,
) RosterService {
	if observer == nil {
		observer = events.Nop()
	}
	return &rosterService{
		fetcher:   f,
		validator: validator,
		observer:  observer,
	}
}

// GetAllMembers validates every roster entry in payload order and stops at
// the first invalid one. Results are keyed by the validated member_no.
func (s *rosterService) GetAllMembers(ctx context.Context) (map[int]*model.Member, error) {
	raw, err := s.fetcher.Memberlist(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := fields.Data(raw, "memberlist")
	if err != nil {
		return nil, err
	}

	members := make(map[int]*model.Member, len(entries))
	for _, entry := range entries {
		m, err := s.validator.ValidateMemberRecord(entry.Value)
		if err != nil {
			s.observer.Observe(ctx, events.Event{Type: events.MemberRejected, Reason: entry.Key, Err: err})
			return nil, fmt.Errorf("member %s: %w", entry.Key, err)
		}
		members[m.MemberNo] = m
		s.observer.Observe(ctx, events.Event{Type: events.MemberAccepted, MemberNo: m.MemberNo})
	}
	return members, nil
}

// GetAllLists walks the customlists index in payload order. Lists without
// aliases are dropped after being counted against opts.Limit.
func (s *rosterService) GetAllLists(ctx context.Context, opts ListOptions) (*model.MailingLists, error) {
	raw, err := s.fetcher.Customlists(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := fields.Entries(raw, "customlists")
	if err != nil {
		return nil, err
	}

	result := model.NewMailingLists()
	considered := 0
	for _, entry := range entries {
		key, err := fields.ParseInt([]byte(entry.Key))
		if err != nil {
			return nil, fmt.Errorf("list %q: invalid list key: %w", entry.Key, err)
		}
		if !opts.allows(key) {
			s.observer.Observe(ctx, events.Event{Type: events.ListSkipped, ListID: key})
			continue
		}
		considered++

		meta, err := DecodeListMetadata(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("list %d: %w", key, err)
		}
		l, err := s.Aggregate(ctx, meta, opts.FetchMembers)
		if err != nil {
			return nil, fmt.Errorf("list %d: %w", key, err)
		}
		s.observer.Observe(ctx, events.Event{
			Type:   events.ListFetched,
			ListID: l.ID,
			Title:  titleOf(l.Title),
			Count:  len(l.Members),
		})

		if len(l.Aliases) > 0 {
			result.Put(key, l)
			s.observer.Observe(ctx, events.Event{Type: events.ListIncluded, ListID: l.ID, Title: titleOf(l.Title)})
		} else {
			s.observer.Observe(ctx, events.Event{Type: events.ListExcluded, ListID: l.ID, Title: titleOf(l.Title), Reason: reasonNoAliases})
		}

		if opts.Limit > 0 && considered >= opts.Limit {
			break
		}
	}
	return result, nil
}
