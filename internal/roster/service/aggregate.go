package service

import (
	"context"
	"fmt"

	"scoutnet/internal/roster/events"
	"scoutnet/internal/roster/fields"
	apperrors "scoutnet/pkg/errors"
	"scoutnet/pkg/model"
	"scoutnet/pkg/sanitizer"
)

// Aggregate builds one mailing list. Without fetchMembers the list's member
// URL is never requested and Members and Recipients stay nil.
func (s *rosterService) Aggregate(ctx context.Context, meta ListMetadata, fetchMembers bool) (*model.MailingList, error) {
	l := &model.MailingList{
		ID:          meta.ID,
		Title:       meta.Title,
		Description: meta.Description,
		Aliases:     sanitizer.SortedUnique(meta.Aliases),
	}
	if !fetchMembers {
		return l, nil
	}
	if meta.Link == "" {
		return nil, apperrors.MissingListURL(meta.ID)
	}

	raw, err := s.fetcher.ListMembers(ctx, meta.Link)
	if err != nil {
		return nil, err
	}
	entries, err := fields.Data(raw, "list members")
	if err != nil {
		return nil, err
	}

	members := make(map[int]*model.MailingListMember, len(entries))
	var recipients []string
	for _, entry := range entries {
		m, err := s.validator.ValidateMailingListMemberRecord(entry.Value)
		if err != nil {
			s.observer.Observe(ctx, events.Event{Type: events.MemberRejected, ListID: meta.ID, Reason: entry.Key, Err: err})
			return nil, fmt.Errorf("member %s: %w", entry.Key, err)
		}
		// A repeated member_no replaces the earlier record but its
		// addresses stay in the recipient set.
		members[m.MemberNo] = m
		if m.Email != nil {
			recipients = append(recipients, *m.Email)
		}
		recipients = append(recipients, m.ExtraEmails...)

		s.observer.Observe(ctx, events.Event{
			Type:     events.ListMemberAdded,
			ListID:   meta.ID,
			MemberNo: m.MemberNo,
			Title:    titleOf(meta.Title),
			Count:    len(m.ExtraEmails),
		})
	}

	l.Members = members
	l.Recipients = sanitizer.SortedUnique(recipients)
	return l, nil
}
