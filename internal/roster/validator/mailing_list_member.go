package validator

import (
	"encoding/json"

	"scoutnet/internal/roster/fields"
	"scoutnet/pkg/model"
	"scoutnet/pkg/sanitizer"
)

func (v *RecordValidator) ValidateMailingListMemberRecord(record json.RawMessage) (*model.MailingListMember, error) {
	values, err := fields.Unwrap(record)
	if err != nil {
		return nil, err
	}
	return v.ValidateMailingListMember(values)
}

// ValidateMailingListMember requires extra_emails to be present; it may be
// an empty list.
func (v *RecordValidator) ValidateMailingListMember(values fields.Values) (*model.MailingListMember, error) {
	var (
		m   model.MailingListMember
		err error
	)

	if m.MemberNo, err = values.Int("member_no"); err != nil {
		return nil, err
	}
	if m.FirstName, err = values.String("first_name"); err != nil {
		return nil, err
	}
	if m.LastName, err = values.String("last_name"); err != nil {
		return nil, err
	}
	if m.Email, err = optionalEmail(values, "email"); err != nil {
		return nil, err
	}

	extra, err := values.Strings("extra_emails")
	if err != nil {
		return nil, err
	}
	m.ExtraEmails = sanitizer.NormalizeEmails(extra)

	if err := v.check(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
