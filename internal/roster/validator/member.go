package validator

import (
	"encoding/json"

	"scoutnet/internal/roster/fields"
	apperrors "scoutnet/pkg/errors"
	"scoutnet/pkg/model"
	"scoutnet/pkg/sanitizer"
)

// ValidateMemberRecord unwraps and validates one roster record.
func (v *RecordValidator) ValidateMemberRecord(record json.RawMessage) (*model.Member, error) {
	values, err := fields.Unwrap(record)
	if err != nil {
		return nil, err
	}
	return v.ValidateMember(values)
}

// ValidateMember builds a Member or fails on the first offending field. An
// unparsable phone number rejects the whole record.
func (v *RecordValidator) ValidateMember(values fields.Values) (*model.Member, error) {
	var (
		m   model.Member
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
	if m.DateOfBirth, err = values.Date("date_of_birth"); err != nil {
		return nil, err
	}
	if m.Group, err = values.String("group"); err != nil {
		return nil, err
	}

	phone, err := values.OptionalString("contact_mobile_phone")
	if err != nil {
		return nil, err
	}
	if m.ContactMobilePhone, err = sanitizer.NormalizePhoneForRegion(phone, v.phoneRegion); err != nil {
		return nil, apperrors.FieldValidation("contact_mobile_phone", "invalid phone number", err)
	}

	if m.Email, err = optionalEmail(values, "email"); err != nil {
		return nil, err
	}
	if m.ContactAltEmail, err = optionalEmail(values, "contact_alt_email"); err != nil {
		return nil, err
	}

	if err := v.check(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
