package model

import "strings"

type Member struct {
	MemberNo           int     `json:"member_no" validate:"gt=0"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	DateOfBirth        Date    `json:"date_of_birth" validate:"-"`
	Group              string  `json:"group"`
	ContactMobilePhone *string `json:"contact_mobile_phone" validate:"omitempty,canonical_phone"`
	Email              *string `json:"email" validate:"omitempty,email"`
	ContactAltEmail    *string `json:"contact_alt_email" validate:"omitempty,email"`
}

// DisplayName joins the non-empty name parts with a space.
func (m *Member) DisplayName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{m.FirstName, m.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type MailingListMember struct {
	MemberNo    int      `json:"member_no" validate:"gt=0"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	ExtraEmails []string `json:"extra_emails" validate:"dive,email"`
}
