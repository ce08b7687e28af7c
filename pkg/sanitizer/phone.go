package sanitizer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	apperrors "scoutnet/pkg/errors"
	"scoutnet/pkg/locale"
)

var (
	reValidPhone      = regexp.MustCompile(`^\+\d{11,}$`)
	reStartsWithDigit = regexp.MustCompile(`^[1-9]`)
)

// NormalizePhone canonicalizes a phone number to E.164 using the default
// region's trunk prefix. A nil or blank input yields nil.
func NormalizePhone(phone *string) (*string, error) {
	return NormalizePhoneForRegion(phone, locale.DefaultRegion)
}

func NormalizePhoneForRegion(phone *string, region string) (*string, error) {
	if phone == nil {
		return nil, nil
	}

	country, ok := locale.Lookup(region)
	if !ok {
		return nil, apperrors.Internal(fmt.Sprintf("unknown phone region %q", region), nil)
	}

	p := stripPhone(*phone)
	if p == "" {
		return nil, nil
	}

	if country.TrunkPrefix != "" {
		if rest, found := strings.CutPrefix(p, country.TrunkPrefix); found {
			p = country.CallingCode + rest
		}
	}
	if reStartsWithDigit.MatchString(p) {
		p = "+" + p
	}

	if !reValidPhone.MatchString(p) {
		return nil, apperrors.InvalidPhoneNumber(p)
	}
	return &p, nil
}

func stripPhone(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
