package locale

import "strings"

const (
	DefaultRegion = "SE"
)

type Country struct {
	Code        string // ISO 3166-1 alpha-2 country code (e.g., "SE")
	Name        string
	CallingCode string // E.164 country calling code including "+", e.g. "+46"
	TrunkPrefix string // digit(s) dialled before a national number, e.g. "0"
}

var (
	Countries = map[string]Country{
		"SE": {
			Code:        "SE",
			Name:        "Sweden",
			CallingCode: "+46",
			TrunkPrefix: "0",
		},
		"NO": {
			Code:        "NO",
			Name:        "Norway",
			CallingCode: "+47",
		},
		"FI": {
			Code:        "FI",
			Name:        "Finland",
			CallingCode: "+358",
			TrunkPrefix: "0",
		},
	}
)

// Lookup finds a country by region code, case-insensitively.
func Lookup(region string) (Country, bool) {
	c, ok := Countries[strings.ToUpper(strings.TrimSpace(region))]
	return c, ok
}
