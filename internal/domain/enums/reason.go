package enums

import "strings"

// Reason is one kick category. Code travels in callback payloads, Label is
// what admins see on the button and what lands in the audit log. Freeform
// reasons are not stored literally: they open a free-text capture instead.
type Reason struct {
	Code     string
	Label    string
	Freeform bool
}

var Reasons = []Reason{
	{Code: "FUD", Label: "FUD"},
	{Code: "ADS", Label: "Ads"},
	{Code: "HARASSMENT", Label: "Harassment"},
	{Code: "SCAM", Label: "Scam"},
	{Code: "TROLLING", Label: "Trolling"},
	{Code: "OTHER", Label: "Other", Freeform: true},
}

func ReasonByCode(raw string) (Reason, bool) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	for _, reason := range Reasons {
		if reason.Code == code {
			return reason, true
		}
	}
	return Reason{}, false
}
