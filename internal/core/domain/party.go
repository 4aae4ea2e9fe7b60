package domain

import "strings"

// ExpectedParty is one row of the expected-party registry: a counterparty
// the household knows by a fragment of its bank-statement name. The same
// registry serves credit matching (by statement fragment) and shared-expense
// debit matching (by merchant list).
type ExpectedParty struct {
	Name                    string   `json:"name"`
	NameInStatement         string   `json:"nameInStatement"`
	CurrencyCode            string   `json:"currencyCode"`
	NotificationPhoneNumber string   `json:"notificationPhoneNumber,omitempty"`
	Merchants               []string `json:"merchants,omitempty"`
	// IsUnknown marks the synthetic fallback party used when no registry row
	// matches. Never an error.
	IsUnknown bool `json:"isUnknown"`
}

// ReserveAccountName is the reserve earmarked for this party's funds.
func (p ExpectedParty) ReserveAccountName() string {
	if p.IsUnknown {
		return ReserveUnknown
	}
	return p.Name + " [Reserve]"
}

// MatchesStatement reports whether the party's statement fragment occurs in
// the given counterparty line, case-insensitively.
func (p ExpectedParty) MatchesStatement(counterparty string) bool {
	if p.NameInStatement == "" {
		return false
	}
	return strings.Contains(strings.ToLower(counterparty), strings.ToLower(p.NameInStatement))
}

// MatchesMerchant reports whether the merchant name belongs to this party's
// shared-expense merchant list, case-insensitively.
func (p ExpectedParty) MatchesMerchant(merchant string) bool {
	for _, m := range p.Merchants {
		if strings.EqualFold(strings.TrimSpace(m), merchant) {
			return true
		}
	}
	return false
}

// UnknownParty returns the synthetic fallback for unmatched counterparties
// in the given currency.
func UnknownParty(currencyCode string) ExpectedParty {
	return ExpectedParty{Name: "Unknown", CurrencyCode: currencyCode, IsUnknown: true}
}
