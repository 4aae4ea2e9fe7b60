package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is one rent-paying household member with a weekly rent and an
// earmarked reserve on the household profile.
type Tenant struct {
	Name            string          `json:"name"`
	NameInStatement string          `json:"nameInStatement"`
	WeeklyRent      decimal.Decimal `json:"weeklyRent"`
	CurrencyCode    string          `json:"currencyCode"`
	// MonthlyMinimum floors incoming reservations at a full month of rent
	// (weekly rent times the number of Fridays in the month).
	MonthlyMinimum bool `json:"monthlyMinimum"`
}

// ReserveAccountName is the reserve holding this tenant's prepaid rent.
func (t Tenant) ReserveAccountName() string {
	return t.Name + " (Household Expenses)"
}

// RentCollection reports one tenant's outcome of a weekly rent run. Each
// tenant is independent: a shortfall never fails the batch.
type RentCollection struct {
	Tenant       Tenant          `json:"tenant"`
	Collected    bool            `json:"collected"`
	Balance      decimal.Decimal `json:"balance"`
	AmountNeeded decimal.Decimal `json:"amountNeeded,omitempty"`
	PaidUntil    *time.Time      `json:"paidUntil,omitempty"`
}

// RentSummary is the combined result of one rent-collection run.
type RentSummary struct {
	Collections []RentCollection `json:"collections"`
}
