package domain

import (
	"github.com/shopspring/decimal"
)

// Well-known reserve account names used by the organization flows.
const (
	ReserveSalary        = "Salary"
	ReserveDailyExpenses = "Daily Expenses (Needs)"
	ReserveUnknown       = "Unknown [Reserve]"
)

// AccountRefType identifies which kind of ledger endpoint a transfer leg is.
type AccountRefType string

const (
	RefCash      AccountRefType = "CASH"
	RefReserve   AccountRefType = "RESERVE"
	RefRecipient AccountRefType = "RECIPIENT"
)

// AccountRef is a typed reference to one side of a transfer. The ledger
// service resolves it; the core never dereferences it locally.
type AccountRef struct {
	Type         AccountRefType `json:"type"`
	ID           string         `json:"id"`
	CurrencyCode string         `json:"currencyCode"`
}

// CashAccount is the live spendable balance in one currency of a profile.
// Always sourced fresh from the ledger service; never cached across
// operations.
type CashAccount struct {
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// Ref returns the transfer reference for this cash account.
func (a CashAccount) Ref() AccountRef {
	return AccountRef{Type: RefCash, ID: a.AccountID, CurrencyCode: a.CurrencyCode}
}

// ReserveAccount is a named sub-ledger earmarking funds for one budget
// category or counterparty. Created on first reference by the ledger
// service (idempotent get-or-create).
type ReserveAccount struct {
	AccountID    string          `json:"accountID"`
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// Ref returns the transfer reference for this reserve account.
func (a ReserveAccount) Ref() AccountRef {
	return AccountRef{Type: RefReserve, ID: a.AccountID, CurrencyCode: a.CurrencyCode}
}

// Recipient is an external bank payee known to the ledger service by
// account number.
type Recipient struct {
	RecipientID   string `json:"recipientID"`
	AccountNumber string `json:"accountNumber"`
	Name          string `json:"name"`
	CurrencyCode  string `json:"currencyCode"`
}

// Ref returns the transfer reference for this recipient.
func (r Recipient) Ref() AccountRef {
	return AccountRef{Type: RefRecipient, ID: r.RecipientID, CurrencyCode: r.CurrencyCode}
}
