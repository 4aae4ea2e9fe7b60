package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlannedExpenseCategory names the budget sheet a planned expense comes
// from. The category suffix also forms the reserve account name.
type PlannedExpenseCategory string

const (
	CategoryNeeds     PlannedExpenseCategory = "Needs"
	CategoryWants     PlannedExpenseCategory = "Wants"
	CategoryScheduled PlannedExpenseCategory = "Scheduled"
)

// PlannedExpense is one budget line item. It targets either a reserve
// account (needs/wants) or an external recipient (scheduled transfers and
// savings), never both. Rebuilt fresh from configuration on every planning
// run.
type PlannedExpense struct {
	Description             string          `json:"description"`
	Amount                  decimal.Decimal `json:"amount"`
	CurrencyCode            string          `json:"currencyCode"`
	ReserveAccount          *ReserveAccount `json:"reserveAccount,omitempty"`
	Recipient               *Recipient      `json:"recipient,omitempty"`
	NotificationPhoneNumber string          `json:"notificationPhoneNumber,omitempty"`
	Merchant                string          `json:"merchant,omitempty"`
}

// Target returns the transfer leg this expense pays into.
func (e PlannedExpense) Target() AccountRef {
	if e.ReserveAccount != nil {
		return e.ReserveAccount.Ref()
	}
	return e.Recipient.Ref()
}

// ReserveAccountName builds the canonical reserve name for a category line
// item, e.g. "Groceries (Needs)".
func ReserveAccountName(description string, category PlannedExpenseCategory) string {
	return description + " (" + string(category) + ")"
}

// MonthlyPlan is the derived monthly budget: every planned expense plus the
// savings remainder. Never persisted.
type MonthlyPlan struct {
	Month      time.Time        `json:"month"`
	Salary     decimal.Decimal  `json:"salary"`
	NeedsTotal decimal.Decimal  `json:"needsTotal"`
	WantsTotal decimal.Decimal  `json:"wantsTotal"`
	Needs      []PlannedExpense `json:"needs"`
	Wants      []PlannedExpense `json:"wants"`
	Scheduled  []PlannedExpense `json:"scheduled"`
	Savings    PlannedExpense   `json:"savings"`
}

// MonthlySummary reports the executed monthly organization.
type MonthlySummary struct {
	Month                   time.Time       `json:"month"`
	Salary                  decimal.Decimal `json:"salary"`
	NeedsTotal              decimal.Decimal `json:"needsTotal"`
	WantsTotal              decimal.Decimal `json:"wantsTotal"`
	ScheduledTransfersTotal decimal.Decimal `json:"scheduledTransfersTotal"`
	Savings                 decimal.Decimal `json:"savings"`
}

// DailyBudgetState is the rolling daily-budget projection, recomputed from
// scratch on every invocation. Fully stateless across calls.
type DailyBudgetState struct {
	MonthlyBudget               decimal.Decimal `json:"monthlyBudget"`
	DailyBudget                 decimal.Decimal `json:"dailyBudget"`
	ExpectedBalanceAtStartOfDay decimal.Decimal `json:"expectedBalanceAtStartOfDay"`
	ExpectedBalanceAtEndOfDay   decimal.Decimal `json:"expectedBalanceAtEndOfDay"`
	AmountUnderBudget           decimal.Decimal `json:"amountUnderBudget"`
	AmountOverBudget            decimal.Decimal `json:"amountOverBudget"`
	IsOverBudget                bool            `json:"isOverBudget"`
	// DaysUntilBudgetReached and DateBudgetReached are only set when over
	// budget: the projected point at which spending nothing further brings
	// the reserve back on plan.
	DaysUntilBudgetReached int        `json:"daysUntilBudgetReached,omitempty"`
	DateBudgetReached      *time.Time `json:"dateBudgetReached,omitempty"`
}
