package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitaops/vita/internal/core/domain"
)

// DailyFinancesResponse reports the daily-budget projection after a daily
// organization run.
type DailyFinancesResponse struct {
	MonthlyBudget          decimal.Decimal  `json:"monthlyBudget"`
	DailyBudget            decimal.Decimal  `json:"dailyBudget"`
	IsOverBudget           bool             `json:"isOverBudget"`
	AmountUnderBudget      *decimal.Decimal `json:"amountUnderBudget,omitempty"`
	AmountOverBudget       *decimal.Decimal `json:"amountOverBudget,omitempty"`
	DaysUntilBudgetReached int              `json:"daysUntilBudgetReached,omitempty"`
	DateBudgetReached      string           `json:"dateBudgetReached,omitempty"`
}

// ToDailyFinancesResponse converts a domain.DailyBudgetState to its DTO.
func ToDailyFinancesResponse(state *domain.DailyBudgetState) DailyFinancesResponse {
	resp := DailyFinancesResponse{
		MonthlyBudget: state.MonthlyBudget,
		DailyBudget:   state.DailyBudget,
		IsOverBudget:  state.IsOverBudget,
	}
	if state.IsOverBudget {
		over := state.AmountOverBudget
		resp.AmountOverBudget = &over
		resp.DaysUntilBudgetReached = state.DaysUntilBudgetReached
		if state.DateBudgetReached != nil {
			resp.DateBudgetReached = state.DateBudgetReached.Format("2006-01-02")
		}
	} else {
		under := state.AmountUnderBudget
		resp.AmountUnderBudget = &under
	}
	return resp
}

// MonthlySummaryResponse reports an executed monthly organization.
type MonthlySummaryResponse struct {
	Month                   string          `json:"month"`
	Salary                  decimal.Decimal `json:"salary"`
	NeedsTotal              decimal.Decimal `json:"needsTotal"`
	WantsTotal              decimal.Decimal `json:"wantsTotal"`
	ScheduledTransfersTotal decimal.Decimal `json:"scheduledTransfersTotal"`
	Savings                 decimal.Decimal `json:"savings"`
}

// ToMonthlySummaryResponse converts a domain.MonthlySummary to its DTO.
func ToMonthlySummaryResponse(summary *domain.MonthlySummary) MonthlySummaryResponse {
	return MonthlySummaryResponse{
		Month:                   summary.Month.Format("2006-01"),
		Salary:                  summary.Salary,
		NeedsTotal:              summary.NeedsTotal,
		WantsTotal:              summary.WantsTotal,
		ScheduledTransfersTotal: summary.ScheduledTransfersTotal,
		Savings:                 summary.Savings,
	}
}

// PlannedExpenseResponse is one budget line item in a plan projection.
type PlannedExpenseResponse struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Target       string          `json:"target"`
	Merchant     string          `json:"merchant,omitempty"`
}

// MonthlyPlanResponse is the read-only projection of a derived monthly plan.
type MonthlyPlanResponse struct {
	Month      string                   `json:"month"`
	Salary     decimal.Decimal          `json:"salary"`
	NeedsTotal decimal.Decimal          `json:"needsTotal"`
	WantsTotal decimal.Decimal          `json:"wantsTotal"`
	Needs      []PlannedExpenseResponse `json:"needs"`
	Wants      []PlannedExpenseResponse `json:"wants"`
	Scheduled  []PlannedExpenseResponse `json:"scheduled"`
	Savings    PlannedExpenseResponse   `json:"savings"`
}

func toPlannedExpenseResponse(e domain.PlannedExpense) PlannedExpenseResponse {
	target := ""
	if e.ReserveAccount != nil {
		target = e.ReserveAccount.Name
	} else if e.Recipient != nil {
		target = e.Recipient.AccountNumber
	}
	return PlannedExpenseResponse{
		Description:  e.Description,
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		Target:       target,
		Merchant:     e.Merchant,
	}
}

func toPlannedExpenseResponses(expenses []domain.PlannedExpense) []PlannedExpenseResponse {
	out := make([]PlannedExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toPlannedExpenseResponse(e))
	}
	return out
}

// ToMonthlyPlanResponse converts a domain.MonthlyPlan to its DTO.
func ToMonthlyPlanResponse(plan *domain.MonthlyPlan) MonthlyPlanResponse {
	return MonthlyPlanResponse{
		Month:      plan.Month.Format("2006-01"),
		Salary:     plan.Salary,
		NeedsTotal: plan.NeedsTotal,
		WantsTotal: plan.WantsTotal,
		Needs:      toPlannedExpenseResponses(plan.Needs),
		Wants:      toPlannedExpenseResponses(plan.Wants),
		Scheduled:  toPlannedExpenseResponses(plan.Scheduled),
		Savings:    toPlannedExpenseResponse(plan.Savings),
	}
}

// RentCollectionResponse reports one tenant's outcome of a rent run.
type RentCollectionResponse struct {
	Tenant       string           `json:"tenant"`
	Collected    bool             `json:"collected"`
	Balance      decimal.Decimal  `json:"balance"`
	AmountNeeded *decimal.Decimal `json:"amountNeeded,omitempty"`
	PaidUntil    string           `json:"paidUntil,omitempty"`
}

// RentSummaryResponse is the combined result of one rent-collection run.
type RentSummaryResponse struct {
	Collections []RentCollectionResponse `json:"collections"`
}

// ToRentSummaryResponse converts a domain.RentSummary to its DTO.
func ToRentSummaryResponse(summary *domain.RentSummary) RentSummaryResponse {
	out := RentSummaryResponse{Collections: make([]RentCollectionResponse, 0, len(summary.Collections))}
	for _, c := range summary.Collections {
		item := RentCollectionResponse{
			Tenant:    c.Tenant.Name,
			Collected: c.Collected,
			Balance:   c.Balance,
		}
		if c.Collected {
			if c.PaidUntil != nil {
				item.PaidUntil = c.PaidUntil.Format("2006-01-02")
			}
		} else {
			needed := c.AmountNeeded
			item.AmountNeeded = &needed
		}
		out.Collections = append(out.Collections, item)
	}
	return out
}

// monthQueryFormat is the layout of the optional ?month= query parameter.
const monthQueryFormat = "2006-01"

// ParseMonth parses an optional month query value. A zero time is returned
// for the empty string so callers can apply their own default.
func ParseMonth(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(monthQueryFormat, raw)
}
