package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitaops/vita/internal/apperrors"
	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
)

// orchestratorService executes the ordered money-movement sequences: daily
// top-up/sweep, monthly organization, weekly rent collection. It never
// rolls a prior transfer back; a mid-sequence ledger failure surfaces to
// the caller and later re-invocation is near-idempotent because settled
// legs become zero-amount.
type orchestratorService struct {
	BaseService
	ledger          ports.LedgerService
	household       ports.LedgerService
	planner         portssvc.PlannerSvc
	monthlyBudget   decimal.Decimal
	primaryCurrency string
	now             func() time.Time
}

// OrchestratorOption is a functional option for configuring the orchestrator
type OrchestratorOption func(*orchestratorService)

// WithOrchestratorClock overrides the wall clock, for tests.
func WithOrchestratorClock(now func() time.Time) OrchestratorOption {
	return func(s *orchestratorService) {
		s.now = now
	}
}

// NewOrchestratorService creates the transfer orchestrator. The primary
// ledger holds the personal budget; the household ledger holds rent funds.
func NewOrchestratorService(ledger, household ports.LedgerService, planner portssvc.PlannerSvc, notifier ports.Notifier, monthlyBudget decimal.Decimal, primaryCurrency string, options ...OrchestratorOption) portssvc.FinancesOrganizerSvc {
	svc := &orchestratorService{
		BaseService:     BaseService{Notifier: notifier},
		ledger:          ledger,
		household:       household,
		planner:         planner,
		monthlyBudget:   monthlyBudget,
		primaryCurrency: primaryCurrency,
		now:             time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.FinancesOrganizerSvc = (*orchestratorService)(nil)

func (s *orchestratorService) MonthlyPlan(ctx context.Context, month time.Time) (*domain.MonthlyPlan, error) {
	if month.IsZero() {
		month = firstDayOfNextMonth(s.now())
	}
	return s.planner.MonthlyPlan(ctx, month)
}

// OrganizeDailyFinances releases the day's remaining allowance to cash when
// at or under budget, and claws overspend back into the reserve when over.
// Running it twice against unchanged balances makes the second transfer
// zero-amount.
func (s *orchestratorService) OrganizeDailyFinances(ctx context.Context) (*domain.DailyBudgetState, error) {
	cash, err := s.ledger.GetCashAccount(ctx, s.primaryCurrency)
	if err != nil {
		return nil, err
	}
	reserve, err := s.ledger.GetOrCreateReserveAccount(ctx, domain.ReserveDailyExpenses, s.primaryCurrency)
	if err != nil {
		return nil, err
	}

	state := s.planner.DailyBudgetState(s.monthlyBudget, cash.Balance, reserve.Balance, s.now())

	if state.IsOverBudget {
		if cash.Balance.IsPositive() {
			if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
				Source: cash.Ref(),
				Target: reserve.Ref(),
				Amount: cash.Balance,
			}); err != nil {
				return nil, err
			}
		}
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"**Daily Expense Notification:**\n"+
				"Amount over budget: %s\n"+
				"Date budget is reached: %s (%d days)",
			state.AmountOverBudget.StringFixed(2),
			state.DateBudgetReached.Format("2006-01-02"),
			state.DaysUntilBudgetReached))
	} else {
		release := reserve.Balance.Sub(state.ExpectedBalanceAtEndOfDay)
		if release.IsPositive() {
			if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
				Source: reserve.Ref(),
				Target: cash.Ref(),
				Amount: release,
			}); err != nil {
				return nil, err
			}
		}
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"**Daily Expense Notification:**\n"+
				"Amount under budget: %s", state.AmountUnderBudget.StringFixed(2)))
	}

	s.LogInfo(ctx, "Daily finances organized",
		slog.Bool("over_budget", state.IsOverBudget),
		slog.String("daily_budget", state.DailyBudget.String()))
	return &state, nil
}

// OrganizeMonthlyFinances runs the monthly sequence: release the salary
// from its reserve, fund every needs/wants reserve, execute the scheduled
// transfers, then sweep what remains of the cash balance into savings. The
// salary precondition is checked before any transfer executes.
func (s *orchestratorService) OrganizeMonthlyFinances(ctx context.Context, month time.Time) (*domain.MonthlySummary, error) {
	if month.IsZero() {
		month = firstDayOfNextMonth(s.now())
	}

	plan, err := s.planner.MonthlyPlan(ctx, month)
	if err != nil {
		return nil, err
	}

	salaryReserve, err := s.ledger.GetOrCreateReserveAccount(ctx, domain.ReserveSalary, s.primaryCurrency)
	if err != nil {
		return nil, err
	}
	if salaryReserve.Balance.LessThan(plan.Salary) {
		shortfall := plan.Salary.Sub(salaryReserve.Balance)
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"**Insufficient balance in Salary Reserve Account**\n"+
				"*Balance*: %s %s\n"+
				"*Required Balance*: %s %s\n"+
				"*Short of*: %s %s",
			salaryReserve.CurrencyCode, salaryReserve.Balance.StringFixed(2),
			salaryReserve.CurrencyCode, plan.Salary.StringFixed(2),
			salaryReserve.CurrencyCode, shortfall.StringFixed(2)))
		return nil, fmt.Errorf("salary reserve is short %s %s: %w",
			salaryReserve.CurrencyCode, shortfall.StringFixed(2), apperrors.ErrInsufficientFunds)
	}

	cash, err := s.ledger.GetCashAccount(ctx, s.primaryCurrency)
	if err != nil {
		return nil, err
	}

	// Release the month's salary into spendable cash before funding anything.
	if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
		Source: salaryReserve.Ref(),
		Target: cash.Ref(),
		Amount: plan.Salary,
	}); err != nil {
		return nil, err
	}

	for _, expense := range append(append([]domain.PlannedExpense{}, plan.Needs...), plan.Wants...) {
		if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
			Source:    cash.Ref(),
			Target:    expense.Target(),
			Amount:    expense.Amount,
			Reference: expense.Description,
		}); err != nil {
			return nil, err
		}
	}

	for _, scheduled := range plan.Scheduled {
		if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
			Source:    cash.Ref(),
			Target:    scheduled.Target(),
			Amount:    scheduled.Amount,
			Reference: scheduled.Description,
		}); err != nil {
			return nil, err
		}
		if scheduled.NotificationPhoneNumber != "" {
			s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
				"%s%s has been transferred to %s's account (%s).",
				scheduled.CurrencyCode, scheduled.Amount.StringFixed(2),
				scheduled.Description, scheduled.NotificationPhoneNumber))
		}
	}

	// Sweep whatever remains after the deductions above; re-read so the
	// sweep acts on the post-transfer balance.
	cash, err = s.ledger.GetCashAccount(ctx, s.primaryCurrency)
	if err != nil {
		return nil, err
	}
	if cash.Balance.IsPositive() {
		if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
			Source:               cash.Ref(),
			Target:               plan.Savings.Target(),
			Amount:               cash.Balance,
			SourceCurrencyAmount: true,
			Reference:            "Savings",
		}); err != nil {
			return nil, err
		}
	}

	summary := &domain.MonthlySummary{
		Month:                   month,
		Salary:                  plan.Salary,
		NeedsTotal:              plan.NeedsTotal,
		WantsTotal:              plan.WantsTotal,
		ScheduledTransfersTotal: sumExpenses(plan.Scheduled),
		Savings:                 plan.Savings.Amount,
	}

	s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
		"**Monthly Finances**\n"+
			"*Needs*: %s %s\n"+
			"*Wants*: %s %s\n"+
			"*Savings*: %s %s",
		s.primaryCurrency, summary.NeedsTotal.StringFixed(2),
		s.primaryCurrency, summary.WantsTotal.StringFixed(2),
		s.primaryCurrency, summary.Savings.StringFixed(2)))

	s.LogInfo(ctx, "Monthly finances organized", slog.String("month", month.Format("2006-01")))
	return summary, nil
}

// OrganizeRent collects the weekly rent from each tenant's reserve. Tenants
// are independent: a shortfall is reported, never an error, and never stops
// the rest of the batch.
func (s *orchestratorService) OrganizeRent(ctx context.Context) (*domain.RentSummary, error) {
	tenants, err := s.planner.Tenants(ctx)
	if err != nil {
		return nil, err
	}

	session := newLedgerSession(s.household)
	summary := &domain.RentSummary{Collections: make([]domain.RentCollection, 0, len(tenants))}
	message := "**Weekly Rental Notification:**\n"

	for _, tenant := range tenants {
		reserve, err := session.Reserve(ctx, tenant.ReserveAccountName(), tenant.CurrencyCode)
		if err != nil {
			return nil, err
		}
		cash, err := s.household.GetCashAccount(ctx, tenant.CurrencyCode)
		if err != nil {
			return nil, err
		}

		message += fmt.Sprintf("*Tenant*: %s\n", tenant.Name)

		if reserve.Balance.GreaterThanOrEqual(tenant.WeeklyRent) {
			if _, err := s.household.Transfer(ctx, domain.TransferRequest{
				Source:    reserve.Ref(),
				Target:    cash.Ref(),
				Amount:    tenant.WeeklyRent,
				Reference: "Rent " + tenant.Name,
			}); err != nil {
				return nil, err
			}

			weeksCovered := reserve.Balance.Div(tenant.WeeklyRent).Floor().IntPart() + 1
			paidUntil := s.now().AddDate(0, 0, int(weeksCovered)*7)
			remaining := reserve.Balance.Sub(tenant.WeeklyRent)

			summary.Collections = append(summary.Collections, domain.RentCollection{
				Tenant:    tenant,
				Collected: true,
				Balance:   remaining,
				PaidUntil: &paidUntil,
			})
			message += fmt.Sprintf("*Rent paid until*: %s\n*Account Balance*: %s\n\n",
				paidUntil.Format("2006-01-02"), remaining.StringFixed(2))
		} else {
			needed := tenant.WeeklyRent.Sub(reserve.Balance)
			summary.Collections = append(summary.Collections, domain.RentCollection{
				Tenant:       tenant,
				Collected:    false,
				Balance:      reserve.Balance,
				AmountNeeded: needed,
			})
			message += fmt.Sprintf("__*Insufficient Funds*__\n*Account Balance*: %s\n*Minimum Amount Needed*: %s\n\n",
				reserve.Balance.StringFixed(2), needed.StringFixed(2))
		}
	}

	s.Notify(ctx, domain.ChannelHouseholdFinances, message)
	return summary, nil
}

// ReserveIncomingRent earmarks an incoming household credit for the tenant
// whose statement fragment matches. Tenants on the monthly-minimum policy
// have the reservation floored at a full month of rent.
func (s *orchestratorService) ReserveIncomingRent(ctx context.Context, tx domain.Transaction) error {
	if tx.ThirdParty == "" {
		return nil
	}

	tenants, err := s.planner.Tenants(ctx)
	if err != nil {
		return err
	}

	for _, tenant := range tenants {
		if tenant.NameInStatement == "" ||
			!strings.Contains(strings.ToLower(tx.ThirdParty), strings.ToLower(tenant.NameInStatement)) {
			continue
		}

		amount := tx.Amount
		if tenant.MonthlyMinimum {
			monthlyRent := tenant.WeeklyRent.Mul(decimal.NewFromInt(int64(weekdaysInMonth(s.now(), time.Friday))))
			if amount.LessThan(monthlyRent) {
				amount = monthlyRent
			}
		}

		cash, err := s.household.GetCashAccount(ctx, tenant.CurrencyCode)
		if err != nil {
			return err
		}
		reserve, err := s.household.GetOrCreateReserveAccount(ctx, tenant.ReserveAccountName(), tenant.CurrencyCode)
		if err != nil {
			return err
		}

		if _, err := s.household.Transfer(ctx, domain.TransferRequest{
			Source:    cash.Ref(),
			Target:    reserve.Ref(),
			Amount:    amount,
			Reference: "Incoming rent " + tenant.Name,
		}); err != nil {
			return err
		}

		s.LogInfo(ctx, "Incoming rent reserved",
			slog.String("tenant", tenant.Name),
			slog.String("amount", amount.String()))
		return nil
	}

	s.LogDebug(ctx, "Incoming household credit matched no tenant",
		slog.String("third_party", tx.ThirdParty))
	return nil
}
