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

// Configuration sheet and settings names the planner reads.
const (
	sheetScheduled      = "Scheduled Transfers"
	sheetExpectedParty  = "Expected Parties"
	sheetTenants        = "Tenants"
	settingSalary       = "Salary"
	settingMonth        = "Month"
	settingSavings      = "Savings Account Number"
	settingCashReserve  = "Cash Reserve"
	settingEmployerName = "Employer Name in Statement"
)

const settingMonthFormat = "2006-01"

// plannerService derives MonthlyPlan, DailyBudgetState and the registries
// (expected parties, tenants) from the configuration source. It performs no
// transfers; its only ledger writes are idempotent reserve get-or-creates.
type plannerService struct {
	BaseService
	ledger          ports.LedgerService
	household       ports.LedgerService
	configSource    ports.ConfigurationSource
	primaryCurrency string
}

// NewPlannerService creates the budget planner. The household ledger is
// only used to resolve tenant reserves.
func NewPlannerService(ledger, household ports.LedgerService, configSource ports.ConfigurationSource, primaryCurrency string) portssvc.PlannerSvc {
	return &plannerService{
		ledger:          ledger,
		household:       household,
		configSource:    configSource,
		primaryCurrency: primaryCurrency,
	}
}

var _ portssvc.PlannerSvc = (*plannerService)(nil)

func (s *plannerService) MonthlyPlan(ctx context.Context, month time.Time) (*domain.MonthlyPlan, error) {
	settings, err := s.configSource.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := s.checkDeclaredMonth(settings, month); err != nil {
		s.LogError(ctx, err, "Configured month does not match requested month",
			slog.String("requested_month", month.Format(settingMonthFormat)))
		return nil, err
	}

	salary, err := settingDecimal(settings, settingSalary)
	if err != nil {
		return nil, err
	}

	session := newLedgerSession(s.ledger)

	needs, err := s.categoryExpenses(ctx, session, domain.CategoryNeeds)
	if err != nil {
		return nil, err
	}
	wants, err := s.categoryExpenses(ctx, session, domain.CategoryWants)
	if err != nil {
		return nil, err
	}
	scheduled, err := s.scheduledExpenses(ctx)
	if err != nil {
		return nil, err
	}

	savings, err := s.savingsExpense(ctx, settings, salary, needs, wants, scheduled)
	if err != nil {
		return nil, err
	}

	plan := &domain.MonthlyPlan{
		Month:      month,
		Salary:     salary,
		NeedsTotal: sumExpenses(needs),
		WantsTotal: sumExpenses(wants),
		Needs:      needs,
		Wants:      wants,
		Scheduled:  scheduled,
		Savings:    *savings,
	}

	s.LogDebug(ctx, "Monthly plan derived",
		slog.String("month", month.Format(settingMonthFormat)),
		slog.Int("needs", len(needs)),
		slog.Int("wants", len(wants)),
		slog.Int("scheduled", len(scheduled)))
	return plan, nil
}

// checkDeclaredMonth enforces that the workbook is the one for the
// requested month before any amount is trusted.
func (s *plannerService) checkDeclaredMonth(settings map[string]string, month time.Time) error {
	raw, ok := settings[settingMonth]
	if !ok {
		return fmt.Errorf("setting %q is missing: %w", settingMonth, apperrors.ErrConfiguration)
	}
	declared, err := time.Parse(settingMonthFormat, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("setting %q is not a month (%q): %w", settingMonth, raw, apperrors.ErrConfiguration)
	}
	if declared.Year() != month.Year() || declared.Month() != month.Month() {
		return fmt.Errorf("configuration is for %s, not %s: %w",
			declared.Format(settingMonthFormat), month.Format(settingMonthFormat), apperrors.ErrConfiguration)
	}
	return nil
}

func (s *plannerService) categoryExpenses(ctx context.Context, session *ledgerSession, category domain.PlannedExpenseCategory) ([]domain.PlannedExpense, error) {
	rows, err := s.configSource.GetTable(ctx, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", category, err)
	}

	expenses := make([]domain.PlannedExpense, 0, len(rows))
	for _, row := range rows {
		description := row.String("Description")
		amount, err := row.Decimal("Amount")
		if err != nil {
			return nil, fmt.Errorf("sheet %q, row %q: %v: %w", category, description, err, apperrors.ErrConfiguration)
		}
		currency := row.String("Currency")

		reserve, err := session.Reserve(ctx, domain.ReserveAccountName(description, category), currency)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, domain.PlannedExpense{
			Description:    description,
			Amount:         amount,
			CurrencyCode:   currency,
			ReserveAccount: reserve,
			Merchant:       row.String("Merchant"),
		})
	}
	return expenses, nil
}

func (s *plannerService) scheduledExpenses(ctx context.Context) ([]domain.PlannedExpense, error) {
	rows, err := s.configSource.GetTable(ctx, sheetScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetScheduled, err)
	}

	expenses := make([]domain.PlannedExpense, 0, len(rows))
	for _, row := range rows {
		description := row.String("Description")
		amount, err := row.Decimal("Amount")
		if err != nil {
			return nil, fmt.Errorf("sheet %q, row %q: %v: %w", sheetScheduled, description, err, apperrors.ErrConfiguration)
		}
		currency := row.String("Currency")

		recipient, err := s.ledger.GetRecipient(ctx, row.String("Account Number"))
		if err != nil {
			return nil, err
		}
		if recipient.CurrencyCode != currency {
			return nil, fmt.Errorf("scheduled transfer %q declares %s but recipient %s is in %s: %w",
				description, currency, recipient.AccountNumber, recipient.CurrencyCode, apperrors.ErrConfiguration)
		}

		expenses = append(expenses, domain.PlannedExpense{
			Description:             description,
			Amount:                  amount,
			CurrencyCode:            currency,
			Recipient:               recipient,
			NotificationPhoneNumber: row.String("Notification Phone Number"),
		})
	}
	return expenses, nil
}

// savingsExpense computes the savings remainder: salary minus every planned
// expense, quote-converted into the cash account's currency where needed.
func (s *plannerService) savingsExpense(ctx context.Context, settings map[string]string, salary decimal.Decimal, lists ...[]domain.PlannedExpense) (*domain.PlannedExpense, error) {
	cash, err := s.ledger.GetCashAccount(ctx, s.primaryCurrency)
	if err != nil {
		return nil, err
	}

	amount := salary
	for _, list := range lists {
		for _, expense := range list {
			target := expense.Target()
			if target.CurrencyCode == cash.CurrencyCode {
				amount = amount.Sub(expense.Amount)
				continue
			}
			quote, err := s.ledger.GetQuote(ctx, cash.CurrencyCode, target.CurrencyCode, expense.Amount)
			if err != nil {
				return nil, err
			}
			// The source-currency cost, not the face amount, is what leaves
			// the cash account.
			amount = amount.Sub(quote.FromAmount)
		}
	}

	accountNumber, ok := settings[settingSavings]
	if !ok || strings.TrimSpace(accountNumber) == "" {
		return nil, fmt.Errorf("setting %q is missing: %w", settingSavings, apperrors.ErrConfiguration)
	}
	recipient, err := s.ledger.GetRecipient(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		return nil, err
	}

	return &domain.PlannedExpense{
		Description:  "Savings",
		Amount:       amount,
		CurrencyCode: recipient.CurrencyCode,
		Recipient:    recipient,
	}, nil
}

func (s *plannerService) ExpectedParties(ctx context.Context) ([]domain.ExpectedParty, error) {
	rows, err := s.configSource.GetTable(ctx, sheetExpectedParty)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetExpectedParty, err)
	}

	parties := make([]domain.ExpectedParty, 0, len(rows))
	for _, row := range rows {
		party := domain.ExpectedParty{
			Name:                    row.String("Name"),
			NameInStatement:         row.String("Name in Statement"),
			CurrencyCode:            row.String("Currency"),
			NotificationPhoneNumber: row.String("Notification Phone Number"),
		}
		if merchants := row.String("Merchants"); merchants != "" {
			for _, merchant := range strings.Split(merchants, ",") {
				if merchant = strings.TrimSpace(merchant); merchant != "" {
					party.Merchants = append(party.Merchants, merchant)
				}
			}
		}
		parties = append(parties, party)
	}
	return parties, nil
}

func (s *plannerService) Tenants(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := s.configSource.GetTable(ctx, sheetTenants)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetTenants, err)
	}

	tenants := make([]domain.Tenant, 0, len(rows))
	for _, row := range rows {
		name := row.String("Name")
		rent, err := row.Decimal("Weekly Rent")
		if err != nil {
			return nil, fmt.Errorf("sheet %q, row %q: %v: %w", sheetTenants, name, err, apperrors.ErrConfiguration)
		}
		tenants = append(tenants, domain.Tenant{
			Name:            name,
			NameInStatement: row.String("Name in Statement"),
			WeeklyRent:      rent,
			CurrencyCode:    row.String("Currency"),
			MonthlyMinimum:  row.Bool("Monthly Minimum"),
		})
	}
	return tenants, nil
}

// DailyBudgetState is the daily-budget arithmetic: all rounding is half-up
// to two decimal places.
func (s *plannerService) DailyBudgetState(monthlyBudget, cashBalance, reserveBalance decimal.Decimal, today time.Time) domain.DailyBudgetState {
	daysInMonth := decimal.NewFromInt(int64(daysInMonth(today)))
	dailyBudget := monthlyBudget.Div(daysInMonth).Round(2)

	endOfDay := monthlyBudget.Sub(dailyBudget.Mul(decimal.NewFromInt(int64(today.Day())))).Round(2)
	startOfDay := endOfDay.Add(dailyBudget)

	state := domain.DailyBudgetState{
		MonthlyBudget:               monthlyBudget,
		DailyBudget:                 dailyBudget,
		ExpectedBalanceAtStartOfDay: startOfDay,
		ExpectedBalanceAtEndOfDay:   endOfDay,
		AmountUnderBudget:           cashBalance.Add(reserveBalance).Sub(startOfDay),
	}

	if state.AmountUnderBudget.IsNegative() {
		state.IsOverBudget = true
		state.AmountOverBudget = state.AmountUnderBudget.Neg()
		state.DaysUntilBudgetReached = int(state.AmountOverBudget.Div(dailyBudget).Ceil().IntPart())
		reached := today.AddDate(0, 0, state.DaysUntilBudgetReached)
		state.DateBudgetReached = &reached
	}
	return state
}

func settingDecimal(settings map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := settings[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("setting %q is missing: %w", key, apperrors.ErrConfiguration)
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("setting %q is not a decimal (%q): %w", key, raw, apperrors.ErrConfiguration)
	}
	return value, nil
}

func sumExpenses(expenses []domain.PlannedExpense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func firstDayOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

func currentMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// weekdaysInMonth counts how many times a weekday occurs in t's month.
func weekdaysInMonth(t time.Time, weekday time.Weekday) int {
	count := 0
	for day := 1; day <= daysInMonth(t); day++ {
		if time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location()).Weekday() == weekday {
			count++
		}
	}
	return count
}
