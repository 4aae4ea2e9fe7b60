package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
	"github.com/vitaops/vita/internal/dto"
)

// counterpartySeparator splits a raw statement line; only the first segment
// names the counterparty.
const counterpartySeparator = " | "

// reconcilerService classifies each inbound balance update exactly once and
// routes funds to or from the matching reserve. Side effects run before the
// delivery id is recorded: a crash mid-delivery causes reprocessing, never
// a silently dropped financial event.
type reconcilerService struct {
	BaseService
	ledger          ports.LedgerService
	household       ports.LedgerService
	planner         portssvc.PlannerSvc
	organizer       portssvc.MonthlyOrganizerSvc
	rentReserver    portssvc.RentReserverSvc
	configSource    ports.ConfigurationSource
	deliveries      ports.WebhookDeliveryRepository
	monthlyBudget   decimal.Decimal
	primaryCurrency string
	now             func() time.Time
}

// ReconcilerOption is a functional option for configuring the reconciler
type ReconcilerOption func(*reconcilerService)

// WithReconcilerClock overrides the wall clock, for tests.
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(s *reconcilerService) {
		s.now = now
	}
}

// NewReconcilerService creates the transaction reconciler.
func NewReconcilerService(
	ledger, household ports.LedgerService,
	planner portssvc.PlannerSvc,
	organizer portssvc.MonthlyOrganizerSvc,
	rentReserver portssvc.RentReserverSvc,
	configSource ports.ConfigurationSource,
	deliveries ports.WebhookDeliveryRepository,
	notifier ports.Notifier,
	monthlyBudget decimal.Decimal,
	primaryCurrency string,
	options ...ReconcilerOption,
) portssvc.ReconcilerSvc {
	svc := &reconcilerService{
		BaseService:     BaseService{Notifier: notifier},
		ledger:          ledger,
		household:       household,
		planner:         planner,
		organizer:       organizer,
		rentReserver:    rentReserver,
		configSource:    configSource,
		deliveries:      deliveries,
		monthlyBudget:   monthlyBudget,
		primaryCurrency: primaryCurrency,
		now:             time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.ReconcilerSvc = (*reconcilerService)(nil)

// parseBalanceUpdate is the single normalizing parse step. Anything it
// cannot make sense of becomes an Unparsable update, never an error.
func parseBalanceUpdate(payload []byte, deliveryID string) domain.BalanceUpdate {
	update := domain.BalanceUpdate{Kind: domain.BalanceUpdateUnparsable, DeliveryID: deliveryID}

	var envelope dto.WiseWebhookPayload
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return update
	}
	if envelope.Data.Currency == "" || !envelope.Data.Amount.IsPositive() {
		return update
	}

	switch strings.ToLower(envelope.Data.TransactionType) {
	case "credit":
		update.Kind = domain.BalanceUpdateCredit
	case "debit":
		update.Kind = domain.BalanceUpdateDebit
	default:
		return update
	}

	update.Amount = envelope.Data.Amount
	update.CurrencyCode = envelope.Data.Currency
	update.Counterparty = envelope.Data.TransferReference
	update.Reference = envelope.Data.TransferReference
	update.OccurredAt = envelope.Data.OccurredAt
	return update
}

// counterpartyName extracts the counterparty from a raw statement line.
func counterpartyName(raw string) string {
	name, _, _ := strings.Cut(raw, counterpartySeparator)
	return strings.TrimSpace(name)
}

func (s *reconcilerService) HandlePrimaryBalanceUpdate(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error) {
	return s.handleBalanceUpdate(ctx, payload, deliveryID, s.processPrimaryUpdate)
}

func (s *reconcilerService) HandleSecondaryBalanceUpdate(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error) {
	return s.handleBalanceUpdate(ctx, payload, deliveryID, s.processSecondaryUpdate)
}

// handleBalanceUpdate runs the shared delivery state machine: duplicate
// check, parse, process, then record. Two racing deliveries with the same
// id can both pass the duplicate check; that race is accepted — the store
// is the durable dedupe for sequential redelivery, not a mutex.
func (s *reconcilerService) handleBalanceUpdate(ctx context.Context, payload []byte, deliveryID string, process func(context.Context, domain.BalanceUpdate) error) (domain.ReconcileOutcome, error) {
	duplicate, err := s.deliveries.Exists(ctx, deliveryID)
	if err != nil {
		return "", fmt.Errorf("failed to check delivery id: %w", err)
	}
	if duplicate {
		s.LogInfo(ctx, "Duplicate balance update suppressed", slog.String("delivery_id", deliveryID))
		return domain.OutcomeSuppressed, nil
	}

	update := parseBalanceUpdate(payload, deliveryID)
	if update.Kind == domain.BalanceUpdateUnparsable {
		s.LogDebug(ctx, "Un-parsable balance update received",
			slog.String("delivery_id", deliveryID),
			slog.String("payload", string(payload)))
		return domain.OutcomeLoggedUnknown, nil
	}

	if err := process(ctx, update); err != nil {
		// The delivery id is deliberately not recorded: the sender retries
		// and the update is reprocessed from scratch.
		return "", err
	}

	if err := s.deliveries.Record(ctx, deliveryID); err != nil {
		return "", fmt.Errorf("failed to record delivery id: %w", err)
	}
	return domain.OutcomeProcessed, nil
}

func (s *reconcilerService) processPrimaryUpdate(ctx context.Context, update domain.BalanceUpdate) error {
	s.notifyActivity(ctx, update)

	switch update.Kind {
	case domain.BalanceUpdateCredit:
		return s.processCredit(ctx, update)
	case domain.BalanceUpdateDebit:
		return s.processDebit(ctx, update)
	}
	return nil
}

// processSecondaryUpdate handles the household profile: incoming credits
// are reserved against the matching tenant, debits are only logged.
func (s *reconcilerService) processSecondaryUpdate(ctx context.Context, update domain.BalanceUpdate) error {
	if update.Kind != domain.BalanceUpdateCredit {
		s.LogDebug(ctx, "Ignoring household debit", slog.String("delivery_id", update.DeliveryID))
		return nil
	}
	return s.rentReserver.ReserveIncomingRent(ctx, domain.Transaction{
		Type:         domain.TransactionTransfer,
		Amount:       update.Amount,
		CurrencyCode: update.CurrencyCode,
		ThirdParty:   counterpartyName(update.Counterparty),
		OccurredAt:   update.OccurredAt,
	})
}

// notifyActivity mirrors every parsed update into the activity feed.
func (s *reconcilerService) notifyActivity(ctx context.Context, update domain.BalanceUpdate) {
	amount := update.Amount
	if update.Kind == domain.BalanceUpdateDebit {
		amount = amount.Neg()
	}
	s.Notify(ctx, domain.ChannelWise, fmt.Sprintf(
		"**__Wise Account Update__**\n"+
			"Event: Funds Moved\n"+
			"Timestamp: %s\n"+
			"Amount: %s %s\n"+
			"Reference: %s",
		update.OccurredAt.Format(time.RFC3339),
		update.CurrencyCode, amount.StringFixed(2),
		update.Reference))
}

// processCredit routes an incoming credit into the matched expected party's
// reserve, or the Unknown reserve when nobody matches.
func (s *reconcilerService) processCredit(ctx context.Context, update domain.BalanceUpdate) error {
	parties, err := s.planner.ExpectedParties(ctx)
	if err != nil {
		return err
	}

	counterparty := counterpartyName(update.Counterparty)
	party := domain.UnknownParty(update.CurrencyCode)
	for _, candidate := range parties {
		if candidate.MatchesStatement(counterparty) {
			party = candidate
			break
		}
	}

	session := newLedgerSession(s.ledger)
	reserve, err := session.Reserve(ctx, party.ReserveAccountName(), update.CurrencyCode)
	if err != nil {
		return err
	}
	cash, err := s.ledger.GetCashAccount(ctx, update.CurrencyCode)
	if err != nil {
		return err
	}

	if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
		Source:    cash.Ref(),
		Target:    reserve.Ref(),
		Amount:    update.Amount,
		Reference: update.Reference,
	}); err != nil {
		return err
	}

	from := counterparty
	if !party.IsUnknown {
		from = party.Name
	}
	s.Notify(ctx, domain.ChannelWise, fmt.Sprintf(
		"**Account Credited**\n"+
			"*From*: %s\n"+
			"*Amount*: %s %s\n"+
			"*Reserve Account Balance*: %s %s",
		from,
		update.CurrencyCode, update.Amount.StringFixed(2),
		update.CurrencyCode, reserve.Balance.Add(update.Amount).StringFixed(2)))

	if party.NotificationPhoneNumber != "" {
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"A fund transfer of %s %s has been received (%s).",
			update.CurrencyCode, update.Amount.StringFixed(2), party.NotificationPhoneNumber))
	}

	s.checkCashReserve(ctx)
	return nil
}

// processDebit classifies an outgoing card purchase: shared expense first,
// then a planned expense by merchant, otherwise an unplanned expense
// absorbed by the daily-expense reserve.
func (s *reconcilerService) processDebit(ctx context.Context, update domain.BalanceUpdate) error {
	merchant := counterpartyName(update.Counterparty)
	session := newLedgerSession(s.ledger)

	var sharedParty *domain.ExpectedParty
	parties, err := s.planner.ExpectedParties(ctx)
	if err != nil {
		return err
	}
	for i, candidate := range parties {
		if candidate.MatchesMerchant(merchant) {
			sharedParty = &parties[i]
			break
		}
	}

	plannedExpense, err := s.plannedExpenseByMerchant(ctx, merchant)
	if err != nil {
		return err
	}

	switch {
	case sharedParty != nil:
		err = s.settleSharedExpense(ctx, session, update, *sharedParty, plannedExpense)
	case plannedExpense != nil:
		err = s.drawDownPlannedExpense(ctx, session, plannedExpense, update.Amount)
	default:
		err = s.topUpFromDailyReserve(ctx, session, update.Amount)
	}
	if err != nil {
		return err
	}

	s.checkCashReserve(ctx)
	return nil
}

// plannedExpenseByMerchant finds the current month's needs/wants line item
// tagged with the given merchant name, or nil when none is.
func (s *reconcilerService) plannedExpenseByMerchant(ctx context.Context, merchant string) (*domain.PlannedExpense, error) {
	if merchant == "" {
		return nil, nil
	}
	plan, err := s.planner.MonthlyPlan(ctx, currentMonth(s.now()))
	if err != nil {
		return nil, err
	}
	for _, list := range [][]domain.PlannedExpense{plan.Needs, plan.Wants} {
		for i, expense := range list {
			if expense.Merchant != "" && strings.EqualFold(expense.Merchant, merchant) {
				return &list[i], nil
			}
		}
	}
	return nil, nil
}

// settleSharedExpense splits a shared purchase in half: one half from the
// shared party's reserve, the other from the household's own side (the
// matched planned-expense reserve, or the daily-expense reserve).
func (s *reconcilerService) settleSharedExpense(ctx context.Context, session *ledgerSession, update domain.BalanceUpdate, party domain.ExpectedParty, planned *domain.PlannedExpense) error {
	half := update.Amount.Div(decimal.NewFromInt(2)).Round(2)
	otherHalf := update.Amount.Sub(half)

	partyReserve, err := session.Reserve(ctx, party.ReserveAccountName(), update.CurrencyCode)
	if err != nil {
		return err
	}

	var ownReserve *domain.ReserveAccount
	if planned != nil && planned.ReserveAccount != nil {
		ownReserve = planned.ReserveAccount
	} else {
		ownReserve, err = session.Reserve(ctx, domain.ReserveDailyExpenses, update.CurrencyCode)
		if err != nil {
			return err
		}
	}

	if err := s.drawShare(ctx, session, partyReserve, half); err != nil {
		return err
	}
	return s.drawShare(ctx, session, ownReserve, otherHalf)
}

// drawShare withdraws one party's share of a shared expense from its
// reserve, capped at the available balance, and covers any remainder from
// the daily-expense reserve.
func (s *reconcilerService) drawShare(ctx context.Context, session *ledgerSession, reserve *domain.ReserveAccount, share decimal.Decimal) error {
	cash, err := s.ledger.GetCashAccount(ctx, reserve.CurrencyCode)
	if err != nil {
		return err
	}

	draw := decimal.Min(reserve.Balance, share)
	if draw.IsPositive() {
		if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
			Source: reserve.Ref(),
			Target: cash.Ref(),
			Amount: draw,
		}); err != nil {
			return err
		}
	}

	shortfall := share.Sub(draw)
	if !shortfall.IsPositive() {
		return nil
	}

	s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
		"**Insufficient funds for Shared Expense**\n"+
			"*Reserve Account*: %s\n"+
			"*Share*: %s %s\n"+
			"*Balance in Reserve Account*: %s %s\n"+
			"*Short of*: %s %s",
		reserve.Name,
		reserve.CurrencyCode, share.StringFixed(2),
		reserve.CurrencyCode, reserve.Balance.StringFixed(2),
		reserve.CurrencyCode, shortfall.StringFixed(2)))

	if reserve.Name == domain.ReserveDailyExpenses {
		// The fallback reserve itself is short; nothing further to draw on.
		return nil
	}
	return s.topUpFromDailyReserve(ctx, session, shortfall)
}

// drawDownPlannedExpense withdraws a personal planned expense from its
// category reserve, topping any shortfall up from the daily-expense
// reserve.
func (s *reconcilerService) drawDownPlannedExpense(ctx context.Context, session *ledgerSession, expense *domain.PlannedExpense, amount decimal.Decimal) error {
	reserve := expense.ReserveAccount
	cash, err := s.ledger.GetCashAccount(ctx, reserve.CurrencyCode)
	if err != nil {
		return err
	}

	draw := decimal.Min(reserve.Balance, amount)
	if amount.GreaterThan(draw) {
		shortfall := amount.Sub(reserve.Balance)
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"**Insufficient funds for Planned Expense**\n"+
				"*Planned Expense*: %s\n"+
				"*Amount*: %s %s\n"+
				"*Balance in Reserve Account*: %s %s\n"+
				"*Short of*: %s %s",
			expense.Description,
			reserve.CurrencyCode, amount.StringFixed(2),
			reserve.CurrencyCode, reserve.Balance.StringFixed(2),
			reserve.CurrencyCode, shortfall.StringFixed(2)))
		if err := s.topUpFromDailyReserve(ctx, session, shortfall); err != nil {
			return err
		}
	}

	if draw.IsPositive() {
		if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
			Source:    reserve.Ref(),
			Target:    cash.Ref(),
			Amount:    draw,
			Reference: expense.Description,
		}); err != nil {
			return err
		}
	}
	return nil
}

// topUpFromDailyReserve absorbs an unplanned amount by replenishing cash
// from the daily-expense reserve (capped at its balance), then reports the
// resulting daily-budget position.
func (s *reconcilerService) topUpFromDailyReserve(ctx context.Context, session *ledgerSession, amount decimal.Decimal) error {
	reserve, err := session.Reserve(ctx, domain.ReserveDailyExpenses, s.primaryCurrency)
	if err != nil {
		return err
	}
	cash, err := s.ledger.GetCashAccount(ctx, s.primaryCurrency)
	if err != nil {
		return err
	}

	topUp := decimal.Min(reserve.Balance, amount)
	if topUp.IsPositive() {
		if _, err := s.ledger.Transfer(ctx, domain.TransferRequest{
			Source: reserve.Ref(),
			Target: cash.Ref(),
			Amount: topUp,
		}); err != nil {
			return err
		}
	}

	state := s.planner.DailyBudgetState(s.monthlyBudget, cash.Balance, reserve.Balance.Sub(topUp), s.now())
	if state.IsOverBudget {
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"**Daily Budget Notification**\n"+
				"*Amount over budget*: %s %s\n"+
				"*Date when under budget*: %s (%d days)",
			s.primaryCurrency, state.AmountOverBudget.StringFixed(2),
			state.DateBudgetReached.Format("2006-01-02"), state.DaysUntilBudgetReached))
	} else {
		s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
			"**Daily Budget Notification**\n"+
				"*Amount within budget*: %s %s",
			s.primaryCurrency, state.AmountUnderBudget.StringFixed(2)))
	}
	return nil
}

// checkCashReserve compares the cash balance against the configured floor
// and reports any discrepancy. Purely advisory: every failure here is
// swallowed.
func (s *reconcilerService) checkCashReserve(ctx context.Context) {
	settings, err := s.configSource.GetSettings(ctx)
	if err != nil {
		s.LogDebug(ctx, "Skipping cash reserve check", slog.String("error", err.Error()))
		return
	}
	raw, ok := settings[settingCashReserve]
	if !ok {
		return
	}
	expected, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		s.LogDebug(ctx, "Invalid cash reserve setting", slog.String("value", raw))
		return
	}

	cash, err := s.ledger.GetCashAccount(ctx, s.primaryCurrency)
	if err != nil {
		s.LogDebug(ctx, "Skipping cash reserve check", slog.String("error", err.Error()))
		return
	}
	if cash.Balance.Equal(expected) {
		return
	}

	s.Notify(ctx, domain.ChannelNotification, fmt.Sprintf(
		"**Validating Cash Reserve**\n"+
			"*Expected Amount*: %s %s\n"+
			"*Actual Amount*: %s %s",
		cash.CurrencyCode, expected.StringFixed(2),
		cash.CurrencyCode, cash.Balance.StringFixed(2)))
}

// OrganizeTransactions sweeps the last hour of the transaction feed: card
// debits run through the debit path, and a credit from the employer kicks
// off the next month's organization.
func (s *reconcilerService) OrganizeTransactions(ctx context.Context) error {
	since := s.now().Add(-1 * time.Hour)
	transactions, err := s.ledger.GetTransactions(ctx, s.primaryCurrency, since)
	if err != nil {
		return err
	}

	settings, err := s.configSource.GetSettings(ctx)
	if err != nil {
		return err
	}
	employer := strings.TrimSpace(settings[settingEmployerName])

	for _, tx := range transactions {
		switch {
		case tx.Type == domain.TransactionCard && tx.Amount.IsNegative():
			update := domain.BalanceUpdate{
				Kind:         domain.BalanceUpdateDebit,
				Amount:       tx.Amount.Neg(),
				CurrencyCode: tx.CurrencyCode,
				Counterparty: tx.ThirdParty,
				OccurredAt:   tx.OccurredAt,
			}
			if err := s.processDebit(ctx, update); err != nil {
				return err
			}
		case tx.Amount.IsPositive() && employer != "" &&
			strings.Contains(strings.ToLower(tx.ThirdParty), strings.ToLower(employer)):
			s.LogInfo(ctx, "Salary credit detected, organizing next month's finances",
				slog.String("transaction_id", tx.TransactionID))
			if _, err := s.organizer.OrganizeMonthlyFinances(ctx, firstDayOfNextMonth(s.now())); err != nil {
				return err
			}
		}
	}

	s.checkCashReserve(ctx)
	return nil
}
