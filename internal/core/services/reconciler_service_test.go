package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
	"github.com/vitaops/vita/internal/core/services"
)

type ReconcilerServiceTestSuite struct {
	suite.Suite
	mockLedger       *MockLedgerService
	mockHousehold    *MockLedgerService
	mockConfig       *MockConfigurationSource
	mockNotifier     *MockNotifier
	mockDeliveries   *MockDeliveryRepository
	mockOrganizer    *MockMonthlyOrganizer
	mockRentReserver *MockRentReserver
	service          portssvc.ReconcilerSvc
}

func (suite *ReconcilerServiceTestSuite) SetupTest() {
	suite.mockLedger = new(MockLedgerService)
	suite.mockHousehold = new(MockLedgerService)
	suite.mockConfig = new(MockConfigurationSource)
	suite.mockNotifier = new(MockNotifier)
	suite.mockDeliveries = new(MockDeliveryRepository)
	suite.mockOrganizer = new(MockMonthlyOrganizer)
	suite.mockRentReserver = new(MockRentReserver)
	suite.mockNotifier.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	planner := services.NewPlannerService(suite.mockLedger, suite.mockHousehold, suite.mockConfig, "NZD")
	suite.service = services.NewReconcilerService(
		suite.mockLedger,
		suite.mockHousehold,
		planner,
		suite.mockOrganizer,
		suite.mockRentReserver,
		suite.mockConfig,
		suite.mockDeliveries,
		suite.mockNotifier,
		decimal.NewFromInt(1000),
		"NZD",
		services.WithReconcilerClock(func() time.Time { return fixedNow }),
	)
}

const creditPayload = `{
	"data": {
		"amount": 125.50,
		"currency": "NZD",
		"transaction_type": "credit",
		"occurred_at": "2025-07-15T09:00:00Z",
		"transfer_reference": "A Smith | 98-7654-3210987-00"
	},
	"event_type": "balances#update"
}`

func (suite *ReconcilerServiceTestSuite) expectedPartiesFixture() {
	suite.mockConfig.On("GetTable", mock.Anything, "Expected Parties").Return([]ports.Row{
		{"Name": "Alice", "Name in Statement": "a smith", "Currency": "NZD", "Merchants": "Countdown"},
	}, nil)
}

// settingsWithoutReserveCheck keeps the advisory cash-reserve check inert.
func (suite *ReconcilerServiceTestSuite) settingsWithoutReserveCheck() {
	suite.mockConfig.On("GetSettings", mock.Anything).Return(map[string]string{
		"Month":                  "2025-07",
		"Salary":                 "5000",
		"Savings Account Number": "12-3456-7890123-00",
	}, nil)
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_DuplicateSuppressed() {
	ctx := context.Background()

	suite.mockDeliveries.On("Exists", ctx, "d1").Return(true, nil).Once()

	outcome, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(creditPayload), "d1")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeSuppressed, outcome)
	suite.mockLedger.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
	suite.mockDeliveries.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_UnparsablePayload() {
	ctx := context.Background()

	suite.mockDeliveries.On("Exists", ctx, "d2").Return(false, nil).Once()

	outcome, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(`{"event_type":"ping"}`), "d2")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeLoggedUnknown, outcome)
	suite.mockLedger.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything)
	// Un-parsable deliveries are not recorded so a corrected redelivery can
	// still be processed.
	suite.mockDeliveries.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_CreditMatchesParty() {
	ctx := context.Background()
	suite.expectedPartiesFixture()
	suite.settingsWithoutReserveCheck()

	suite.mockDeliveries.On("Exists", ctx, "d3").Return(false, nil).Once()
	suite.mockLedger.On("GetOrCreateReserveAccount", ctx, "Alice [Reserve]", "NZD").
		Return(&domain.ReserveAccount{AccountID: "alice", Name: "Alice [Reserve]", CurrencyCode: "NZD", Balance: decimal.NewFromInt(10)}, nil).Once()
	suite.mockLedger.On("GetCashAccount", ctx, "NZD").
		Return(&domain.CashAccount{AccountID: "cash", CurrencyCode: "NZD", Balance: decimal.NewFromInt(500)}, nil)
	suite.mockLedger.On("Transfer", ctx, transferOf("cash", "alice", "125.50")).
		Return(&domain.TransferResult{TransferID: "t1"}, nil).Once()
	suite.mockDeliveries.On("Record", ctx, "d3").Return(nil).Once()

	outcome, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(creditPayload), "d3")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeProcessed, outcome)
	suite.mockLedger.AssertExpectations(suite.T())
	suite.mockDeliveries.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_CreditUnknownCounterparty() {
	ctx := context.Background()
	suite.settingsWithoutReserveCheck()
	suite.mockConfig.On("GetTable", mock.Anything, "Expected Parties").Return([]ports.Row{}, nil)

	suite.mockDeliveries.On("Exists", ctx, "d4").Return(false, nil).Once()
	// Nothing matches, so the full amount lands in the unknown reserve.
	suite.mockLedger.On("GetOrCreateReserveAccount", ctx, "Unknown [Reserve]", "NZD").
		Return(&domain.ReserveAccount{AccountID: "unknown", Name: "Unknown [Reserve]", CurrencyCode: "NZD"}, nil).Once()
	suite.mockLedger.On("GetCashAccount", ctx, "NZD").
		Return(&domain.CashAccount{AccountID: "cash", CurrencyCode: "NZD", Balance: decimal.NewFromInt(500)}, nil)
	suite.mockLedger.On("Transfer", ctx, transferOf("cash", "unknown", "125.50")).
		Return(&domain.TransferResult{TransferID: "t1"}, nil).Once()
	suite.mockDeliveries.On("Record", ctx, "d4").Return(nil).Once()

	outcome, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(creditPayload), "d4")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeProcessed, outcome)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_SequentialReplayCreditsOnce() {
	ctx := context.Background()
	suite.expectedPartiesFixture()
	suite.settingsWithoutReserveCheck()

	suite.mockDeliveries.On("Exists", ctx, "d5").Return(false, nil).Once()
	suite.mockDeliveries.On("Exists", ctx, "d5").Return(true, nil).Once()
	suite.mockLedger.On("GetOrCreateReserveAccount", ctx, "Alice [Reserve]", "NZD").
		Return(&domain.ReserveAccount{AccountID: "alice", Name: "Alice [Reserve]", CurrencyCode: "NZD"}, nil)
	suite.mockLedger.On("GetCashAccount", ctx, "NZD").
		Return(&domain.CashAccount{AccountID: "cash", CurrencyCode: "NZD", Balance: decimal.NewFromInt(500)}, nil)
	suite.mockLedger.On("Transfer", ctx, mock.Anything).
		Return(&domain.TransferResult{TransferID: "t1"}, nil)
	suite.mockDeliveries.On("Record", ctx, "d5").Return(nil).Once()

	first, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(creditPayload), "d5")
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeProcessed, first)

	second, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(creditPayload), "d5")
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeSuppressed, second)

	suite.mockLedger.AssertNumberOfCalls(suite.T(), "Transfer", 1)
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_UnplannedDebitDrawsFromDailyReserve() {
	ctx := context.Background()
	suite.expectedPartiesFixture()
	suite.settingsWithoutReserveCheck()
	suite.mockConfig.On("GetTable", mock.Anything, "Needs").Return([]ports.Row{}, nil)
	suite.mockConfig.On("GetTable", mock.Anything, "Wants").Return([]ports.Row{}, nil)
	suite.mockConfig.On("GetTable", mock.Anything, "Scheduled Transfers").Return([]ports.Row{}, nil)
	suite.mockLedger.On("GetRecipient", ctx, "12-3456-7890123-00").
		Return(&domain.Recipient{RecipientID: "savings", AccountNumber: "12-3456-7890123-00", CurrencyCode: "NZD"}, nil)

	debitPayload := `{
		"data": {
			"amount": 60,
			"currency": "NZD",
			"transaction_type": "debit",
			"occurred_at": "2025-07-15T09:00:00Z",
			"transfer_reference": "Unplanned Cafe | card"
		}
	}`

	suite.mockDeliveries.On("Exists", ctx, "d6").Return(false, nil).Once()
	suite.mockLedger.On("GetOrCreateReserveAccount", ctx, "Daily Expenses (Needs)", "NZD").
		Return(&domain.ReserveAccount{AccountID: "daily", Name: "Daily Expenses (Needs)", CurrencyCode: "NZD", Balance: decimal.NewFromInt(500)}, nil).Once()
	suite.mockLedger.On("GetCashAccount", ctx, "NZD").
		Return(&domain.CashAccount{AccountID: "cash", CurrencyCode: "NZD", Balance: decimal.NewFromInt(40)}, nil)
	suite.mockLedger.On("Transfer", ctx, transferOf("daily", "cash", "60")).
		Return(&domain.TransferResult{TransferID: "t1"}, nil).Once()
	suite.mockDeliveries.On("Record", ctx, "d6").Return(nil).Once()

	outcome, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(debitPayload), "d6")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeProcessed, outcome)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestPrimaryUpdate_SharedExpenseSplitsInHalf() {
	ctx := context.Background()
	suite.expectedPartiesFixture()
	suite.settingsWithoutReserveCheck()
	suite.mockConfig.On("GetTable", mock.Anything, "Needs").Return([]ports.Row{}, nil)
	suite.mockConfig.On("GetTable", mock.Anything, "Wants").Return([]ports.Row{}, nil)
	suite.mockConfig.On("GetTable", mock.Anything, "Scheduled Transfers").Return([]ports.Row{}, nil)
	suite.mockLedger.On("GetRecipient", ctx, "12-3456-7890123-00").
		Return(&domain.Recipient{RecipientID: "savings", AccountNumber: "12-3456-7890123-00", CurrencyCode: "NZD"}, nil)

	sharedPayload := `{
		"data": {
			"amount": 100,
			"currency": "NZD",
			"transaction_type": "debit",
			"occurred_at": "2025-07-15T09:00:00Z",
			"transfer_reference": "Countdown | card"
		}
	}`

	suite.mockDeliveries.On("Exists", ctx, "d7").Return(false, nil).Once()
	suite.mockLedger.On("GetOrCreateReserveAccount", ctx, "Alice [Reserve]", "NZD").
		Return(&domain.ReserveAccount{AccountID: "alice", Name: "Alice [Reserve]", CurrencyCode: "NZD", Balance: decimal.NewFromInt(200)}, nil).Once()
	suite.mockLedger.On("GetOrCreateReserveAccount", ctx, "Daily Expenses (Needs)", "NZD").
		Return(&domain.ReserveAccount{AccountID: "daily", Name: "Daily Expenses (Needs)", CurrencyCode: "NZD", Balance: decimal.NewFromInt(500)}, nil).Once()
	suite.mockLedger.On("GetCashAccount", ctx, "NZD").
		Return(&domain.CashAccount{AccountID: "cash", CurrencyCode: "NZD", Balance: decimal.NewFromInt(40)}, nil)
	suite.mockLedger.On("Transfer", ctx, transferOf("alice", "cash", "50")).
		Return(&domain.TransferResult{TransferID: "t1"}, nil).Once()
	suite.mockLedger.On("Transfer", ctx, transferOf("daily", "cash", "50")).
		Return(&domain.TransferResult{TransferID: "t2"}, nil).Once()
	suite.mockDeliveries.On("Record", ctx, "d7").Return(nil).Once()

	outcome, err := suite.service.HandlePrimaryBalanceUpdate(ctx, []byte(sharedPayload), "d7")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeProcessed, outcome)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestSecondaryUpdate_CreditReservesRent() {
	ctx := context.Background()

	rentPayload := `{
		"data": {
			"amount": 250,
			"currency": "NZD",
			"transaction_type": "credit",
			"occurred_at": "2025-07-15T09:00:00Z",
			"transfer_reference": "R BOB | weekly rent"
		}
	}`

	suite.mockDeliveries.On("Exists", ctx, "d8").Return(false, nil).Once()
	suite.mockRentReserver.On("ReserveIncomingRent", ctx, mock.MatchedBy(func(tx domain.Transaction) bool {
		return tx.ThirdParty == "R BOB" && tx.Amount.Equal(decimal.NewFromInt(250))
	})).Return(nil).Once()
	suite.mockDeliveries.On("Record", ctx, "d8").Return(nil).Once()

	outcome, err := suite.service.HandleSecondaryBalanceUpdate(ctx, []byte(rentPayload), "d8")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeProcessed, outcome)
	suite.mockRentReserver.AssertExpectations(suite.T())
}

func (suite *ReconcilerServiceTestSuite) TestOrganizeTransactions_SalaryCreditTriggersMonthly() {
	ctx := context.Background()

	suite.mockConfig.On("GetSettings", mock.Anything).Return(map[string]string{
		"Month":                      "2025-07",
		"Employer Name in Statement": "acme ltd",
	}, nil)

	suite.mockLedger.On("GetTransactions", ctx, "NZD", fixedNow.Add(-1*time.Hour)).Return([]domain.Transaction{
		{
			TransactionID: "tx1",
			Type:          domain.TransactionTransfer,
			Amount:        decimal.NewFromInt(5000),
			CurrencyCode:  "NZD",
			ThirdParty:    "ACME Ltd Payroll",
			OccurredAt:    fixedNow,
		},
	}, nil).Once()

	nextMonth := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	suite.mockOrganizer.On("OrganizeMonthlyFinances", ctx, nextMonth).
		Return(&domain.MonthlySummary{Month: nextMonth}, nil).Once()

	err := suite.service.OrganizeTransactions(ctx)

	suite.Require().NoError(err)
	suite.mockOrganizer.AssertExpectations(suite.T())
}

func TestReconcilerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerServiceTestSuite))
}
