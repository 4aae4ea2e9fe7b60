package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
)

// MockLedgerService is a mock type for the LedgerService interface
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetCashAccount(ctx context.Context, currencyCode string) (*domain.CashAccount, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashAccount), args.Error(1)
}

func (m *MockLedgerService) GetOrCreateReserveAccount(ctx context.Context, name string, currencyCode string) (*domain.ReserveAccount, error) {
	args := m.Called(ctx, name, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReserveAccount), args.Error(1)
}

func (m *MockLedgerService) GetRecipient(ctx context.Context, accountNumber string) (*domain.Recipient, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipient), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockLedgerService) GetTransactions(ctx context.Context, currencyCode string, since time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, currencyCode, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) GetQuote(ctx context.Context, fromCurrencyCode, toCurrencyCode string, targetAmount decimal.Decimal) (*domain.Quote, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, targetAmount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// MockConfigurationSource is a mock type for the ConfigurationSource interface
type MockConfigurationSource struct {
	mock.Mock
}

func (m *MockConfigurationSource) GetTable(ctx context.Context, sheet string) ([]ports.Row, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.Row), args.Error(1)
}

func (m *MockConfigurationSource) GetSettings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, channel domain.Channel, message string) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

// MockDeliveryRepository is a mock type for the WebhookDeliveryRepository interface
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) Exists(ctx context.Context, deliveryID string) (bool, error) {
	args := m.Called(ctx, deliveryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRepository) Record(ctx context.Context, deliveryID string) error {
	args := m.Called(ctx, deliveryID)
	return args.Error(0)
}

// MockMonthlyOrganizer is a mock type for the MonthlyOrganizerSvc interface
type MockMonthlyOrganizer struct {
	mock.Mock
}

func (m *MockMonthlyOrganizer) OrganizeMonthlyFinances(ctx context.Context, month time.Time) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

// MockRentReserver is a mock type for the RentReserverSvc interface
type MockRentReserver struct {
	mock.Mock
}

func (m *MockRentReserver) ReserveIncomingRent(ctx context.Context, tx domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
