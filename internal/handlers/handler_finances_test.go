package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vitaops/vita/internal/apperrors"
	"github.com/vitaops/vita/internal/core/domain"
	portssvc "github.com/vitaops/vita/internal/core/ports/services"
	"github.com/vitaops/vita/internal/handlers"
	"github.com/vitaops/vita/internal/platform/config"
)

// --- Mock FinancesOrganizerSvc ---
type MockFinancesOrganizer struct {
	mock.Mock
}

func (m *MockFinancesOrganizer) OrganizeDailyFinances(ctx context.Context) (*domain.DailyBudgetState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyBudgetState), args.Error(1)
}

func (m *MockFinancesOrganizer) OrganizeMonthlyFinances(ctx context.Context, month time.Time) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

func (m *MockFinancesOrganizer) MonthlyPlan(ctx context.Context, month time.Time) (*domain.MonthlyPlan, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyPlan), args.Error(1)
}

func (m *MockFinancesOrganizer) OrganizeRent(ctx context.Context) (*domain.RentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentSummary), args.Error(1)
}

func (m *MockFinancesOrganizer) ReserveIncomingRent(ctx context.Context, tx domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

var _ portssvc.FinancesOrganizerSvc = (*MockFinancesOrganizer)(nil)

// --- Mock ReconcilerSvc ---
type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) HandlePrimaryBalanceUpdate(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error) {
	args := m.Called(ctx, payload, deliveryID)
	return args.Get(0).(domain.ReconcileOutcome), args.Error(1)
}

func (m *MockReconciler) HandleSecondaryBalanceUpdate(ctx context.Context, payload []byte, deliveryID string) (domain.ReconcileOutcome, error) {
	args := m.Called(ctx, payload, deliveryID)
	return args.Get(0).(domain.ReconcileOutcome), args.Error(1)
}

func (m *MockReconciler) OrganizeTransactions(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ portssvc.ReconcilerSvc = (*MockReconciler)(nil)

const testAPIKey = "test-api-key"

type FinancesHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockOrganizer  *MockFinancesOrganizer
	mockReconciler *MockReconciler
}

func (suite *FinancesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockOrganizer = new(MockFinancesOrganizer)
	suite.mockReconciler = new(MockReconciler)

	cfg := &config.Config{APIKey: testAPIKey, IsProduction: true}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Organizer:  suite.mockOrganizer,
		Reconciler: suite.mockReconciler,
	})
}

func (suite *FinancesHandlerTestSuite) request(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *FinancesHandlerTestSuite) TestOrganizeDaily_Success() {
	suite.mockOrganizer.On("OrganizeDailyFinances", mock.Anything).Return(&domain.DailyBudgetState{
		MonthlyBudget:     decimal.NewFromInt(1000),
		DailyBudget:       decimal.RequireFromString("32.26"),
		AmountUnderBudget: decimal.RequireFromString("61.64"),
	}, nil).Once()

	rec := suite.request(http.MethodPost, "/api/v1/finances/organize_daily", testAPIKey)

	suite.Equal(http.StatusOK, rec.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal(false, body["isOverBudget"])
	suite.mockOrganizer.AssertExpectations(suite.T())
}

func (suite *FinancesHandlerTestSuite) TestOrganizeDaily_MissingAPIKey() {
	rec := suite.request(http.MethodPost, "/api/v1/finances/organize_daily", "")

	suite.Equal(http.StatusUnauthorized, rec.Code)
	suite.mockOrganizer.AssertNotCalled(suite.T(), "OrganizeDailyFinances", mock.Anything)
}

func (suite *FinancesHandlerTestSuite) TestOrganizeMonthly_InvalidMonth() {
	rec := suite.request(http.MethodPost, "/api/v1/finances/organize_monthly?month=March", testAPIKey)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockOrganizer.AssertNotCalled(suite.T(), "OrganizeMonthlyFinances", mock.Anything, mock.Anything)
}

func (suite *FinancesHandlerTestSuite) TestOrganizeMonthly_InsufficientSalary() {
	suite.mockOrganizer.On("OrganizeMonthlyFinances", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	rec := suite.request(http.MethodPost, "/api/v1/finances/organize_monthly?month=2025-08", testAPIKey)

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *FinancesHandlerTestSuite) TestOrganizeRent_Success() {
	suite.mockOrganizer.On("OrganizeRent", mock.Anything).Return(&domain.RentSummary{
		Collections: []domain.RentCollection{
			{Tenant: domain.Tenant{Name: "Bob"}, Collected: true, Balance: decimal.NewFromInt(550)},
		},
	}, nil).Once()

	rec := suite.request(http.MethodPost, "/api/v1/finances/organize_rent", testAPIKey)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "Bob")
}

func (suite *FinancesHandlerTestSuite) TestWebhook_NoAPIKeyRequired() {
	suite.mockReconciler.On("HandlePrimaryBalanceUpdate", mock.Anything, mock.Anything, "d1").
		Return(domain.OutcomeProcessed, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/wise/primary-account-update", nil)
	req.Header.Set("X-Delivery-Id", "d1")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), string(domain.OutcomeProcessed))
	suite.mockReconciler.AssertExpectations(suite.T())
}

func TestFinancesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FinancesHandlerTestSuite))
}
