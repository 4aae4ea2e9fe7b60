// Package wise implements the ledger service port against the Wise
// platform API. Cash accounts map to STANDARD balances, reserve accounts
// to SAVINGS balances (jars), and recipients to Wise recipient accounts.
package wise

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vitaops/vita/internal/apperrors"
	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
)

const requestTimeout = 30 * time.Second

// Client is a profile-scoped Wise API client. Create one per profile; the
// personal and household profiles get separate instances.
type Client struct {
	http      *resty.Client
	profileID string
}

// NewClient creates a ledger client bound to one Wise profile.
func NewClient(baseURL, apiToken, profileID string) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiToken).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, profileID: profileID}
}

var _ ports.LedgerService = (*Client)(nil)

type balanceAmount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

type balance struct {
	ID       int64         `json:"id"`
	Type     string        `json:"type"`
	Name     string        `json:"name"`
	Currency string        `json:"currency"`
	Amount   balanceAmount `json:"amount"`
}

func (c *Client) listBalances(ctx context.Context, types string) ([]balance, error) {
	var balances []balance
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("types", types).
		SetResult(&balances).
		Get(fmt.Sprintf("/v4/profiles/%s/balances", c.profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to list balances: %s: %s", resp.Status(), resp.String())
	}
	return balances, nil
}

func (c *Client) GetCashAccount(ctx context.Context, currencyCode string) (*domain.CashAccount, error) {
	balances, err := c.listBalances(ctx, "STANDARD")
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		if b.Currency == currencyCode {
			return &domain.CashAccount{
				AccountID:    strconv.FormatInt(b.ID, 10),
				CurrencyCode: b.Currency,
				Balance:      b.Amount.Value,
			}, nil
		}
	}
	return nil, fmt.Errorf("no %s cash account on profile %s: %w", currencyCode, c.profileID, apperrors.ErrNotFound)
}

func (c *Client) GetOrCreateReserveAccount(ctx context.Context, name string, currencyCode string) (*domain.ReserveAccount, error) {
	balances, err := c.listBalances(ctx, "SAVINGS")
	if err != nil {
		return nil, err
	}
	for _, b := range balances {
		if b.Name == name && b.Currency == currencyCode {
			return &domain.ReserveAccount{
				AccountID:    strconv.FormatInt(b.ID, 10),
				Name:         b.Name,
				CurrencyCode: b.Currency,
				Balance:      b.Amount.Value,
			}, nil
		}
	}

	var created balance
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-idempotence-uuid", uuid.NewString()).
		SetBody(map[string]string{
			"currency": currencyCode,
			"type":     "SAVINGS",
			"name":     name,
		}).
		SetResult(&created).
		Post(fmt.Sprintf("/v3/profiles/%s/balances", c.profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to create reserve account %q: %w", name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to create reserve account %q: %s: %s", name, resp.Status(), resp.String())
	}

	return &domain.ReserveAccount{
		AccountID:    strconv.FormatInt(created.ID, 10),
		Name:         name,
		CurrencyCode: currencyCode,
		Balance:      created.Amount.Value,
	}, nil
}

type recipientAccount struct {
	ID       int64  `json:"id"`
	Currency string `json:"currency"`
	Name     struct {
		FullName string `json:"fullName"`
	} `json:"name"`
	Details struct {
		AccountNumber string `json:"accountNumber"`
	} `json:"details"`
}

func (c *Client) GetRecipient(ctx context.Context, accountNumber string) (*domain.Recipient, error) {
	var result struct {
		Content []recipientAccount `json:"content"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("profileId", c.profileID).
		SetResult(&result).
		Get("/v2/accounts")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to list recipients: %s: %s", resp.Status(), resp.String())
	}

	for _, account := range result.Content {
		if account.Details.AccountNumber == accountNumber {
			return &domain.Recipient{
				RecipientID:   strconv.FormatInt(account.ID, 10),
				AccountNumber: account.Details.AccountNumber,
				Name:          account.Name.FullName,
				CurrencyCode:  account.Currency,
			}, nil
		}
	}
	return nil, fmt.Errorf("no recipient with account number %q: %w", accountNumber, apperrors.ErrNotFound)
}

func (c *Client) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	if req.Target.Type == domain.RefRecipient {
		return c.transferToRecipient(ctx, req)
	}
	return c.moveBetweenBalances(ctx, req)
}

// moveBetweenBalances moves funds between two balances of the same
// profile (cash and reserves).
func (c *Client) moveBetweenBalances(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	var result struct {
		ID           int64         `json:"id"`
		SourceAmount balanceAmount `json:"sourceAmount"`
		CreationTime time.Time     `json:"creationTime"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-idempotence-uuid", uuid.NewString()).
		SetBody(map[string]any{
			"amount": map[string]any{
				"value":    req.Amount,
				"currency": req.Target.CurrencyCode,
			},
			"sourceBalanceId": req.Source.ID,
			"targetBalanceId": req.Target.ID,
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/v2/profiles/%s/balance-movements", c.profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to move funds: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to move funds: %s: %s", resp.Status(), resp.String())
	}

	return &domain.TransferResult{
		TransferID: strconv.FormatInt(result.ID, 10),
		Amount:     req.Amount,
		CreatedAt:  result.CreationTime,
	}, nil
}

// transferToRecipient runs the three-step external transfer: quote, create,
// fund from balance.
func (c *Client) transferToRecipient(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	quoteBody := map[string]any{
		"sourceCurrency": req.Source.CurrencyCode,
		"targetCurrency": req.Target.CurrencyCode,
		"payOut":         "BALANCE",
	}
	if req.SourceCurrencyAmount {
		quoteBody["sourceAmount"] = req.Amount
	} else {
		quoteBody["targetAmount"] = req.Amount
	}

	quote, err := c.createQuote(ctx, quoteBody)
	if err != nil {
		return nil, err
	}

	var transfer struct {
		ID      int64     `json:"id"`
		Created time.Time `json:"created"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"targetAccount":         req.Target.ID,
			"quoteUuid":             quote.QuoteID,
			"customerTransactionId": uuid.NewString(),
			"details": map[string]string{
				"reference": req.Reference,
			},
		}).
		SetResult(&transfer).
		Post("/v1/transfers")
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to create transfer: %s: %s", resp.Status(), resp.String())
	}

	resp, err = c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"type": "BALANCE"}).
		Post(fmt.Sprintf("/v3/profiles/%s/transfers/%d/payments", c.profileID, transfer.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to fund transfer %d: %w", transfer.ID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fund transfer %d: %s: %s", transfer.ID, resp.Status(), resp.String())
	}

	return &domain.TransferResult{
		TransferID: strconv.FormatInt(transfer.ID, 10),
		Amount:     quote.FromAmount,
		CreatedAt:  transfer.Created,
	}, nil
}

type quoteResponse struct {
	ID             string          `json:"id"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Rate           decimal.Decimal `json:"rate"`
	PaymentOptions []struct {
		PayIn        string          `json:"payIn"`
		SourceAmount decimal.Decimal `json:"sourceAmount"`
		TargetAmount decimal.Decimal `json:"targetAmount"`
	} `json:"paymentOptions"`
}

func (c *Client) createQuote(ctx context.Context, body map[string]any) (*domain.Quote, error) {
	var result quoteResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(fmt.Sprintf("/v3/profiles/%s/quotes", c.profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to create quote: %s: %s", resp.Status(), resp.String())
	}

	quote := &domain.Quote{
		QuoteID:          result.ID,
		FromCurrencyCode: result.SourceCurrency,
		ToCurrencyCode:   result.TargetCurrency,
		FromAmount:       result.SourceAmount,
		ToAmount:         result.TargetAmount,
		Rate:             result.Rate,
	}
	// Balance-funded pricing when the quote carries per-option amounts.
	for _, option := range result.PaymentOptions {
		if option.PayIn == "BALANCE" {
			quote.FromAmount = option.SourceAmount
			quote.ToAmount = option.TargetAmount
			break
		}
	}
	return quote, nil
}

func (c *Client) GetQuote(ctx context.Context, fromCurrencyCode, toCurrencyCode string, targetAmount decimal.Decimal) (*domain.Quote, error) {
	return c.createQuote(ctx, map[string]any{
		"sourceCurrency": fromCurrencyCode,
		"targetCurrency": toCurrencyCode,
		"targetAmount":   targetAmount,
		"payOut":         "BALANCE",
	})
}

type statementTransaction struct {
	Type    string        `json:"type"`
	Date    time.Time     `json:"date"`
	Amount  balanceAmount `json:"amount"`
	Details struct {
		Type             string `json:"type"`
		Description      string `json:"description"`
		PaymentReference string `json:"paymentReference"`
		Merchant         struct {
			Name string `json:"name"`
		} `json:"merchant"`
	} `json:"details"`
	ReferenceNumber string `json:"referenceNumber"`
}

func (c *Client) GetTransactions(ctx context.Context, currencyCode string, since time.Time) ([]domain.Transaction, error) {
	cash, err := c.GetCashAccount(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	var statement struct {
		Transactions []statementTransaction `json:"transactions"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"currency":      currencyCode,
			"intervalStart": since.UTC().Format(time.RFC3339),
			"intervalEnd":   time.Now().UTC().Format(time.RFC3339),
			"type":          "COMPACT",
		}).
		SetResult(&statement).
		Get(fmt.Sprintf("/v1/profiles/%s/balance-statements/%s/statement.json", c.profileID, cash.AccountID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statement: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch statement: %s: %s", resp.Status(), resp.String())
	}

	transactions := make([]domain.Transaction, 0, len(statement.Transactions))
	for _, tx := range statement.Transactions {
		transactions = append(transactions, domain.Transaction{
			TransactionID: tx.ReferenceNumber,
			Type:          transactionType(tx.Details.Type),
			Amount:        tx.Amount.Value,
			CurrencyCode:  tx.Amount.Currency,
			ThirdParty:    thirdParty(tx),
			OccurredAt:    tx.Date,
		})
	}
	return transactions, nil
}

func transactionType(detailsType string) domain.TransactionType {
	switch strings.ToUpper(detailsType) {
	case "CARD":
		return domain.TransactionCard
	case "DEPOSIT":
		return domain.TransactionDeposit
	default:
		return domain.TransactionTransfer
	}
}

// thirdParty picks the most specific counterparty the statement offers.
func thirdParty(tx statementTransaction) string {
	if tx.Details.Merchant.Name != "" {
		return tx.Details.Merchant.Name
	}
	if tx.Details.PaymentReference != "" {
		return tx.Details.PaymentReference
	}
	return tx.Details.Description
}
