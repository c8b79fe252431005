package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	AccountID      string           `json:"accountId,omitempty"`
	Owner          string           `json:"owner"`
	Currency       string           `json:"currency"`
	InitialBalance *decimal.Decimal `json:"initialBalance,omitempty"`
	Status         string           `json:"status,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Owner) == "" {
		errs = append(errs, "owner is required")
	}

	ccy := strings.TrimSpace(r.Currency)
	if ccy == "" {
		errs = append(errs, "currency is required")
	} else if len(ccy) != 3 {
		errs = append(errs, "currency must be 3 characters")
	}

	if r.InitialBalance != nil && r.InitialBalance.IsNegative() {
		errs = append(errs, "initialBalance cannot be negative")
	}

	if status := strings.TrimSpace(r.Status); status != "" && !domain.AccountStatus(status).Valid() {
		errs = append(errs, "status must be one of active, suspended, closed")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type AccountResponse struct {
	AccountID string          `json:"accountId"`
	Owner     string          `json:"owner"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
}

func NewAccountResponse(info domain.AccountInfo) AccountResponse {
	return AccountResponse{
		AccountID: info.AccountID,
		Owner:     info.Owner,
		Currency:  info.Currency,
		Balance:   info.Balance,
		Status:    string(info.Status),
	}
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type InterestRequest struct {
	RatePercent decimal.Decimal `json:"ratePercent"`
}

type TotalBalanceResponse struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
}

type TransactionResponse struct {
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Counterparty string          `json:"counterparty,omitempty"`
	Symbol       string          `json:"symbol,omitempty"`
	Quantity     int64           `json:"quantity,omitempty"`
	CreatedAt    string          `json:"createdAt"`
}

func NewTransactionResponse(tx domain.Transaction) TransactionResponse {
	return TransactionResponse{
		Kind:         string(tx.Kind),
		Amount:       tx.Amount,
		BalanceAfter: tx.BalanceAfter,
		Counterparty: tx.Counterparty,
		Symbol:       tx.Symbol,
		Quantity:     tx.Quantity,
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339Nano),
	}
}
