package models

import (
	"errors"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type TradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

func (r TradeRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Symbol) == "" {
		errs = append(errs, "symbol is required")
	}
	if r.Quantity <= 0 {
		errs = append(errs, "quantity must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type PositionResponse struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	MarketValue decimal.Decimal `json:"marketValue"`
	CostBasis   decimal.Decimal `json:"costBasis"`
	ProfitLoss  decimal.Decimal `json:"profitLoss"`
}

type PortfolioResponse struct {
	AccountID   string             `json:"accountId"`
	Currency    string             `json:"currency"`
	Cash        decimal.Decimal    `json:"cash"`
	Positions   []PositionResponse `json:"positions"`
	MarketValue decimal.Decimal    `json:"marketValue"`
	CostBasis   decimal.Decimal    `json:"costBasis"`
	ProfitLoss  decimal.Decimal    `json:"profitLoss"`
	TotalValue  decimal.Decimal    `json:"totalValue"`
}

func NewPortfolioResponse(p domain.Portfolio) PortfolioResponse {
	positions := make([]PositionResponse, 0, len(p.Positions))
	for _, pos := range p.Positions {
		positions = append(positions, PositionResponse{
			Symbol:      pos.Symbol,
			Quantity:    pos.Quantity,
			Price:       pos.Price,
			MarketValue: pos.MarketValue,
			CostBasis:   pos.CostBasis,
			ProfitLoss:  pos.ProfitLoss,
		})
	}

	return PortfolioResponse{
		AccountID:   p.AccountID,
		Currency:    p.Currency,
		Cash:        p.Cash,
		Positions:   positions,
		MarketValue: p.MarketValue,
		CostBasis:   p.CostBasis,
		ProfitLoss:  p.ProfitLoss,
		TotalValue:  p.TotalValue(),
	}
}
