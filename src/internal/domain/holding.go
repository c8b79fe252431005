package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Holding is a share position. CostBasis is the cash paid for the shares
// still held.
type Holding struct {
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

type Position struct {
	Symbol      string
	Quantity    int64
	Price       decimal.Decimal
	MarketValue decimal.Decimal
	CostBasis   decimal.Decimal
	ProfitLoss  decimal.Decimal
}

// Portfolio values an account's holdings at current prices. ProfitLoss is
// unrealized: market value less cost basis of the shares still held.
type Portfolio struct {
	AccountID   string
	Currency    string
	Cash        decimal.Decimal
	Positions   []Position
	MarketValue decimal.Decimal
	CostBasis   decimal.Decimal
	ProfitLoss  decimal.Decimal
}

// TotalValue is cash plus the market value of every position.
func (p Portfolio) TotalValue() decimal.Decimal {
	return p.Cash.Add(p.MarketValue)
}

// NewPortfolio values info's holdings with prices keyed by symbol. A
// held symbol missing from prices fails with ErrUnknownSymbol.
func NewPortfolio(info AccountInfo, prices map[string]decimal.Decimal) (Portfolio, error) {
	p := Portfolio{
		AccountID:   info.AccountID,
		Currency:    info.Currency,
		Cash:        info.Balance,
		Positions:   make([]Position, 0, len(info.Holdings)),
		MarketValue: decimal.Zero,
		CostBasis:   decimal.Zero,
		ProfitLoss:  decimal.Zero,
	}

	for _, h := range info.Holdings {
		price, ok := prices[h.Symbol]
		if !ok {
			return Portfolio{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, h.Symbol)
		}

		value := price.Mul(decimal.NewFromInt(h.Quantity))
		p.Positions = append(p.Positions, Position{
			Symbol:      h.Symbol,
			Quantity:    h.Quantity,
			Price:       price,
			MarketValue: value,
			CostBasis:   h.CostBasis,
			ProfitLoss:  value.Sub(h.CostBasis),
		})
		p.MarketValue = p.MarketValue.Add(value)
		p.CostBasis = p.CostBasis.Add(h.CostBasis)
	}
	p.ProfitLoss = p.MarketValue.Sub(p.CostBasis)

	return p, nil
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("%w: symbol is required", ErrInvalidSymbol)
	}
	return symbol, nil
}

func validateTrade(symbol string, quantity int64, price decimal.Decimal) (string, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return "", err
	}
	if quantity <= 0 {
		return "", fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
	}
	if !price.IsPositive() {
		return "", fmt.Errorf("%w: price of %s must be positive", ErrInvalidAmount, symbol)
	}
	return symbol, nil
}
