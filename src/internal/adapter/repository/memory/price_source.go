package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultSharePrices is the fixed quote table used when no live price
// feed is configured.
func DefaultSharePrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"AAPL":  decimal.NewFromInt(150),
		"TSLA":  decimal.NewFromInt(750),
		"GOOGL": decimal.NewFromInt(2400),
	}
}

type PriceSource struct {
	prices map[string]decimal.Decimal
}

func NewPriceSource(prices map[string]decimal.Decimal) *PriceSource {
	table := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		table[strings.ToUpper(strings.TrimSpace(symbol))] = price
	}
	return &PriceSource{prices: table}
}

func (s *PriceSource) SharePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	price, ok := s.prices[symbol]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", domain.ErrUnknownSymbol, symbol)
	}
	return price, nil
}
