package repo_interfaces

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource quotes a share price in the account's currency. Unknown
// symbols fail with domain.ErrUnknownSymbol.
type PriceSource interface {
	SharePrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
