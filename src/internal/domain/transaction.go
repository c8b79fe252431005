package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionDeposit     TransactionKind = "deposit"
	TransactionWithdrawal  TransactionKind = "withdrawal"
	TransactionTransferIn  TransactionKind = "transfer_in"
	TransactionTransferOut TransactionKind = "transfer_out"
	TransactionInterest    TransactionKind = "interest"
	TransactionBuy         TransactionKind = "buy"
	TransactionSell        TransactionKind = "sell"
)

type Transaction struct {
	Kind         TransactionKind `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Counterparty string          `json:"counterparty,omitempty"`
	Symbol       string          `json:"symbol,omitempty"`
	Quantity     int64           `json:"quantity,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
