package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusClosed:
		return true
	}
	return false
}

// AccountInfo is the public view of an account. It is also the unit of
// the persisted snapshot.
type AccountInfo struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Status    AccountStatus   `json:"status"`
	Owner     string          `json:"owner"`
	Holdings  []Holding       `json:"holdings,omitempty"`
}

// Account holds a single owner's balance in one currency. The balance
// never goes below zero.
type Account struct {
	id           string
	owner        string
	currency     string
	balance      decimal.Decimal
	status       AccountStatus
	holdings     map[string]Holding
	transactions []Transaction
}

func NewAccount(accountID string, owner string, currency string, balance decimal.Decimal, status AccountStatus) (*Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("%w: account_id is required", ErrInvalidAccount)
	}
	if strings.TrimSpace(accountID) != accountID {
		return nil, fmt.Errorf("%w: account_id %q has surrounding whitespace", ErrInvalidAccount, accountID)
	}
	if strings.TrimSpace(currency) == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidAccount)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative", ErrInvalidAccount)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return &Account{
		id:       accountID,
		owner:    owner,
		currency: currency,
		balance:  balance,
		status:   status,
	}, nil
}

// NewAccountFromInfo rebuilds an account, holdings included, from a
// snapshot record.
func NewAccountFromInfo(info AccountInfo) (*Account, error) {
	account, err := NewAccount(info.AccountID, info.Owner, info.Currency, info.Balance, info.Status)
	if err != nil {
		return nil, err
	}

	for _, h := range info.Holdings {
		symbol, err := normalizeSymbol(h.Symbol)
		if err != nil {
			return nil, fmt.Errorf("holding of %q: %w", info.AccountID, err)
		}
		if h.Quantity <= 0 {
			return nil, fmt.Errorf("%w: holding %s of %q has quantity %d", ErrInvalidQuantity, symbol, info.AccountID, h.Quantity)
		}
		if h.CostBasis.IsNegative() {
			return nil, fmt.Errorf("%w: holding %s of %q has negative cost basis", ErrInvalidAccount, symbol, info.AccountID)
		}
		if _, dup := account.holdings[symbol]; dup {
			return nil, fmt.Errorf("%w: holding %s of %q listed twice", ErrInvalidAccount, symbol, info.AccountID)
		}
		if account.holdings == nil {
			account.holdings = make(map[string]Holding)
		}
		account.holdings[symbol] = Holding{Symbol: symbol, Quantity: h.Quantity, CostBasis: h.CostBasis}
	}

	return account, nil
}

func (a *Account) ID() string               { return a.id }
func (a *Account) Owner() string            { return a.owner }
func (a *Account) Currency() string         { return a.currency }
func (a *Account) Balance() decimal.Decimal { return a.balance }
func (a *Account) Status() AccountStatus    { return a.status }
func (a *Account) IsActive() bool           { return a.status == AccountStatusActive }

func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidAmount)
	}

	a.balance = a.balance.Add(amount)
	a.record(TransactionDeposit, amount, "")
	return nil
}

// Withdraw reports false, leaving the balance untouched, when amount
// exceeds the balance.
func (a *Account) Withdraw(amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(a.balance) {
		return false, nil
	}

	a.balance = a.balance.Sub(amount)
	a.record(TransactionWithdrawal, amount, "")
	return true, nil
}

func (a *Account) Info() AccountInfo {
	return AccountInfo{
		AccountID: a.id,
		Balance:   a.balance,
		Currency:  a.currency,
		Status:    a.status,
		Owner:     a.owner,
		Holdings:  a.Holdings(),
	}
}

func (a *Account) SetStatus(status AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	a.status = status
	return nil
}

func (a *Account) Transactions() []Transaction {
	out := make([]Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Clone returns a deep copy that shares no state with a.
func (a *Account) Clone() *Account {
	cp := *a
	cp.transactions = a.Transactions()
	cp.holdings = nil
	if len(a.holdings) > 0 {
		cp.holdings = make(map[string]Holding, len(a.holdings))
		for symbol, h := range a.holdings {
			cp.holdings[symbol] = h
		}
	}
	return &cp
}

// TransferOut and TransferIn move funds for an already validated
// transfer. Callers check status, currency and funds first.
func (a *Account) TransferOut(amount decimal.Decimal, counterparty string) {
	a.balance = a.balance.Sub(amount)
	a.record(TransactionTransferOut, amount, counterparty)
}

func (a *Account) TransferIn(amount decimal.Decimal, counterparty string) {
	a.balance = a.balance.Add(amount)
	a.record(TransactionTransferIn, amount, counterparty)
}

// AccrueInterest multiplies the balance by (1 + ratePercent/100).
func (a *Account) AccrueInterest(ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() {
		return fmt.Errorf("%w: rate cannot be negative", ErrInvalidRate)
	}

	before := a.balance
	a.balance = a.balance.Mul(decimal.NewFromInt(1).Add(ratePercent.Shift(-2)))
	a.record(TransactionInterest, a.balance.Sub(before), "")
	return nil
}

// Holdings returns the share positions ordered by symbol, or nil when
// the account holds none.
func (a *Account) Holdings() []Holding {
	if len(a.holdings) == 0 {
		return nil
	}

	out := make([]Holding, 0, len(a.holdings))
	for _, h := range a.holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Holding returns the position in symbol. The quantity is zero when none
// is held.
func (a *Account) Holding(symbol string) Holding {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if h, ok := a.holdings[symbol]; ok {
		return h
	}
	return Holding{Symbol: symbol, CostBasis: decimal.Zero}
}

// Buy spends quantity*price of cash on shares of symbol.
func (a *Account) Buy(symbol string, quantity int64, price decimal.Decimal) error {
	symbol, err := validateTrade(symbol, quantity, price)
	if err != nil {
		return err
	}

	cost := price.Mul(decimal.NewFromInt(quantity))
	if cost.GreaterThan(a.balance) {
		return fmt.Errorf("%w: %d %s costs %s, balance is %s", ErrInsufficientFunds, quantity, symbol, cost.String(), a.balance.String())
	}

	h := a.holdings[symbol]
	h.Symbol = symbol
	h.Quantity += quantity
	h.CostBasis = h.CostBasis.Add(cost)
	if a.holdings == nil {
		a.holdings = make(map[string]Holding)
	}
	a.holdings[symbol] = h

	a.balance = a.balance.Sub(cost)
	a.recordTrade(TransactionBuy, cost, symbol, quantity)
	return nil
}

// Sell credits quantity*price of cash for shares of symbol. The cost
// basis of the remaining shares shrinks in proportion.
func (a *Account) Sell(symbol string, quantity int64, price decimal.Decimal) error {
	symbol, err := validateTrade(symbol, quantity, price)
	if err != nil {
		return err
	}

	h, ok := a.holdings[symbol]
	if !ok || h.Quantity < quantity {
		return fmt.Errorf("%w: selling %d %s, holding %d", ErrInsufficientShares, quantity, symbol, h.Quantity)
	}

	if h.Quantity == quantity {
		delete(a.holdings, symbol)
	} else {
		released := h.CostBasis.Mul(decimal.NewFromInt(quantity)).Div(decimal.NewFromInt(h.Quantity))
		h.Quantity -= quantity
		h.CostBasis = h.CostBasis.Sub(released)
		a.holdings[symbol] = h
	}

	proceeds := price.Mul(decimal.NewFromInt(quantity))
	a.balance = a.balance.Add(proceeds)
	a.recordTrade(TransactionSell, proceeds, symbol, quantity)
	return nil
}

func (a *Account) record(kind TransactionKind, amount decimal.Decimal, counterparty string) {
	a.transactions = append(a.transactions, Transaction{
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: a.balance,
		Counterparty: counterparty,
		CreatedAt:    time.Now().UTC(),
	})
}

func (a *Account) recordTrade(kind TransactionKind, amount decimal.Decimal, symbol string, quantity int64) {
	a.transactions = append(a.transactions, Transaction{
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: a.balance,
		Symbol:       symbol,
		Quantity:     quantity,
		CreatedAt:    time.Now().UTC(),
	})
}
