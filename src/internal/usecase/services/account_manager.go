package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/jsonfile"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

// AccountManager is the registry of accounts keyed by account id. It owns
// every account it holds: accounts are cloned on the way in and on the
// way out. Each successful mutating call writes a full snapshot through
// the configured repository; if that write fails the in-memory change is
// undone and the error returned.
type AccountManager struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	store    repo_interfaces.AccountSnapshotRepository
	prices   repo_interfaces.PriceSource
}

// NewAccountManager returns an empty manager quoting shares from the fixed
// default price table. A nil store disables persistence.
func NewAccountManager(store repo_interfaces.AccountSnapshotRepository) *AccountManager {
	return &AccountManager{
		accounts: make(map[string]*domain.Account),
		store:    store,
		prices:   memory.NewPriceSource(memory.DefaultSharePrices()),
	}
}

// WithPriceSource replaces the share price source and returns m.
func (m *AccountManager) WithPriceSource(prices repo_interfaces.PriceSource) *AccountManager {
	if prices != nil {
		m.prices = prices
	}
	return m
}

// Load replaces the registry with the store's current snapshot.
func (m *AccountManager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	infos, err := m.store.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	return m.replace(infos)
}

// AddAccount registers a copy of account. Registering an id that is
// already present fails with domain.ErrAccountExists.
func (m *AccountManager) AddAccount(ctx context.Context, account *domain.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account is nil", domain.ErrInvalidAccount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := account.ID()
	if _, exists := m.accounts[id]; exists {
		return fmt.Errorf("%w: %q", domain.ErrAccountExists, id)
	}

	m.accounts[id] = account.Clone()
	if err := m.persistLocked(ctx); err != nil {
		delete(m.accounts, id)
		return fmt.Errorf("add account %q: %w", id, err)
	}

	logger.Info("account manager add account success", logger.Fields{
		"accountId": id,
		"currency":  account.Currency(),
	})
	return nil
}

// RemoveAccount reports false, without touching the snapshot, when id is
// not registered.
func (m *AccountManager) RemoveAccount(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return false, nil
	}

	delete(m.accounts, id)
	if err := m.persistLocked(ctx); err != nil {
		m.accounts[id] = account
		return false, fmt.Errorf("remove account %q: %w", id, err)
	}

	logger.Info("account manager remove account success", logger.Fields{
		"accountId": id,
	})
	return true, nil
}

func (m *AccountManager) GetAccount(id string) (*domain.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, false
	}
	return account.Clone(), true
}

// ListAccounts returns copies of every account, ordered by id.
func (m *AccountManager) ListAccounts() []*domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		out = append(out, account.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Transfer reports false when the transfer is rejected by a business
// rule. See PostTransfer for the rules.
func (m *AccountManager) Transfer(ctx context.Context, fromID string, toID string, amount decimal.Decimal) (bool, error) {
	return outcome(m.PostTransfer(ctx, fromID, toID, amount))
}

// PostTransfer moves amount from one active account to another active
// account of the same currency. Every precondition is checked before
// either balance changes. Rejections wrap domain.ErrRejected.
//
// A transfer whose source and destination are the same account is
// rejected with domain.ErrSameAccount, so Transfer(id, id, x) reports
// false. This deliberately deviates from treating it as a withdrawal
// followed by a deposit, which succeeds as a no-op when funds suffice
// and still logs two entries.
func (m *AccountManager) PostTransfer(ctx context.Context, fromID string, toID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	from, ok := m.accounts[fromID]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrAccountNotFound, fromID)
	}
	to, ok := m.accounts[toID]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrAccountNotFound, toID)
	}
	if fromID == toID {
		return domain.ErrSameAccount
	}
	if !from.IsActive() {
		return fmt.Errorf("%w: %q is %s", domain.ErrAccountNotActive, fromID, from.Status())
	}
	if !to.IsActive() {
		return fmt.Errorf("%w: %q is %s", domain.ErrAccountNotActive, toID, to.Status())
	}
	if from.Currency() != to.Currency() {
		return fmt.Errorf("%w: %s to %s", domain.ErrCurrencyMismatch, from.Currency(), to.Currency())
	}
	if from.Balance().LessThan(amount) {
		return fmt.Errorf("%w: %q has %s", domain.ErrInsufficientFunds, fromID, from.Balance().String())
	}

	fromBefore, toBefore := from.Clone(), to.Clone()
	from.TransferOut(amount, toID)
	to.TransferIn(amount, fromID)

	if err := m.persistLocked(ctx); err != nil {
		m.accounts[fromID] = fromBefore
		m.accounts[toID] = toBefore
		return fmt.Errorf("transfer %q to %q: %w", fromID, toID, err)
	}

	logger.Info("account manager transfer success", logger.Fields{
		"fromAccountId": fromID,
		"toAccountId":   toID,
		"amount":        amount.String(),
		"currency":      from.Currency(),
	})
	return nil
}

// ApplyInterest reports false when the account is missing or inactive.
// A negative rate fails with domain.ErrInvalidRate.
func (m *AccountManager) ApplyInterest(ctx context.Context, id string, ratePercent decimal.Decimal) (bool, error) {
	return outcome(m.PostInterest(ctx, id, ratePercent))
}

// PostInterest multiplies the balance of an active account by
// (1 + ratePercent/100).
func (m *AccountManager) PostInterest(ctx context.Context, id string, ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() {
		return fmt.Errorf("%w: rate cannot be negative", domain.ErrInvalidRate)
	}

	return m.mutateActive(ctx, id, "apply interest", func(account *domain.Account) error {
		return account.AccrueInterest(ratePercent)
	})
}

func (m *AccountManager) Deposit(ctx context.Context, id string, amount decimal.Decimal) (bool, error) {
	return outcome(m.PostDeposit(ctx, id, amount))
}

// PostDeposit credits an active account.
func (m *AccountManager) PostDeposit(ctx context.Context, id string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidAmount)
	}

	return m.mutateActive(ctx, id, "deposit", func(account *domain.Account) error {
		return account.Deposit(amount)
	})
}

func (m *AccountManager) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (bool, error) {
	return outcome(m.PostWithdrawal(ctx, id, amount))
}

// PostWithdrawal debits an active account holding at least amount.
func (m *AccountManager) PostWithdrawal(ctx context.Context, id string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrInvalidAmount)
	}

	return m.mutateActive(ctx, id, "withdraw", func(account *domain.Account) error {
		ok, err := account.Withdraw(amount)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q has %s", domain.ErrInsufficientFunds, id, account.Balance().String())
		}
		return nil
	})
}

// SetStatus reports false when id is not registered. Unlike the other
// mutations it applies to accounts in any status.
func (m *AccountManager) SetStatus(ctx context.Context, id string, status domain.AccountStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return false, nil
	}

	before := account.Clone()
	if err := account.SetStatus(status); err != nil {
		return false, err
	}
	if err := m.persistLocked(ctx); err != nil {
		m.accounts[id] = before
		return false, fmt.Errorf("set status of %q: %w", id, err)
	}

	logger.Info("account manager set status success", logger.Fields{
		"accountId": id,
		"status":    string(status),
	})
	return true, nil
}

// BuyShares prices quantity shares of symbol and buys them with the
// active account's cash.
func (m *AccountManager) BuyShares(ctx context.Context, id string, symbol string, quantity int64) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("%w: symbol is required", domain.ErrInvalidSymbol)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidQuantity)
	}
	price, err := m.prices.SharePrice(ctx, symbol)
	if err != nil {
		return err
	}

	return m.mutateActive(ctx, id, "buy shares", func(account *domain.Account) error {
		return account.Buy(symbol, quantity, price)
	})
}

// SellShares sells quantity held shares of symbol at the current price.
func (m *AccountManager) SellShares(ctx context.Context, id string, symbol string, quantity int64) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("%w: symbol is required", domain.ErrInvalidSymbol)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidQuantity)
	}
	price, err := m.prices.SharePrice(ctx, symbol)
	if err != nil {
		return err
	}

	return m.mutateActive(ctx, id, "sell shares", func(account *domain.Account) error {
		return account.Sell(symbol, quantity, price)
	})
}

// Portfolio values an account's holdings at current prices. Accounts in
// any status can be valued.
func (m *AccountManager) Portfolio(ctx context.Context, id string) (domain.Portfolio, error) {
	m.mu.RLock()
	account, ok := m.accounts[id]
	var info domain.AccountInfo
	if ok {
		info = account.Info()
	}
	m.mu.RUnlock()

	if !ok {
		return domain.Portfolio{}, fmt.Errorf("%w: %q", domain.ErrAccountNotFound, id)
	}

	prices := make(map[string]decimal.Decimal, len(info.Holdings))
	for _, h := range info.Holdings {
		price, err := m.prices.SharePrice(ctx, h.Symbol)
		if err != nil {
			return domain.Portfolio{}, err
		}
		prices[h.Symbol] = price
	}

	return domain.NewPortfolio(info, prices)
}

// TotalBalance sums the balances of accounts whose currency matches
// exactly. It is zero when nothing matches.
func (m *AccountManager) TotalBalance(currency string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, account := range m.accounts {
		if account.Currency() == currency {
			total = total.Add(account.Balance())
		}
	}
	return total
}

func (m *AccountManager) Transactions(id string) ([]domain.Transaction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, false
	}
	return account.Transactions(), true
}

// Snapshot returns the public fields of every account, ordered by id.
func (m *AccountManager) Snapshot() []domain.AccountInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshotLocked()
}

// Flush writes the current registry through the configured store.
func (m *AccountManager) Flush(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.persistLocked(ctx)
}

// SaveToFile writes the registry to path as a JSON snapshot, overwriting
// any existing file.
func (m *AccountManager) SaveToFile(ctx context.Context, path string) error {
	snapshot := m.Snapshot()
	if err := jsonfile.NewAccountRepository(path).SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save accounts to %q: %w", path, err)
	}
	return nil
}

// LoadFromFile replaces the registry with the accounts stored at path. A
// missing file leaves an empty registry. A malformed file returns an
// error and leaves the registry unchanged.
func (m *AccountManager) LoadFromFile(ctx context.Context, path string) error {
	infos, err := jsonfile.NewAccountRepository(path).LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load accounts from %q: %w", path, err)
	}
	return m.replace(infos)
}

func (m *AccountManager) replace(infos []domain.AccountInfo) error {
	accounts := make(map[string]*domain.Account, len(infos))
	for _, info := range infos {
		account, err := domain.NewAccountFromInfo(info)
		if err != nil {
			return fmt.Errorf("restore account %q: %w", info.AccountID, err)
		}
		if _, dup := accounts[account.ID()]; dup {
			return fmt.Errorf("restore account %q: %w", info.AccountID, domain.ErrAccountExists)
		}
		accounts[account.ID()] = account
	}

	m.mu.Lock()
	m.accounts = accounts
	m.mu.Unlock()

	logger.Info("account manager registry restored", logger.Fields{
		"accounts": len(accounts),
	})
	return nil
}

// mutateActive applies fn to the active account id and persists the
// result, undoing fn if the snapshot write fails.
func (m *AccountManager) mutateActive(ctx context.Context, id string, op string, fn func(*domain.Account) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrAccountNotFound, id)
	}
	if !account.IsActive() {
		return fmt.Errorf("%w: %q is %s", domain.ErrAccountNotActive, id, account.Status())
	}

	before := account.Clone()
	if err := fn(account); err != nil {
		m.accounts[id] = before
		return err
	}
	if err := m.persistLocked(ctx); err != nil {
		m.accounts[id] = before
		return fmt.Errorf("%s %q: %w", op, id, err)
	}

	logger.Info("account manager "+op+" success", logger.Fields{
		"accountId": id,
		"balance":   account.Balance().String(),
	})
	return nil
}

func (m *AccountManager) snapshotLocked() []domain.AccountInfo {
	out := make([]domain.AccountInfo, 0, len(m.accounts))
	for _, account := range m.accounts {
		out = append(out, account.Info())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountID < out[j].AccountID
	})
	return out
}

func (m *AccountManager) persistLocked(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	if err := m.store.SaveSnapshot(ctx, m.snapshotLocked()); err != nil {
		logger.Error("account manager persist snapshot failed", err, logger.Fields{
			"accounts": len(m.accounts),
		})
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

// outcome folds business-rule rejections into a false result.
func outcome(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrRejected) {
		logger.Debug("account manager operation rejected", logger.Fields{
			"reason": strings.TrimPrefix(err.Error(), domain.ErrRejected.Error()+": "),
		})
		return false, nil
	}
	return false, err
}
