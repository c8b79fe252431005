package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// SaveSnapshot replaces the contents of ledger_accounts and
// ledger_holdings with accounts in a single transaction.
func (r *AccountRepository) SaveSnapshot(ctx context.Context, accounts []domain.AccountInfo) error {
	logger.Debug("account repository save snapshot", logger.Fields{
		"accounts": len(accounts),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_holdings`); err != nil {
		_ = tx.Rollback()
		logger.Error("account repository clear holdings failed", err, nil)
		return fmt.Errorf("clear holding snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_accounts`); err != nil {
		_ = tx.Rollback()
		logger.Error("account repository clear snapshot failed", err, nil)
		return fmt.Errorf("clear account snapshot: %w", err)
	}

	accountRows := make([][]any, 0, len(accounts))
	var holdingRows [][]any
	for _, account := range accounts {
		accountRows = append(accountRows, []any{account.AccountID, account.Balance.String(), account.Currency, string(account.Status), account.Owner})
		for _, h := range account.Holdings {
			holdingRows = append(holdingRows, []any{account.AccountID, h.Symbol, h.Quantity, h.CostBasis.String()})
		}
	}

	if err := copyRows(ctx, tx, "ledger_accounts", []string{"account_id", "balance", "currency", "status", "owner"}, accountRows); err != nil {
		_ = tx.Rollback()
		logger.Error("account repository copy accounts failed", err, nil)
		return err
	}
	if err := copyRows(ctx, tx, "ledger_holdings", []string{"account_id", "symbol", "quantity", "cost_basis"}, holdingRows); err != nil {
		_ = tx.Rollback()
		logger.Error("account repository copy holdings failed", err, nil)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit account snapshot: %w", err)
	}

	return nil
}

func (r *AccountRepository) LoadSnapshot(ctx context.Context) ([]domain.AccountInfo, error) {
	const accountsQuery = `
SELECT account_id, balance, currency, status, owner
FROM ledger_accounts
ORDER BY account_id`

	rows, err := r.db.QueryContext(ctx, accountsQuery)
	if err != nil {
		logger.Error("account repository load snapshot failed", err, nil)
		return nil, fmt.Errorf("load account snapshot: %w", err)
	}
	defer rows.Close()

	var accounts []domain.AccountInfo
	index := make(map[string]int)
	for rows.Next() {
		var (
			account domain.AccountInfo
			balance decimal.Decimal
			status  string
		)
		if err := rows.Scan(&account.AccountID, &balance, &account.Currency, &status, &account.Owner); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		account.Balance = balance
		account.Status = domain.AccountStatus(status)
		index[account.AccountID] = len(accounts)
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	if err := r.loadHoldings(ctx, accounts, index); err != nil {
		return nil, err
	}

	logger.Debug("account repository load snapshot success", logger.Fields{
		"accounts": len(accounts),
	})

	return accounts, nil
}

func (r *AccountRepository) loadHoldings(ctx context.Context, accounts []domain.AccountInfo, index map[string]int) error {
	const holdingsQuery = `
SELECT account_id, symbol, quantity, cost_basis
FROM ledger_holdings
ORDER BY account_id, symbol`

	rows, err := r.db.QueryContext(ctx, holdingsQuery)
	if err != nil {
		logger.Error("account repository load holdings failed", err, nil)
		return fmt.Errorf("load holding snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			accountID string
			holding   domain.Holding
		)
		if err := rows.Scan(&accountID, &holding.Symbol, &holding.Quantity, &holding.CostBasis); err != nil {
			return fmt.Errorf("scan holding: %w", err)
		}
		i, ok := index[accountID]
		if !ok {
			return fmt.Errorf("holding %s references unknown account %q", holding.Symbol, accountID)
		}
		accounts[i].Holdings = append(accounts[i].Holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate holdings: %w", err)
	}
	return nil
}

func copyRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("prepare %s copy: %w", table, err)
	}

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy %s row %v: %w", table, row[0], err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush %s copy: %w", table, err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close %s copy: %w", table, err)
	}
	return nil
}
