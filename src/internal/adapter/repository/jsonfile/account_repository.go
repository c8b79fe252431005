// Package jsonfile stores the account snapshot as a single JSON document
// keyed by account id:
//
//	{
//	    "A1": {"account_id": "A1", "balance": 1000, "currency": "USD", "status": "active", "owner": "Alice"}
//	}
//
// Accounts holding shares carry an extra "holdings" list of
// {"symbol", "quantity", "cost_basis"} objects.
//
// Saves write a temporary file next to the target and rename it over the
// previous snapshot.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

type accountRecord struct {
	AccountID string          `json:"account_id"`
	Balance   json.Number     `json:"balance"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Owner     string          `json:"owner"`
	Holdings  []holdingRecord `json:"holdings,omitempty"`
}

type holdingRecord struct {
	Symbol    string      `json:"symbol"`
	Quantity  int64       `json:"quantity"`
	CostBasis json.Number `json:"cost_basis"`
}

type AccountRepository struct {
	path string
}

func NewAccountRepository(path string) *AccountRepository {
	return &AccountRepository{path: path}
}

func (r *AccountRepository) Path() string {
	return r.path
}

func (r *AccountRepository) SaveSnapshot(ctx context.Context, accounts []domain.AccountInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := make(map[string]accountRecord, len(accounts))
	for _, account := range accounts {
		records[account.AccountID] = accountRecord{
			AccountID: account.AccountID,
			Balance:   json.Number(account.Balance.String()),
			Currency:  account.Currency,
			Status:    string(account.Status),
			Owner:     account.Owner,
			Holdings:  holdingRecords(account.Holdings),
		}
	}

	payload, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode account snapshot: %w", err)
	}

	if err := writeFileAtomic(r.path, payload); err != nil {
		logger.Error("json account repository save failed", err, logger.Fields{
			"path": r.path,
		})
		return err
	}

	logger.Debug("json account repository save success", logger.Fields{
		"path":     r.path,
		"accounts": len(records),
	})
	return nil
}

// LoadSnapshot returns an empty snapshot when the file does not exist.
func (r *AccountRepository) LoadSnapshot(ctx context.Context) ([]domain.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("json account repository snapshot not found", logger.Fields{
				"path": r.path,
			})
			return nil, nil
		}
		return nil, fmt.Errorf("read account snapshot %q: %w", r.path, err)
	}

	var records map[string]accountRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode account snapshot %q: %w", r.path, err)
	}

	accounts := make([]domain.AccountInfo, 0, len(records))
	for key, record := range records {
		accountID := record.AccountID
		if accountID == "" {
			accountID = key
		}
		if accountID != key {
			return nil, fmt.Errorf("decode account snapshot %q: key %q holds account %q", r.path, key, accountID)
		}

		balance, err := decimal.NewFromString(record.Balance.String())
		if err != nil {
			return nil, fmt.Errorf("decode account snapshot %q: balance of %q: %w", r.path, key, err)
		}

		holdings, err := decodeHoldings(record.Holdings)
		if err != nil {
			return nil, fmt.Errorf("decode account snapshot %q: holdings of %q: %w", r.path, key, err)
		}

		accounts = append(accounts, domain.AccountInfo{
			AccountID: accountID,
			Balance:   balance,
			Currency:  record.Currency,
			Status:    domain.AccountStatus(record.Status),
			Owner:     record.Owner,
			Holdings:  holdings,
		})
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountID < accounts[j].AccountID
	})

	return accounts, nil
}

func holdingRecords(holdings []domain.Holding) []holdingRecord {
	if len(holdings) == 0 {
		return nil
	}

	out := make([]holdingRecord, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, holdingRecord{
			Symbol:    h.Symbol,
			Quantity:  h.Quantity,
			CostBasis: json.Number(h.CostBasis.String()),
		})
	}
	return out
}

func decodeHoldings(records []holdingRecord) ([]domain.Holding, error) {
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]domain.Holding, 0, len(records))
	for _, record := range records {
		costBasis, err := decimal.NewFromString(record.CostBasis.String())
		if err != nil {
			return nil, fmt.Errorf("cost basis of %s: %w", record.Symbol, err)
		}
		out = append(out, domain.Holding{
			Symbol:    record.Symbol,
			Quantity:  record.Quantity,
			CostBasis: costBasis,
		})
	}
	return out, nil
}

func writeFileAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace snapshot %q: %w", path, err)
	}

	return nil
}
