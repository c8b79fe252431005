package memory

import (
	"context"
	"sync"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// AccountRepository keeps the latest snapshot in process memory.
type AccountRepository struct {
	mu       sync.Mutex
	accounts []domain.AccountInfo
	saves    int
}

func NewAccountRepository(seed ...domain.AccountInfo) *AccountRepository {
	return &AccountRepository{accounts: append([]domain.AccountInfo(nil), seed...)}
}

func (r *AccountRepository) SaveSnapshot(_ context.Context, accounts []domain.AccountInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = append([]domain.AccountInfo(nil), accounts...)
	r.saves++
	return nil
}

func (r *AccountRepository) LoadSnapshot(_ context.Context) ([]domain.AccountInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.AccountInfo(nil), r.accounts...), nil
}

// Saves reports how many snapshots have been written.
func (r *AccountRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saves
}
