package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// AccountSnapshotRepository persists the whole registry at once. Every
// save overwrites the previous snapshot.
type AccountSnapshotRepository interface {
	SaveSnapshot(ctx context.Context, accounts []domain.AccountInfo) error
	LoadSnapshot(ctx context.Context) ([]domain.AccountInfo, error)
}
