package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

func TestPriceSourceDefaultTable(t *testing.T) {
	prices := memory.NewPriceSource(memory.DefaultSharePrices())

	cases := map[string]int64{"AAPL": 150, "tsla": 750, " GOOGL ": 2400}
	for symbol, want := range cases {
		got, err := prices.SharePrice(context.Background(), symbol)
		if err != nil {
			t.Fatalf("%s: %v", symbol, err)
		}
		if !got.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("%s: expected %d, got %s", symbol, want, got)
		}
	}
}

func TestPriceSourceUnknownSymbol(t *testing.T) {
	prices := memory.NewPriceSource(memory.DefaultSharePrices())

	_, err := prices.SharePrice(context.Background(), "MSFT")
	if !errors.Is(err, domain.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestAccountRepositoryKeepsLatestSnapshot(t *testing.T) {
	repo := memory.NewAccountRepository()
	ctx := context.Background()

	snapshot := []domain.AccountInfo{{AccountID: "A1", Balance: decimal.NewFromInt(5), Currency: "USD", Status: domain.AccountStatusActive}}
	if err := repo.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}
	snapshot[0].AccountID = "mutated"

	got, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].AccountID != "A1" || repo.Saves() != 1 {
		t.Fatalf("unexpected snapshot %+v saves=%d", got, repo.Saves())
	}
}
