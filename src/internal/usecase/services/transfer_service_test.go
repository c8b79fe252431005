package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/metrics"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTransferServiceTransferFundsValidationError(t *testing.T) {
	manager, _ := newManager(t)
	svc := services.NewTransferService(manager, nil)

	_, err := svc.TransferFunds(context.Background(), models.TransferRequest{})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected validation error for empty transfer request, got %v", err)
	}
}

func TestTransferServiceTransferFundsSuccess(t *testing.T) {
	manager, store := newManager(t,
		mustAccount(t, "A1", "1000", "USD", domain.AccountStatusActive, "Ada"),
		mustAccount(t, "A2", "500", "USD", domain.AccountStatusActive, "Bob"),
	)
	m := metrics.New(prometheus.NewRegistry())
	svc := services.NewTransferService(manager, m)

	resp, err := svc.TransferFunds(context.Background(), models.TransferRequest{
		FromAccountID: " A1 ",
		ToAccountID:   "A2",
		Amount:        dec("250"),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !resp.Data.From.Balance.Equal(dec("750")) || !resp.Data.To.Balance.Equal(dec("750")) {
		t.Fatalf("unexpected balances %+v", resp.Data)
	}
	if store.saves != 1 {
		t.Fatalf("expected one snapshot save, got %d", store.saves)
	}
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("transfer", "success")); got != 1 {
		t.Fatalf("expected one successful transfer, got %v", got)
	}
}

func TestTransferServiceTransferFundsRejected(t *testing.T) {
	manager, _ := newManager(t,
		mustAccount(t, "A1", "1000", "USD", domain.AccountStatusActive, "Ada"),
		mustAccount(t, "E1", "500", "EUR", domain.AccountStatusActive, "Bob"),
	)
	svc := services.NewTransferService(manager, nil)

	resp, err := svc.TransferFunds(context.Background(), models.TransferRequest{
		FromAccountID: "A1",
		ToAccountID:   "E1",
		Amount:        dec("10"),
	})
	if !errors.Is(err, domain.ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	if resp.Message != "transfer rejected" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	assertBalance(t, manager, "A1", "1000")
	assertBalance(t, manager, "E1", "500")
}
