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
	"github.com/shopspring/decimal"
)

func newAccountService(t *testing.T, accounts ...*domain.Account) (*services.AccountService, *services.AccountManager, *metrics.Metrics) {
	t.Helper()

	manager, _ := newManager(t, accounts...)
	m := metrics.New(prometheus.NewRegistry())
	return services.NewAccountService(manager, m), manager, m
}

func TestAccountServiceCreateAccountValidationError(t *testing.T) {
	svc, _, _ := newAccountService(t)

	resp, err := svc.CreateAccount(context.Background(), models.CreateAccountRequest{})
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if resp.Success || resp.Message != "validation failed" || len(resp.Errors) == 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountServiceCreateAccountDefaults(t *testing.T) {
	svc, manager, m := newAccountService(t)

	resp, err := svc.CreateAccount(context.Background(), models.CreateAccountRequest{
		Owner:    " Ada ",
		Currency: "gbp",
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if resp.Data == nil || resp.Data.AccountID == "" {
		t.Fatalf("expected generated id, got %+v", resp.Data)
	}
	if resp.Data.Owner != "Ada" || resp.Data.Currency != "GBP" || resp.Data.Status != string(domain.AccountStatusActive) || !resp.Data.Balance.IsZero() {
		t.Fatalf("unexpected defaults %+v", resp.Data)
	}
	if _, ok := manager.GetAccount(resp.Data.AccountID); !ok {
		t.Fatal("expected account to be registered")
	}
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("add_account", "success")); got != 1 {
		t.Fatalf("expected one successful add_account, got %v", got)
	}
}

func TestAccountServiceCreateAccountDuplicate(t *testing.T) {
	svc, _, m := newAccountService(t, mustAccount(t, "A1", "0", "USD", domain.AccountStatusActive, "Ada"))

	resp, err := svc.CreateAccount(context.Background(), models.CreateAccountRequest{
		AccountID: "A1",
		Owner:     "Bob",
		Currency:  "USD",
	})
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if resp.Message != "account already exists" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("add_account", metrics.OutcomeInvalid)); got != 1 {
		t.Fatalf("expected one invalid add_account, got %v", got)
	}
}

func TestAccountServiceGetAccountNotFound(t *testing.T) {
	svc, _, _ := newAccountService(t)

	resp, err := svc.GetAccount(context.Background(), "missing")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if resp.Message != "Account not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAccountServiceWithdrawRejected(t *testing.T) {
	svc, manager, m := newAccountService(t, mustAccount(t, "A1", "100", "USD", domain.AccountStatusActive, "Ada"))

	resp, err := svc.Withdraw(context.Background(), "A1", models.AmountRequest{Amount: decimal.NewFromInt(150)})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if resp.Message != "withdraw rejected" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	assertBalance(t, manager, "A1", "100")
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("withdraw", "rejected")); got != 1 {
		t.Fatalf("expected one rejected withdraw, got %v", got)
	}
}

func TestAccountServiceDepositAndInterest(t *testing.T) {
	svc, _, _ := newAccountService(t, mustAccount(t, "A1", "100", "USD", domain.AccountStatusActive, "Ada"))

	if _, err := svc.Deposit(context.Background(), "A1", models.AmountRequest{Amount: dec("100")}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	resp, err := svc.ApplyInterest(context.Background(), "A1", models.InterestRequest{RatePercent: dec("2.5")})
	if err != nil {
		t.Fatalf("apply interest: %v", err)
	}
	if !resp.Data.Balance.Equal(dec("205")) {
		t.Fatalf("expected balance 205, got %s", resp.Data.Balance)
	}
}

func TestAccountServiceSetStatusUnknownAccount(t *testing.T) {
	svc, _, _ := newAccountService(t)

	_, err := svc.SetStatus(context.Background(), "missing", models.StatusRequest{Status: "closed"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountServiceTotalBalanceRequiresCurrency(t *testing.T) {
	svc, _, _ := newAccountService(t)

	_, err := svc.TotalBalance(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestAccountServicePersistFailureMessage(t *testing.T) {
	manager, store := newManager(t, mustAccount(t, "A1", "100", "USD", domain.AccountStatusActive, "Ada"))
	store.failSaves = true
	svc := services.NewAccountService(manager, nil)

	resp, err := svc.Deposit(context.Background(), "A1", models.AmountRequest{Amount: dec("1")})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if resp.Message != "failed to deposit" || resp.Errors[0] != "Unable to deposit right now" {
		t.Fatalf("unexpected response %+v", resp)
	}
	assertBalance(t, manager, "A1", "100")
}

func TestAccountServiceTotalBalanceUpperCasesCurrency(t *testing.T) {
	svc, _, _ := newAccountService(t,
		mustAccount(t, "A1", "100", "USD", domain.AccountStatusActive, "Ada"),
		mustAccount(t, "A2", "50.5", "USD", domain.AccountStatusSuspended, "Bob"),
	)

	resp, err := svc.TotalBalance(context.Background(), " usd ")
	if err != nil {
		t.Fatalf("total balance: %v", err)
	}
	if resp.Data.Currency != "USD" || !resp.Data.Total.Equal(dec("150.5")) {
		t.Fatalf("unexpected total %+v", resp.Data)
	}
}

func TestAccountServiceBuyAndSellShares(t *testing.T) {
	svc, manager, m := newAccountService(t, mustAccount(t, "A1", "1000", "USD", domain.AccountStatusActive, "Ada"))
	ctx := context.Background()

	resp, err := svc.BuyShares(ctx, "A1", models.TradeRequest{Symbol: "aapl", Quantity: 2})
	if err != nil {
		t.Fatalf("buy shares: %v", err)
	}
	if len(resp.Data.Positions) != 1 || resp.Data.Positions[0].Symbol != "AAPL" || resp.Data.Positions[0].Quantity != 2 {
		t.Fatalf("unexpected positions %+v", resp.Data.Positions)
	}
	if !resp.Data.Cash.Equal(dec("700")) || !resp.Data.TotalValue.Equal(dec("1000")) || !resp.Data.ProfitLoss.IsZero() {
		t.Fatalf("unexpected portfolio %+v", resp.Data)
	}

	if _, err := svc.SellShares(ctx, "A1", models.TradeRequest{Symbol: "AAPL", Quantity: 2}); err != nil {
		t.Fatalf("sell shares: %v", err)
	}
	assertBalance(t, manager, "A1", "1000")

	if got := testutil.ToFloat64(m.Operations.WithLabelValues("buy_shares", metrics.OutcomeSuccess)); got != 1 {
		t.Fatalf("expected one successful buy_shares, got %v", got)
	}
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("sell_shares", metrics.OutcomeSuccess)); got != 1 {
		t.Fatalf("expected one successful sell_shares, got %v", got)
	}
}

func TestAccountServiceTradeRejections(t *testing.T) {
	svc, manager, m := newAccountService(t, mustAccount(t, "A1", "100", "USD", domain.AccountStatusActive, "Ada"))
	ctx := context.Background()

	cases := []struct {
		name    string
		sell    bool
		req     models.TradeRequest
		want    error
		message string
	}{
		{name: "zero quantity", req: models.TradeRequest{Symbol: "AAPL"}, want: domain.ErrInvalidArgument, message: "validation failed"},
		{name: "missing symbol", req: models.TradeRequest{Quantity: 1}, want: domain.ErrInvalidArgument, message: "validation failed"},
		{name: "insufficient cash", req: models.TradeRequest{Symbol: "TSLA", Quantity: 1}, want: domain.ErrInsufficientFunds, message: "buy shares rejected"},
		{name: "insufficient shares", sell: true, req: models.TradeRequest{Symbol: "AAPL", Quantity: 1}, want: domain.ErrInsufficientShares, message: "sell shares rejected"},
		{name: "unknown symbol", req: models.TradeRequest{Symbol: "MSFT", Quantity: 1}, want: domain.ErrUnknownSymbol, message: "buy shares rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trade := svc.BuyShares
			if tc.sell {
				trade = svc.SellShares
			}
			resp, err := trade(ctx, "A1", tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if resp.Success || resp.Message != tc.message {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}

	assertBalance(t, manager, "A1", "100")
	if got := testutil.ToFloat64(m.Operations.WithLabelValues("buy_shares", metrics.OutcomeRejected)); got != 2 {
		t.Fatalf("expected two rejected buy_shares, got %v", got)
	}
}

func TestAccountServiceHoldingsNotFound(t *testing.T) {
	svc, _, _ := newAccountService(t)

	resp, err := svc.Holdings(context.Background(), "X9")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if resp.Message != "Account not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}
