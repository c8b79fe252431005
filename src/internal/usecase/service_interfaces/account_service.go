package service_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountResponse], error)
	RemoveAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error)
	Deposit(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.AccountResponse], error)
	Withdraw(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.AccountResponse], error)
	SetStatus(ctx context.Context, accountID string, req models.StatusRequest) (commons.Response[models.AccountResponse], error)
	ApplyInterest(ctx context.Context, accountID string, req models.InterestRequest) (commons.Response[models.AccountResponse], error)
	TotalBalance(ctx context.Context, currency string) (commons.Response[models.TotalBalanceResponse], error)
	Transactions(ctx context.Context, accountID string) (commons.Response[[]models.TransactionResponse], error)
	Holdings(ctx context.Context, accountID string) (commons.Response[models.PortfolioResponse], error)
	BuyShares(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.PortfolioResponse], error)
	SellShares(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.PortfolioResponse], error)
}
