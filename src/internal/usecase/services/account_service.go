package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/metrics"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var _ service_interfaces.AccountService = (*AccountService)(nil)

// AccountService adapts AccountManager to request/response models. It
// holds no account state of its own.
type AccountService struct {
	manager *AccountManager
	metrics *metrics.Metrics
}

func NewAccountService(manager *AccountManager, m *metrics.Metrics) *AccountService {
	return &AccountService{
		manager: manager,
		metrics: m,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), invalid(err)
	}

	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		accountID = uuid.NewString()
	}
	balance := decimal.Zero
	if req.InitialBalance != nil {
		balance = *req.InitialBalance
	}
	status := domain.AccountStatusActive
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.AccountStatus(raw)
	}

	account, err := domain.NewAccount(accountID, strings.TrimSpace(req.Owner), strings.ToUpper(strings.TrimSpace(req.Currency)), balance, status)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	err = s.manager.AddAccount(ctx, account)
	s.metrics.ObserveOperation("add_account", err)
	if err != nil {
		logger.Error("account service create account failed", err, logger.Fields{
			"accountId": accountID,
		})
		if errors.Is(err, domain.ErrAccountExists) {
			return commons.ErrorResponse[models.AccountResponse]("account already exists", err.Error()), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	return commons.SuccessResponse("account created successfully", models.NewAccountResponse(account.Info())), nil
}

func (s *AccountService) GetAccount(_ context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	account, ok := s.manager.GetAccount(strings.TrimSpace(accountID))
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
		return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
	}

	return commons.SuccessResponse("account fetched successfully", models.NewAccountResponse(account.Info())), nil
}

func (s *AccountService) ListAccounts(_ context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts := s.manager.ListAccounts()

	resp := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, models.NewAccountResponse(account.Info()))
	}

	return commons.SuccessResponse("accounts fetched successfully", resp), nil
}

func (s *AccountService) RemoveAccount(ctx context.Context, accountID string) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	account, ok := s.manager.GetAccount(accountID)
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
		return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
	}

	removed, err := s.manager.RemoveAccount(ctx, accountID)
	if err == nil && !removed {
		err = fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
	}
	s.metrics.ObserveOperation("remove_account", err)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service remove account failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to remove account", "Unable to remove account right now"), err
	}

	return commons.SuccessResponse("account removed successfully", models.NewAccountResponse(account.Info())), nil
}

func (s *AccountService) Deposit(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	err := s.manager.PostDeposit(ctx, accountID, req.Amount)
	s.metrics.ObserveOperation("deposit", err)
	return s.accountResult(accountID, "funds deposited successfully", "deposit", err)
}

func (s *AccountService) Withdraw(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	err := s.manager.PostWithdrawal(ctx, accountID, req.Amount)
	s.metrics.ObserveOperation("withdraw", err)
	return s.accountResult(accountID, "funds withdrawn successfully", "withdraw", err)
}

func (s *AccountService) SetStatus(ctx context.Context, accountID string, req models.StatusRequest) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	updated, err := s.manager.SetStatus(ctx, accountID, domain.AccountStatus(strings.TrimSpace(req.Status)))
	if err == nil && !updated {
		err = fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
	}
	s.metrics.ObserveOperation("set_status", err)
	return s.accountResult(accountID, "account status updated successfully", "set status", err)
}

func (s *AccountService) ApplyInterest(ctx context.Context, accountID string, req models.InterestRequest) (commons.Response[models.AccountResponse], error) {
	accountID = strings.TrimSpace(accountID)
	err := s.manager.PostInterest(ctx, accountID, req.RatePercent)
	s.metrics.ObserveOperation("apply_interest", err)
	return s.accountResult(accountID, "interest applied successfully", "apply interest", err)
}

func (s *AccountService) TotalBalance(_ context.Context, currency string) (commons.Response[models.TotalBalanceResponse], error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		err := fmt.Errorf("%w: currency is required", domain.ErrInvalidArgument)
		return commons.ErrorResponse[models.TotalBalanceResponse]("validation failed", "currency is required"), err
	}

	response := models.TotalBalanceResponse{
		Currency: currency,
		Total:    s.manager.TotalBalance(currency),
	}
	return commons.SuccessResponse("total balance fetched successfully", response), nil
}

func (s *AccountService) Transactions(_ context.Context, accountID string) (commons.Response[[]models.TransactionResponse], error) {
	log, ok := s.manager.Transactions(strings.TrimSpace(accountID))
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
		return commons.ErrorResponse[[]models.TransactionResponse]("Account not found"), err
	}

	resp := make([]models.TransactionResponse, 0, len(log))
	for _, tx := range log {
		resp = append(resp, models.NewTransactionResponse(tx))
	}
	return commons.SuccessResponse("transactions fetched successfully", resp), nil
}

func (s *AccountService) Holdings(ctx context.Context, accountID string) (commons.Response[models.PortfolioResponse], error) {
	accountID = strings.TrimSpace(accountID)
	portfolio, err := s.manager.Portfolio(ctx, accountID)
	return s.portfolioResult(accountID, "holdings fetched successfully", "value holdings", err, portfolio)
}

func (s *AccountService) BuyShares(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.PortfolioResponse], error) {
	return s.trade(ctx, accountID, req, "buy_shares", "buy shares", "shares bought successfully", s.manager.BuyShares)
}

func (s *AccountService) SellShares(ctx context.Context, accountID string, req models.TradeRequest) (commons.Response[models.PortfolioResponse], error) {
	return s.trade(ctx, accountID, req, "sell_shares", "sell shares", "shares sold successfully", s.manager.SellShares)
}

func (s *AccountService) trade(
	ctx context.Context,
	accountID string,
	req models.TradeRequest,
	metricOp string,
	op string,
	successMessage string,
	fn func(ctx context.Context, id string, symbol string, quantity int64) error,
) (commons.Response[models.PortfolioResponse], error) {
	logger.Info("account service "+op+" request", logger.Fields{
		"accountId": accountID,
		"payload":   logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.PortfolioResponse]("validation failed", err.Error()), invalid(err)
	}

	accountID = strings.TrimSpace(accountID)
	err := fn(ctx, accountID, strings.TrimSpace(req.Symbol), req.Quantity)
	s.metrics.ObserveOperation(metricOp, err)
	if err != nil {
		return s.portfolioResult(accountID, successMessage, op, err, domain.Portfolio{})
	}

	portfolio, err := s.manager.Portfolio(ctx, accountID)
	return s.portfolioResult(accountID, successMessage, op, err, portfolio)
}

func (s *AccountService) portfolioResult(accountID string, successMessage string, op string, err error, portfolio domain.Portfolio) (commons.Response[models.PortfolioResponse], error) {
	if err != nil {
		message, detail := failureMessage(op, err)
		if !errors.Is(err, domain.ErrRejected) && !errors.Is(err, domain.ErrInvalidArgument) {
			logger.Error("account service "+op+" failed", err, logger.Fields{
				"accountId": accountID,
			})
		}
		return commons.ErrorResponse[models.PortfolioResponse](message, detail), err
	}
	return commons.SuccessResponse(successMessage, models.NewPortfolioResponse(portfolio)), nil
}

func (s *AccountService) accountResult(accountID string, successMessage string, op string, err error) (commons.Response[models.AccountResponse], error) {
	if err != nil {
		message, detail := failureMessage(op, err)
		if !errors.Is(err, domain.ErrRejected) && !errors.Is(err, domain.ErrInvalidArgument) {
			logger.Error("account service "+op+" failed", err, logger.Fields{
				"accountId": accountID,
			})
		}
		return commons.ErrorResponse[models.AccountResponse](message, detail), err
	}

	account, ok := s.manager.GetAccount(accountID)
	if !ok {
		err := fmt.Errorf("%w: %q", domain.ErrAccountNotFound, accountID)
		return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
	}
	return commons.SuccessResponse(successMessage, models.NewAccountResponse(account.Info())), nil
}

func failureMessage(op string, err error) (string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "validation failed", err.Error()
	case errors.Is(err, domain.ErrAccountNotFound):
		return "Account not found", err.Error()
	case errors.Is(err, domain.ErrRejected):
		return op + " rejected", err.Error()
	default:
		return "failed to " + op, "Unable to " + op + " right now"
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, err.Error())
}
