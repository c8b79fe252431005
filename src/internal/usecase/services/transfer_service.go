package services

import (
	"context"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/metrics"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.TransferService = (*TransferService)(nil)

type TransferService struct {
	manager *AccountManager
	metrics *metrics.Metrics
}

func NewTransferService(manager *AccountManager, m *metrics.Metrics) *TransferService {
	return &TransferService{
		manager: manager,
		metrics: m,
	}
}

func (s *TransferService) TransferFunds(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), invalid(err)
	}

	fromID := strings.TrimSpace(req.FromAccountID)
	toID := strings.TrimSpace(req.ToAccountID)

	err := s.manager.PostTransfer(ctx, fromID, toID, req.Amount)
	s.metrics.ObserveOperation("transfer", err)
	if err != nil {
		message, detail := failureMessage("transfer", err)
		logger.Info("transfer service transfer not completed", logger.Fields{
			"fromAccountId": fromID,
			"toAccountId":   toID,
			"reason":        err.Error(),
		})
		return commons.ErrorResponse[models.TransferResponse](message, detail), err
	}

	var response models.TransferResponse
	if from, ok := s.manager.GetAccount(fromID); ok {
		response.From = models.NewAccountResponse(from.Info())
	}
	if to, ok := s.manager.GetAccount(toID); ok {
		response.To = models.NewAccountResponse(to.Info())
	}

	logger.Info("transfer service transfer success", logger.Fields{
		"fromAccountId": fromID,
		"toAccountId":   toID,
		"amount":        req.Amount.String(),
	})

	return commons.SuccessResponse("transfer successful", response), nil
}
