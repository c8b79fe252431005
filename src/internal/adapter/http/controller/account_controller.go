package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/account-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/service_interfaces"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	routes := map[string]http.HandlerFunc{
		"POST /accounts":                  c.createAccount,
		"GET /accounts":                   c.listAccounts,
		"GET /accounts/{id}":              c.getAccount,
		"DELETE /accounts/{id}":           c.removeAccount,
		"POST /accounts/{id}/deposit":     c.deposit,
		"POST /accounts/{id}/withdraw":    c.withdraw,
		"POST /accounts/{id}/interest":    c.applyInterest,
		"PUT /accounts/{id}/status":       c.setStatus,
		"GET /accounts/{id}/transactions": c.transactions,
		"GET /accounts/{id}/holdings":     c.holdings,
		"POST /accounts/{id}/buy":         c.buyShares,
		"POST /accounts/{id}/sell":        c.sellShares,
		"GET /balances/{currency}":        c.totalBalance,
	}

	for pattern, handler := range routes {
		var h http.Handler = handler
		if authMiddleware != nil {
			h = authMiddleware(h)
		}
		mux.Handle(pattern, h)
	}
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), req)
	respond(w, r, http.StatusCreated, response, err, start)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListAccounts(r.Context())
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetAccount(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) removeAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.RemoveAccount(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AmountRequest
	if !decodeOrReject[models.AccountResponse](w, r, &req, start) {
		return
	}

	response, err := c.service.Deposit(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.AmountRequest
	if !decodeOrReject[models.AccountResponse](w, r, &req, start) {
		return
	}

	response, err := c.service.Withdraw(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) applyInterest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.InterestRequest
	if !decodeOrReject[models.AccountResponse](w, r, &req, start) {
		return
	}

	response, err := c.service.ApplyInterest(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) setStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.StatusRequest
	if !decodeOrReject[models.AccountResponse](w, r, &req, start) {
		return
	}

	response, err := c.service.SetStatus(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) transactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.Transactions(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) totalBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.TotalBalance(r.Context(), r.PathValue("currency"))
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) holdings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.Holdings(r.Context(), r.PathValue("id"))
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) buyShares(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TradeRequest
	if !decodeOrReject[models.PortfolioResponse](w, r, &req, start) {
		return
	}

	response, err := c.service.BuyShares(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, response, err, start)
}

func (c *AccountController) sellShares(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TradeRequest
	if !decodeOrReject[models.PortfolioResponse](w, r, &req, start) {
		return
	}

	response, err := c.service.SellShares(r.Context(), r.PathValue("id"), req)
	respond(w, r, http.StatusOK, response, err, start)
}

func decodeOrReject[T any](w http.ResponseWriter, r *http.Request, dst any, start time.Time) bool {
	if err := decodeJSON(r, dst); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, dst)
	return true
}

func respond[T any](w http.ResponseWriter, r *http.Request, okStatus int, response commons.Response[T], err error, start time.Time) {
	status := okStatus
	if err != nil {
		status = statusFor(err)
		if status == http.StatusInternalServerError {
			logError(r, err, logger.Fields{"message": response.Message})
		}
	}

	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}
