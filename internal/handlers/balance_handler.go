package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "cashew/internal/errors"
	"cashew/internal/models"
	"cashew/internal/rates"
	"cashew/internal/services"
)

// BalanceHandler exposes the merged cash/card balance view.
type BalanceHandler struct {
	transactionService services.TransactionServicer
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(transactionService services.TransactionServicer) *BalanceHandler {
	return &BalanceHandler{transactionService: transactionService}
}

// BalanceResponse represents the balances in the requested currency,
// rounded for display. When convert_to is set, Converted carries the same
// balances in that currency via the static rate table.
type BalanceResponse struct {
	Currency  models.Currency   `json:"currency"`
	Cash      decimal.Decimal   `json:"cash"`
	Card      decimal.Decimal   `json:"card"`
	Total     decimal.Decimal   `json:"total"`
	Converted *ConvertedBalance `json:"converted,omitempty"`
}

// ConvertedBalance is the display-layer conversion of a balance.
type ConvertedBalance struct {
	Currency models.Currency `json:"currency"`
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Total    decimal.Decimal `json:"total"`
}

// GetBalances handles reading the merged balances.
// @Summary     Get balances
// @Description Get cash and card balances merged across shared ledgers for one currency
// @Tags        balances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       currency   query string true  "Balance currency (MKD/EUR/USD)"
// @Param       convert_to query string false "Also convert for display into this currency"
// @Success     200 {object} BalanceResponse "Balances"
// @Failure     400 {object} ErrorResponse "Invalid currency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Ledger data unavailable"
// @Router      /balances [get]
func (h *BalanceHandler) GetBalances(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency := models.Currency(c.Query("currency"))
	if !currency.IsSupported() {
		respondWithError(c, apperrors.ErrUnsupportedCurrency)
		return
	}

	balances, err := h.transactionService.GetBalances(userID, currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := BalanceResponse{
		Currency: currency,
		Cash:     rates.Round2(balances.Cash),
		Card:     rates.Round2(balances.Card),
		Total:    rates.Round2(balances.Total()),
	}

	if v := c.Query("convert_to"); v != "" {
		target := models.Currency(v)
		cash, err := rates.Convert(balances.Cash, currency, target)
		if err != nil {
			respondWithError(c, err)
			return
		}
		card, err := rates.Convert(balances.Card, currency, target)
		if err != nil {
			respondWithError(c, err)
			return
		}
		resp.Converted = &ConvertedBalance{
			Currency: target,
			Cash:     rates.Round2(cash),
			Card:     rates.Round2(card),
			Total:    rates.Round2(cash.Add(card)),
		}
	}

	c.JSON(http.StatusOK, resp)
}
