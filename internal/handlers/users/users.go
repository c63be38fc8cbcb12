package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/dto"
	"github.com/avolkov/luckygrid/internal/service/ledgerservice"
	"github.com/avolkov/luckygrid/pkg/auth"
	"github.com/avolkov/luckygrid/pkg/utils"
)

type Service interface {
	GetStats(ctx context.Context, userID int) (*domain.Stats, error)
	ApplyTransaction(ctx context.Context, userID int, amountChange float64, kind string) (*domain.Stats, error)
}

type UsersHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *UsersHandler {
	return &UsersHandler{
		ledgerService: ledgerService,
	}
}

// GetStats godoc
//
//	@Summary		Get user statistics
//	@Description	Retrieve balance and game counters for the authenticated user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.StatsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/users/stats [get]
func (h *UsersHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	stats, err := h.ledgerService.GetStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledgerservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.StatsResponseDTO{
		Balance:      stats.Balance,
		MoneySpent:   stats.MoneySpent,
		MoneyWon:     stats.MoneyWon,
		GameAttempts: stats.GameAttempts,
	})
}

// UpdateBalance godoc
//
//	@Summary		Apply a game transaction
//	@Description	Apply a spend or win delta to the authenticated user's balance
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.BalanceChangeRequestDTO	true	"Transaction payload"
//	@Success		200		{object}	dto.BalanceChangeResponseDTO
//	@Failure		400		{object}	utils.Response	"Insufficient balance or invalid transaction"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/users/balance [put]
func (h *UsersHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.BalanceChangeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stats, err := h.ledgerService.ApplyTransaction(r.Context(), userID, req.AmountChange, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusBadRequest, "Insufficient balance")
		case errors.Is(err, ledgerservice.ErrInvalidTransactionType):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid transaction type")
		case errors.Is(err, ledgerservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Server error while updating balance")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceChangeResponseDTO{
		Message:      "Balance updated successfully",
		Balance:      stats.Balance,
		MoneySpent:   stats.MoneySpent,
		MoneyWon:     stats.MoneyWon,
		GameAttempts: stats.GameAttempts,
	})
}
