package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/dto"
	"github.com/avolkov/luckygrid/internal/service/ledgerservice"
	"github.com/avolkov/luckygrid/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type UserService interface {
	ListPlayers(ctx context.Context) ([]domain.User, error)
}

type LedgerService interface {
	SetBalance(ctx context.Context, userID int, amount float64) error
}

type AdminHandler struct {
	userService   UserService
	ledgerService LedgerService
}

func New(userService UserService, ledgerService LedgerService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// ListUsers godoc
//
//	@Summary		List all players
//	@Description	Return every non-admin account for the admin panel
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.AdminUserDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListPlayers(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.AdminUserDTO, 0, len(users))
	for _, user := range users {
		response = append(response, dto.AdminUserDTO{
			ID:           user.ID,
			Username:     user.Username,
			Role:         user.Role,
			Balance:      user.Balance,
			MoneySpent:   user.MoneySpent,
			MoneyWon:     user.MoneyWon,
			GameAttempts: user.GameAttempts,
			CreatedAt:    user.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// SetBalance godoc
//
//	@Summary		Set a player's balance
//	@Description	Write an absolute balance for a non-admin account
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"User ID"
//	@Param			request	body		dto.SetBalanceRequestDTO	true	"New balance"
//	@Success		200		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Admin access required"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/admin/users/{id}/balance [put]
func (h *AdminHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req dto.SetBalanceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount specified")
		return
	}

	if err := h.ledgerService.SetBalance(r.Context(), userID, req.Amount); err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount specified")
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found or cannot modify admin balance")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{
		Message: fmt.Sprintf("Balance for user ID %d updated to %.2f", userID, req.Amount),
	})
}
