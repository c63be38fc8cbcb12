package chat

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/dto"
	"github.com/avolkov/luckygrid/internal/service/chatservice"
	"github.com/avolkov/luckygrid/pkg/auth"
	"github.com/avolkov/luckygrid/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	ListMessages(ctx context.Context, requesterID int, role string) ([]domain.ChatMessage, error)
	MarkRead(ctx context.Context, messageID int) error
}

type ChatHandler struct {
	chatService Service
}

func New(chatService Service) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// GetMessages godoc
//
//	@Summary		Get chat history
//	@Description	Admins see all messages; users see their own plus admin replies addressed to them
//	@Tags			Chat
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.ChatMessageDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/chat/messages [get]
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	role, _ := r.Context().Value(auth.RoleKey).(string)

	messages, err := h.chatService.ListMessages(r.Context(), userID, role)
	if err != nil {
		if errors.Is(err, chatservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, msg := range messages {
		response = append(response, dto.NewChatMessageDTO(msg))
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// MarkRead godoc
//
//	@Summary		Mark a message as read
//	@Description	Flag a message as triaged by an admin; idempotent
//	@Tags			Chat
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	utils.Response
//	@Failure		400	{object}	utils.Response	"Invalid message id"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin access required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/chat/messages/{id}/read [put]
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	messageID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid message id")
		return
	}

	if err := h.chatService.MarkRead(r.Context(), messageID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Message: "Message marked as read"})
}
