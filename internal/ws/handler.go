package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/dto"
	"github.com/avolkov/luckygrid/pkg/auth"
	"github.com/avolkov/luckygrid/pkg/utils"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type UserService interface {
	GetUser(ctx context.Context, userID int) (*domain.User, error)
}

type ChatService interface {
	Send(ctx context.Context, sender *domain.User, text, recipientUsername string) (*domain.ChatMessage, error)
	MarkRead(ctx context.Context, messageID int) error
}

type Handler struct {
	hub         *Hub
	userService UserService
	chatService ChatService
	jwtService  auth.JWTServiceInterface
	upgrader    websocket.Upgrader
}

func NewHandler(hub *Hub, userService UserService, chatService ChatService, jwtService auth.JWTServiceInterface) *Handler {
	return &Handler{
		hub:         hub,
		userService: userService,
		chatService: chatService,
		jwtService:  jwtService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS authenticates the handshake, subscribes the connection and
// runs both pumps until either side ends the session. No subscription
// happens on a bad credential.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}
	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	user, err := h.userService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "User not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(conn, user.ID, user.IsAdmin())
	h.hub.Register(client)
	zap.L().Info("chat client connected", zap.String("username", user.Username))

	defer func() {
		h.hub.Unregister(client)
		conn.Close()
		zap.L().Info("chat client disconnected", zap.String("username", user.Username))
	}()

	var g errgroup.Group
	g.Go(client.writePump)
	g.Go(func() error {
		return client.readPump(func(data []byte) {
			h.dispatch(r.Context(), client, user, data)
		})
	})
	if err := g.Wait(); err != nil {
		zap.L().Debug("chat session ended", zap.String("username", user.Username), zap.Error(err))
	}
}

func (h *Handler) dispatch(ctx context.Context, client *Client, user *domain.User, data []byte) {
	var event dto.ChatEventDTO
	if err := json.Unmarshal(data, &event); err != nil {
		h.chatError(client, "Malformed event")
		return
	}

	switch event.Event {
	case dto.EventSendMessage:
		var req dto.SendMessageDTO
		if err := json.Unmarshal(event.Data, &req); err != nil {
			h.chatError(client, "Malformed event")
			return
		}
		if _, err := h.chatService.Send(ctx, user, req.Text, req.RecipientUsername); err != nil {
			zap.L().Error("failed to send chat message", zap.Error(err))
			h.chatError(client, "Failed to send message")
		}
	case dto.EventMarkAsRead:
		if !user.IsAdmin() {
			h.chatError(client, "Admin access required")
			return
		}
		var req dto.MarkAsReadDTO
		if err := json.Unmarshal(event.Data, &req); err != nil {
			h.chatError(client, "Malformed event")
			return
		}
		if err := h.chatService.MarkRead(ctx, req.MessageID); err != nil {
			h.chatError(client, "Failed to mark message as read")
		}
	default:
		h.chatError(client, "Unknown event")
	}
}

func (h *Handler) chatError(client *Client, message string) {
	h.hub.PublishToClient(client, dto.EventChatError, dto.ChatErrorDTO{Message: message})
}
