package dto

import (
	"encoding/json"
	"time"

	"github.com/avolkov/luckygrid/internal/domain"
)

// Events carried over the websocket, both directions.
const (
	EventSendMessage = "sendMessage"
	EventNewMessage  = "newMessage"
	EventMarkAsRead  = "markAsRead"
	EventChatError   = "chatError"
)

type ChatEventDTO struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type SendMessageDTO struct {
	Text              string `json:"text"`
	RecipientUsername string `json:"recipientUsername,omitempty"`
}

type MarkAsReadDTO struct {
	MessageID int `json:"messageId"`
}

type ChatErrorDTO struct {
	Message string `json:"message"`
}

// NewChatMessageDTO maps a stored message to its wire shape, shared by
// the history endpoint and the live newMessage event.
func NewChatMessageDTO(msg domain.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:                msg.ID,
		SenderID:          msg.SenderID,
		SenderUsername:    msg.SenderUsername,
		MessageText:       msg.MessageText,
		Timestamp:         msg.Timestamp,
		IsAdminMessage:    msg.IsAdminMessage,
		RecipientUsername: msg.RecipientUsername,
		ReadByAdmin:       msg.ReadByAdmin,
	}
}

type ChatMessageDTO struct {
	ID                int       `json:"id"`
	SenderID          int       `json:"sender_id"`
	SenderUsername    string    `json:"sender_username"`
	MessageText       string    `json:"message_text"`
	Timestamp         time.Time `json:"timestamp"`
	IsAdminMessage    bool      `json:"is_admin_message"`
	RecipientUsername *string   `json:"recipient_username"`
	ReadByAdmin       bool      `json:"read_by_admin"`
}
