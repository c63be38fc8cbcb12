package chatservice

import (
	"context"
	"errors"
	"strings"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/dto"
	"go.uber.org/zap"
)

var (
	ErrEmptyMessage = errors.New("message text cannot be empty")
	ErrUserNotFound = errors.New("user not found")
)

type Repo interface {
	Insert(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	ListAll(ctx context.Context) ([]domain.ChatMessage, error)
	ListForUser(ctx context.Context, userID int, username string) ([]domain.ChatMessage, error)
	MarkRead(ctx context.Context, messageID int) error
}

type UserRepo interface {
	FindByID(ctx context.Context, userID int) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Publisher delivers an event to a resolved set of live subscribers.
type Publisher interface {
	PublishToUser(userID int, event string, payload any)
	PublishToAdmins(event string, payload any)
	PublishToAll(event string, payload any)
}

type Service struct {
	chatRepo  Repo
	userRepo  UserRepo
	publisher Publisher
}

func New(chatRepo Repo, userRepo UserRepo, publisher Publisher) *Service {
	return &Service{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Send persists the message and fans it out:
//   - admin to recipient: recipient's private channel plus the admin
//     channel, so other admins see the reply;
//   - admin without recipient: everyone;
//   - user: admin channel plus an echo to the sender.
func (s *Service) Send(ctx context.Context, sender *domain.User, text, recipientUsername string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	msg := &domain.ChatMessage{
		SenderID:       sender.ID,
		SenderUsername: sender.Username,
		MessageText:    text,
		IsAdminMessage: sender.IsAdmin(),
	}
	if recipientUsername != "" {
		msg.RecipientUsername = &recipientUsername
	}

	msg, err := s.chatRepo.Insert(ctx, msg)
	if err != nil {
		zap.L().Error("failed to persist chat message", zap.Error(err))
		return nil, err
	}

	payload := dto.NewChatMessageDTO(*msg)
	switch {
	case msg.IsAdminMessage && recipientUsername != "":
		recipient, err := s.userRepo.FindByUsername(ctx, recipientUsername)
		if err != nil {
			zap.L().Error("failed to resolve recipient", zap.Error(err))
			return nil, err
		}
		if recipient != nil {
			s.publisher.PublishToUser(recipient.ID, dto.EventNewMessage, payload)
		} else {
			// Dangling recipient: the row stays queryable by admins,
			// private delivery is a no-op.
			zap.L().Info("message addressed to unknown recipient",
				zap.String("recipient", recipientUsername))
		}
		s.publisher.PublishToAdmins(dto.EventNewMessage, payload)
	case msg.IsAdminMessage:
		s.publisher.PublishToAll(dto.EventNewMessage, payload)
	default:
		s.publisher.PublishToAdmins(dto.EventNewMessage, payload)
		s.publisher.PublishToUser(sender.ID, dto.EventNewMessage, payload)
	}

	return msg, nil
}

func (s *Service) ListMessages(ctx context.Context, requesterID int, role string) ([]domain.ChatMessage, error) {
	if role == domain.RoleAdmin {
		return s.chatRepo.ListAll(ctx)
	}

	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		zap.L().Error("failed to resolve requester", zap.Error(err))
		return nil, err
	}
	if requester == nil {
		return nil, ErrUserNotFound
	}
	return s.chatRepo.ListForUser(ctx, requester.ID, requester.Username)
}

// MarkRead flags a message as triaged. Idempotent; unknown ids are
// treated as success.
func (s *Service) MarkRead(ctx context.Context, messageID int) error {
	return s.chatRepo.MarkRead(ctx, messageID)
}
