package chatservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockUserRepo, *MockPublisher) {
	ctrl := gomock.NewController(t)
	chatRepo := NewMockRepo(ctrl)
	userRepo := NewMockUserRepo(ctrl)
	publisher := NewMockPublisher(ctrl)

	service := New(chatRepo, userRepo, publisher)
	defer ctrl.Finish()
	return service, chatRepo, userRepo, publisher
}

func insertReturning(id int) func(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	return func(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
		msg.ID = id
		msg.Timestamp = time.Now()
		return msg, nil
	}
}

func TestSend_UserMessage(t *testing.T) {
	service, chatRepo, _, publisher := NewMock(t)
	ctx := context.Background()
	sender := &domain.User{ID: 2, Username: "alice", Role: "user"}

	chatRepo.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(insertReturning(10))
	publisher.EXPECT().PublishToAdmins("newMessage", gomock.Any())
	publisher.EXPECT().PublishToUser(2, "newMessage", gomock.Any())

	msg, err := service.Send(ctx, sender, "help please", "")

	assert.NoError(t, err)
	assert.Equal(t, 10, msg.ID)
	assert.Equal(t, 2, msg.SenderID)
	assert.Equal(t, "alice", msg.SenderUsername)
	assert.False(t, msg.IsAdminMessage)
	assert.Nil(t, msg.RecipientUsername)
}

func TestSend_AdminToRecipient(t *testing.T) {
	service, chatRepo, userRepo, publisher := NewMock(t)
	ctx := context.Background()
	sender := &domain.User{ID: 1, Username: "admin", Role: "admin"}

	chatRepo.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(insertReturning(11))
	userRepo.EXPECT().FindByUsername(ctx, "alice").Return(&domain.User{ID: 2, Username: "alice"}, nil)
	publisher.EXPECT().PublishToUser(2, "newMessage", gomock.Any())
	publisher.EXPECT().PublishToAdmins("newMessage", gomock.Any())

	msg, err := service.Send(ctx, sender, "hello alice", "alice")

	assert.NoError(t, err)
	assert.True(t, msg.IsAdminMessage)
	assert.Equal(t, "alice", *msg.RecipientUsername)
}

func TestSend_AdminToDanglingRecipient(t *testing.T) {
	service, chatRepo, userRepo, publisher := NewMock(t)
	ctx := context.Background()
	sender := &domain.User{ID: 1, Username: "admin", Role: "admin"}

	// Unknown recipient: no private delivery, the admin copy still goes
	// out and the row is persisted.
	chatRepo.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(insertReturning(12))
	userRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, nil)
	publisher.EXPECT().PublishToAdmins("newMessage", gomock.Any())

	msg, err := service.Send(ctx, sender, "are you there", "ghost")

	assert.NoError(t, err)
	assert.Equal(t, 12, msg.ID)
}

func TestSend_AdminBroadcast(t *testing.T) {
	service, chatRepo, _, publisher := NewMock(t)
	ctx := context.Background()
	sender := &domain.User{ID: 1, Username: "admin", Role: "admin"}

	chatRepo.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(insertReturning(13))
	publisher.EXPECT().PublishToAll("newMessage", gomock.Any())

	_, err := service.Send(ctx, sender, "maintenance at noon", "")

	assert.NoError(t, err)
}

func TestSend_EmptyText(t *testing.T) {
	service, _, _, _ := NewMock(t)
	sender := &domain.User{ID: 2, Username: "alice", Role: "user"}

	for _, text := range []string{"", "   ", "\n\t"} {
		msg, err := service.Send(context.Background(), sender, text, "")

		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, msg)
	}
}

func TestSend_InsertError(t *testing.T) {
	service, chatRepo, _, _ := NewMock(t)
	ctx := context.Background()
	sender := &domain.User{ID: 2, Username: "alice", Role: "user"}

	chatRepo.EXPECT().Insert(ctx, gomock.Any()).Return(nil, errors.New("database error"))

	msg, err := service.Send(ctx, sender, "help please", "")

	assert.Error(t, err)
	assert.Nil(t, msg)
}

func TestListMessages_Admin(t *testing.T) {
	service, chatRepo, _, _ := NewMock(t)
	ctx := context.Background()

	chatRepo.EXPECT().ListAll(ctx).Return([]domain.ChatMessage{{ID: 1}, {ID: 2}}, nil)

	messages, err := service.ListMessages(ctx, 1, "admin")

	assert.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestListMessages_User(t *testing.T) {
	service, chatRepo, userRepo, _ := NewMock(t)
	ctx := context.Background()

	userRepo.EXPECT().FindByID(ctx, 2).Return(&domain.User{ID: 2, Username: "alice"}, nil)
	chatRepo.EXPECT().ListForUser(ctx, 2, "alice").Return([]domain.ChatMessage{{ID: 1}}, nil)

	messages, err := service.ListMessages(ctx, 2, "user")

	assert.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestListMessages_UnknownRequester(t *testing.T) {
	service, _, userRepo, _ := NewMock(t)
	ctx := context.Background()

	userRepo.EXPECT().FindByID(ctx, 99).Return(nil, nil)

	messages, err := service.ListMessages(ctx, 99, "user")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, messages)
}

func TestMarkRead(t *testing.T) {
	service, chatRepo, _, _ := NewMock(t)
	ctx := context.Background()

	// Idempotence lives in the repo update; the second call is the same
	// successful no-op.
	chatRepo.EXPECT().MarkRead(ctx, 10).Return(nil).Times(2)

	assert.NoError(t, service.MarkRead(ctx, 10))
	assert.NoError(t, service.MarkRead(ctx, 10))
}
