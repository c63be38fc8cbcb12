package chatrepo

import (
	"context"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Insert(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	query := `
        INSERT INTO chat_messages (sender_id, message_text, is_admin_message, recipient_username)
        VALUES ($1, $2, $3, $4)
        RETURNING id, timestamp
    `
	err := r.db.QueryRow(ctx, query, msg.SenderID, msg.MessageText, msg.IsAdminMessage, msg.RecipientUsername).
		Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		zap.L().Error("failed to insert chat message", zap.Error(err))
		return nil, err
	}
	return msg, nil
}

// ListAll returns every message with its sender name, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]domain.ChatMessage, error) {
	query := `
        SELECT cm.id, cm.sender_id, u.username, cm.message_text, cm.timestamp,
               cm.is_admin_message, cm.recipient_username, cm.read_by_admin
        FROM chat_messages cm
        JOIN users u ON cm.sender_id = u.id
        ORDER BY cm.timestamp ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to list chat messages", zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

// ListForUser returns messages the user sent plus admin messages
// addressed to their username, oldest first.
func (r *Repository) ListForUser(ctx context.Context, userID int, username string) ([]domain.ChatMessage, error) {
	query := `
        SELECT cm.id, cm.sender_id, u.username, cm.message_text, cm.timestamp,
               cm.is_admin_message, cm.recipient_username, cm.read_by_admin
        FROM chat_messages cm
        JOIN users u ON cm.sender_id = u.id
        WHERE cm.sender_id = $1 OR (cm.is_admin_message = TRUE AND cm.recipient_username = $2)
        ORDER BY cm.timestamp ASC
    `
	rows, err := r.db.Query(ctx, query, userID, username)
	if err != nil {
		zap.L().Error("failed to list chat messages for user", zap.Error(err))
		return nil, err
	}
	return r.collect(rows)
}

// MarkRead is idempotent; updating an absent id is not an error.
func (r *Repository) MarkRead(ctx context.Context, messageID int) error {
	query := `
        UPDATE chat_messages
        SET read_by_admin = TRUE
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, messageID); err != nil {
		zap.L().Error("failed to mark message as read", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) collect(rows pgx.Rows) ([]domain.ChatMessage, error) {
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.SenderUsername, &msg.MessageText,
			&msg.Timestamp, &msg.IsAdminMessage, &msg.RecipientUsername, &msg.ReadByAdmin,
		); err != nil {
			zap.L().Error("can't scan chat message row", zap.Error(err))
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("rows iteration failed", zap.Error(err))
		return nil, err
	}
	return messages, nil
}
