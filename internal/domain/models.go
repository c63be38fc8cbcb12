package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int       `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Balance      float64   `db:"balance"`
	MoneySpent   float64   `db:"money_spent"`
	MoneyWon     float64   `db:"money_won"`
	GameAttempts int       `db:"game_attempts"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Stats is the ledger snapshot of a single users row.
type Stats struct {
	Balance      float64 `db:"balance"`
	MoneySpent   float64 `db:"money_spent"`
	MoneyWon     float64 `db:"money_won"`
	GameAttempts int     `db:"game_attempts"`
}

type ChatMessage struct {
	ID                int       `db:"id"`
	SenderID          int       `db:"sender_id"`
	SenderUsername    string    `db:"sender_username"`
	MessageText       string    `db:"message_text"`
	Timestamp         time.Time `db:"timestamp"`
	IsAdminMessage    bool      `db:"is_admin_message"`
	RecipientUsername *string   `db:"recipient_username"`
	ReadByAdmin       bool      `db:"read_by_admin"`
}
