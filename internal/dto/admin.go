package dto

import "time"

type AdminUserDTO struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	Balance      float64   `json:"balance"`
	MoneySpent   float64   `json:"money_spent"`
	MoneyWon     float64   `json:"money_won"`
	GameAttempts int       `json:"game_attempts"`
	CreatedAt    time.Time `json:"created_at"`
}

type SetBalanceRequestDTO struct {
	Amount float64 `json:"amount" example:"250"`
}
