package dto

type StatsResponseDTO struct {
	Balance      float64 `json:"balance" example:"100.5"`
	MoneySpent   float64 `json:"money_spent" example:"25"`
	MoneyWon     float64 `json:"money_won" example:"50"`
	GameAttempts int     `json:"game_attempts" example:"5"`
}

type BalanceChangeRequestDTO struct {
	AmountChange float64 `json:"amountChange" example:"5"`
	Type         string  `json:"type" example:"spend"`
}

type BalanceChangeResponseDTO struct {
	Message      string  `json:"message"`
	Balance      float64 `json:"balance"`
	MoneySpent   float64 `json:"moneySpent"`
	MoneyWon     float64 `json:"moneyWon"`
	GameAttempts int     `json:"gameAttempts"`
}
