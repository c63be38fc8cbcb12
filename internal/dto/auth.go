package dto

type RegisterRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterResponseDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

type LoginRequestDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponseDTO struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Balance  float64 `json:"balance"`
	Token    string  `json:"token"`
}

type MeResponseDTO struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	Balance      float64 `json:"balance"`
	MoneySpent   float64 `json:"moneySpent"`
	MoneyWon     float64 `json:"moneyWon"`
	GameAttempts int     `json:"gameAttempts"`
}
