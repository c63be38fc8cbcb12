package ledgerrepo

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

func (r *Repository) GetStats(ctx context.Context, userID int) (*domain.Stats, error) {
	query := `
        SELECT balance, money_spent, money_won, game_attempts
        FROM users
        WHERE id = $1
    `
	return r.scanStats(r.db.QueryRow(ctx, query, userID))
}

// GetStatsForUpdate takes a row lock; it must run inside a TXManager
// scope so concurrent mutations of the same user serialize.
func (r *Repository) GetStatsForUpdate(ctx context.Context, userID int) (*domain.Stats, error) {
	query := `
        SELECT balance, money_spent, money_won, game_attempts
        FROM users
        WHERE id = $1
        FOR UPDATE
    `
	return r.scanStats(r.db.QueryRow(ctx, query, userID))
}

func (r *Repository) UpdateStats(ctx context.Context, userID int, stats *domain.Stats) (*domain.Stats, error) {
	query := `
        UPDATE users
        SET balance = $1, money_spent = $2, money_won = $3, game_attempts = $4
        WHERE id = $5
        RETURNING balance, money_spent, money_won, game_attempts
    `
	row := r.db.QueryRow(ctx, query, stats.Balance, stats.MoneySpent, stats.MoneyWon, stats.GameAttempts, userID)
	var updated domain.Stats
	err := row.Scan(&updated.Balance, &updated.MoneySpent, &updated.MoneyWon, &updated.GameAttempts)
	if err != nil {
		zap.L().Error("failed to update user stats", zap.Error(err))
		return nil, err
	}
	return &updated, nil
}

// SetBalance writes an absolute balance. Admin rows are never touched;
// the bool reports whether a row was updated.
func (r *Repository) SetBalance(ctx context.Context, userID int, amount float64) (bool, error) {
	query := `
        UPDATE users
        SET balance = $1
        WHERE id = $2 AND role != 'admin'
    `
	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		zap.L().Error("failed to set user balance", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) scanStats(row pgx.Row) (*domain.Stats, error) {
	var stats domain.Stats
	err := row.Scan(&stats.Balance, &stats.MoneySpent, &stats.MoneyWon, &stats.GameAttempts)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get user stats", zap.Error(err))
		return nil, err
	}
	return &stats, nil
}
