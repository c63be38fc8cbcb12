package ledgerservice

import (
	"context"
	"errors"
	"math"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/pg"
	"go.uber.org/zap"
)

// Transaction kinds accepted by ApplyTransaction.
const (
	TransactionSpend = "spend"
	TransactionWin   = "win"
)

var (
	ErrInsufficientFunds      = errors.New("insufficient balance")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrUserNotFound           = errors.New("user not found")
)

type Repo interface {
	GetStats(ctx context.Context, userID int) (*domain.Stats, error)
	GetStatsForUpdate(ctx context.Context, userID int) (*domain.Stats, error)
	UpdateStats(ctx context.Context, userID int, stats *domain.Stats) (*domain.Stats, error)
	SetBalance(ctx context.Context, userID int, amount float64) (bool, error)
}

type Service struct {
	ledgerRepo Repo
	txManager  pg.TXManager
}

func New(ledgerRepo Repo, txManager pg.TXManager) *Service {
	return &Service{
		ledgerRepo: ledgerRepo,
		txManager:  txManager,
	}
}

// ApplyTransaction mutates one user's balance and counters as a single
// atomic unit. The row lock taken by GetStatsForUpdate serializes
// concurrent transactions on the same user; any failure rolls the whole
// unit back.
func (s *Service) ApplyTransaction(ctx context.Context, userID int, amountChange float64, kind string) (*domain.Stats, error) {
	if amountChange < 0 || math.IsNaN(amountChange) || math.IsInf(amountChange, 0) {
		return nil, ErrInvalidAmount
	}
	if kind != TransactionSpend && kind != TransactionWin {
		return nil, ErrInvalidTransactionType
	}

	var updated *domain.Stats
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		stats, err := s.ledgerRepo.GetStatsForUpdate(ctx, userID)
		if err != nil {
			zap.L().Error("failed to get stats for update", zap.Error(err))
			return err
		}
		if stats == nil {
			return ErrUserNotFound
		}

		switch kind {
		case TransactionSpend:
			if stats.Balance < amountChange {
				return ErrInsufficientFunds
			}
			stats.Balance -= amountChange
			stats.MoneySpent += amountChange
			stats.GameAttempts++
		case TransactionWin:
			stats.Balance += amountChange
			stats.MoneyWon += amountChange
		}

		updated, err = s.ledgerRepo.UpdateStats(ctx, userID, stats)
		if err != nil {
			zap.L().Error("failed to update stats", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetBalance is the admin-panel mutation: an absolute balance write,
// deliberately separate from the delta-shaped ApplyTransaction. Admin
// rows are refused at the repo level.
func (s *Service) SetBalance(ctx context.Context, userID int, amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ErrInvalidAmount
	}

	affected, err := s.ledgerRepo.SetBalance(ctx, userID, amount)
	if err != nil {
		zap.L().Error("failed to set balance", zap.Error(err))
		return err
	}
	if !affected {
		return ErrUserNotFound
	}
	zap.L().Info("balance set by admin", zap.Int("userID", userID), zap.Float64("amount", amount))
	return nil
}

func (s *Service) GetStats(ctx context.Context, userID int) (*domain.Stats, error) {
	stats, err := s.ledgerRepo.GetStats(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get stats", zap.Error(err))
		return nil, err
	}
	if stats == nil {
		return nil, ErrUserNotFound
	}
	return stats, nil
}
