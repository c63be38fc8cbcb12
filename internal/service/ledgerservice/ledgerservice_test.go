package ledgerservice

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/pg"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRepo, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)

	service := New(repo, txManager)
	defer ctrl.Finish()
	return service, repo, txManager
}

// passthroughTx makes the mocked transaction scope run its callback.
func passthroughTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func TestApplyTransaction_Spend(t *testing.T) {
	service, repo, txManager := NewMock(t)
	ctx := context.Background()

	passthroughTx(txManager)
	repo.EXPECT().GetStatsForUpdate(ctx, 1).
		Return(&domain.Stats{Balance: 20.0}, nil)
	repo.EXPECT().UpdateStats(ctx, 1, &domain.Stats{Balance: 15.0, MoneySpent: 5.0, GameAttempts: 1}).
		Return(&domain.Stats{Balance: 15.0, MoneySpent: 5.0, GameAttempts: 1}, nil)

	stats, err := service.ApplyTransaction(ctx, 1, 5.0, TransactionSpend)

	assert.NoError(t, err)
	assert.Equal(t, 15.0, stats.Balance)
	assert.Equal(t, 5.0, stats.MoneySpent)
	assert.Equal(t, 1, stats.GameAttempts)
}

func TestApplyTransaction_WinAfterSpend(t *testing.T) {
	service, repo, txManager := NewMock(t)
	ctx := context.Background()

	passthroughTx(txManager)
	repo.EXPECT().GetStatsForUpdate(ctx, 1).
		Return(&domain.Stats{Balance: 15.0, MoneySpent: 5.0, GameAttempts: 1}, nil)
	repo.EXPECT().UpdateStats(ctx, 1, &domain.Stats{Balance: 45.0, MoneySpent: 5.0, MoneyWon: 30.0, GameAttempts: 1}).
		Return(&domain.Stats{Balance: 45.0, MoneySpent: 5.0, MoneyWon: 30.0, GameAttempts: 1}, nil)

	stats, err := service.ApplyTransaction(ctx, 1, 30.0, TransactionWin)

	assert.NoError(t, err)
	assert.Equal(t, 45.0, stats.Balance)
	assert.Equal(t, 30.0, stats.MoneyWon)
	assert.Equal(t, 5.0, stats.MoneySpent)
	assert.Equal(t, 1, stats.GameAttempts)
}

func TestApplyTransaction_InsufficientFunds(t *testing.T) {
	service, repo, txManager := NewMock(t)
	ctx := context.Background()

	// No UpdateStats expectation: a rejected spend must not write and
	// must not count an attempt.
	passthroughTx(txManager)
	repo.EXPECT().GetStatsForUpdate(ctx, 2).
		Return(&domain.Stats{Balance: 3.0}, nil)

	stats, err := service.ApplyTransaction(ctx, 2, 5.0, TransactionSpend)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, stats)
}

func TestApplyTransaction_Validation(t *testing.T) {
	service, _, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		amount        float64
		kind          string
		expectedError error
	}{
		{"Negative amount", -5.0, TransactionSpend, ErrInvalidAmount},
		{"NaN amount", math.NaN(), TransactionWin, ErrInvalidAmount},
		{"Infinite amount", math.Inf(1), TransactionWin, ErrInvalidAmount},
		{"Unknown kind", 5.0, "refund", ErrInvalidTransactionType},
		{"Empty kind", 5.0, "", ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := service.ApplyTransaction(ctx, 1, tt.amount, tt.kind)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, stats)
		})
	}
}

func TestApplyTransaction_UserNotFound(t *testing.T) {
	service, repo, txManager := NewMock(t)
	ctx := context.Background()

	passthroughTx(txManager)
	repo.EXPECT().GetStatsForUpdate(ctx, 99).Return(nil, nil)

	stats, err := service.ApplyTransaction(ctx, 99, 5.0, TransactionSpend)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, stats)
}

func TestApplyTransaction_UpdateFailureRollsBack(t *testing.T) {
	service, repo, txManager := NewMock(t)
	ctx := context.Background()

	dbErr := errors.New("database error")
	passthroughTx(txManager)
	repo.EXPECT().GetStatsForUpdate(ctx, 1).
		Return(&domain.Stats{Balance: 20.0}, nil)
	repo.EXPECT().UpdateStats(ctx, 1, gomock.Any()).Return(nil, dbErr)

	stats, err := service.ApplyTransaction(ctx, 1, 5.0, TransactionSpend)

	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, stats)
}

func TestSetBalance(t *testing.T) {
	service, repo, _ := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        int
		amount        float64
		prepareMock   func()
		expectedError error
	}{
		{
			name:   "Successful set",
			userID: 2,
			amount: 250.0,
			prepareMock: func() {
				repo.EXPECT().SetBalance(ctx, 2, 250.0).Return(true, nil)
			},
		},
		{
			name:   "Unknown or admin user",
			userID: 1,
			amount: 250.0,
			prepareMock: func() {
				repo.EXPECT().SetBalance(ctx, 1, 250.0).Return(false, nil)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name:          "Negative amount",
			userID:        2,
			amount:        -1.0,
			prepareMock:   func() {},
			expectedError: ErrInvalidAmount,
		},
		{
			name:   "Database error",
			userID: 2,
			amount: 250.0,
			prepareMock: func() {
				repo.EXPECT().SetBalance(ctx, 2, 250.0).Return(false, errors.New("database error"))
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			err := service.SetBalance(ctx, tt.userID, tt.amount)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	service, repo, _ := NewMock(t)
	ctx := context.Background()

	repo.EXPECT().GetStats(ctx, 1).Return(&domain.Stats{Balance: 100.0}, nil)

	stats, err := service.GetStats(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, stats.Balance)

	repo.EXPECT().GetStats(ctx, 99).Return(nil, nil)

	stats, err = service.GetStats(ctx, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, stats)
}
