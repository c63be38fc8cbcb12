package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/dto"
	"github.com/avolkov/luckygrid/internal/service/ledgerservice"
	"github.com/avolkov/luckygrid/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*AdminHandler, *MockUserService, *MockLedgerService) {
	ctrl := gomock.NewController(t)
	userService := NewMockUserService(ctrl)
	ledgerService := NewMockLedgerService(ctrl)
	handler := New(userService, ledgerService)
	defer ctrl.Finish()
	return handler, userService, ledgerService
}

func TestListUsersHandler(t *testing.T) {
	handler, userService, _ := NewMock(t)

	now := time.Now()
	players := []domain.User{
		{ID: 2, Username: "alice", Role: domain.RoleUser, Balance: 85, MoneySpent: 20, MoneyWon: 5, GameAttempts: 4, CreatedAt: now},
		{ID: 3, Username: "bob", Role: domain.RoleUser, Balance: 100, CreatedAt: now},
	}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedLen   int
		expectedError string
	}{
		{
			name: "Successful listing",
			prepareMock: func() {
				userService.EXPECT().ListPlayers(gomock.Any()).Return(players, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name: "No players yet",
			prepareMock: func() {
				userService.EXPECT().ListPlayers(gomock.Any()).Return(nil, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name: "Service error",
			prepareMock: func() {
				userService.EXPECT().ListPlayers(gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("GET", "/api/admin/users", nil)
			rr := httptest.NewRecorder()

			handler.ListUsers(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
				return
			}
			var resp []dto.AdminUserDTO
			err := json.NewDecoder(rr.Body).Decode(&resp)
			assert.NoError(t, err)
			assert.Len(t, resp, tt.expectedLen)
		})
	}
}

func TestSetBalanceHandler(t *testing.T) {
	handler, _, ledgerService := NewMock(t)

	tests := []struct {
		name            string
		userID          string
		body            string
		prepareMock     func()
		expectedCode    int
		expectedMessage string
	}{
		{
			name:   "Successful update",
			userID: "2",
			body:   `{"amount":250}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 2, 250.0).Return(nil)
			},
			expectedCode:    http.StatusOK,
			expectedMessage: "Balance for user ID 2 updated to 250.00",
		},
		{
			name:            "Invalid user id",
			userID:          "abc",
			body:            `{"amount":250}`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid user id",
		},
		{
			name:            "Invalid request body",
			userID:          "2",
			body:            `{invalid json`,
			prepareMock:     func() {},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid amount specified",
		},
		{
			name:   "Negative amount",
			userID: "2",
			body:   `{"amount":-10}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 2, -10.0).Return(ledgerservice.ErrInvalidAmount)
			},
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Invalid amount specified",
		},
		{
			name:   "User not found",
			userID: "42",
			body:   `{"amount":250}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 42, 250.0).Return(ledgerservice.ErrUserNotFound)
			},
			expectedCode:    http.StatusNotFound,
			expectedMessage: "User not found or cannot modify admin balance",
		},
		{
			name:   "Service error",
			userID: "2",
			body:   `{"amount":250}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 2, 250.0).Return(errors.New("db down"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("PUT", "/api/admin/users/"+tt.userID+"/balance", bytes.NewReader([]byte(tt.body)))
			routeCtx := chi.NewRouteContext()
			routeCtx.URLParams.Add("id", tt.userID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
			rr := httptest.NewRecorder()

			handler.SetBalance(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp utils.Response
			err := json.NewDecoder(rr.Body).Decode(&resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}
