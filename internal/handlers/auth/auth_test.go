package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/luckygrid/internal/domain"
	"github.com/avolkov/luckygrid/internal/service/authservice"
	pkgauth "github.com/avolkov/luckygrid/pkg/auth"
	"github.com/avolkov/luckygrid/pkg/utils"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestRegisterHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful registration",
			body: `{"username":"newuser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "newuser", "password123").Return(&domain.User{
					ID:       1,
					Username: "newuser",
					Role:     domain.RoleUser,
					Balance:  100,
				}, nil)
				service.EXPECT().GenerateToken(1, domain.RoleUser).Return("some-jwt-token", nil)
			},
			expectedCode:  http.StatusCreated,
			expectedError: "",
		},
		{
			name: "Username already exists",
			body: `{"username":"existinguser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "existinguser", "password123").Return(nil, authservice.ErrUsernameTaken)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Username already exists",
		},
		{
			name: "Reserved username",
			body: `{"username":"Admin","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "Admin", "password123").Return(nil, authservice.ErrUsernameReserved)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Username is reserved",
		},
		{
			name:          "Missing credentials",
			body:          `{"username":"newuser"}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Please provide username and password",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Error generating token",
			body: `{"username":"newuser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().Register(context.Background(), "newuser", "password123").Return(&domain.User{
					ID:       1,
					Username: "newuser",
					Role:     domain.RoleUser,
				}, nil)
				service.EXPECT().GenerateToken(1, domain.RoleUser).Return("", errors.New("token generation error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.Register(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful login",
			body: `{"username":"testuser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(context.Background(), "testuser", "password123").
					Return(&domain.User{
						ID:       1,
						Username: "testuser",
						Role:     domain.RoleUser,
						Balance:  100,
					}, nil)

				service.EXPECT().
					GenerateToken(1, domain.RoleUser).
					Return("some-jwt-token", nil)
			},
			expectedCode:  http.StatusOK,
			expectedError: "",
		},
		{
			name: "Invalid credentials",
			body: `{"username":"testuser","password":"wrongpassword"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(context.Background(), "testuser", "wrongpassword").
					Return(nil, authservice.ErrInvalidCredentials)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Invalid credentials",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Error generating token",
			body: `{"username":"testuser","password":"password123"}`,
			prepareMock: func() {
				service.EXPECT().
					Authenticate(context.Background(), "testuser", "password123").
					Return(&domain.User{
						ID:       1,
						Username: "testuser",
						Role:     domain.RoleUser,
					}, nil)

				service.EXPECT().
					GenerateToken(1, domain.RoleUser).
					Return("", errors.New("token generation error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()

			handler.Login(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}

func TestMeHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		userID        int
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name:   "Successful profile fetch",
			userID: 1,
			prepareMock: func() {
				service.EXPECT().GetUser(gomock.Any(), 1).Return(&domain.User{
					ID:           1,
					Username:     "testuser",
					Role:         domain.RoleUser,
					Balance:      85,
					MoneySpent:   20,
					MoneyWon:     5,
					GameAttempts: 4,
				}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedError: "",
		},
		{
			name:   "User not found",
			userID: 42,
			prepareMock: func() {
				service.EXPECT().GetUser(gomock.Any(), 42).Return(nil, nil)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "User not found",
		},
		{
			name:   "Service error",
			userID: 1,
			prepareMock: func() {
				service.EXPECT().GetUser(gomock.Any(), 1).Return(nil, errors.New("db down"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("GET", "/api/auth/me", nil)
			ctx := context.WithValue(req.Context(), pkgauth.UserIDKey, tt.userID)
			rr := httptest.NewRecorder()

			handler.Me(rr, req.WithContext(ctx))

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			}
		})
	}
}
