package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := NewJWTService("test-secret")
	token, err := jwtService.GenerateJWT(42, "user", time.Now().Add(time.Hour))
	assert.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, 42, r.Context().Value(UserIDKey))
		assert.Equal(t, "user", r.Context().Value(RoleKey))
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(jwtService)(next)

	tests := []struct {
		name         string
		authHeader   string
		expectedCode int
	}{
		{
			name:         "Valid token",
			authHeader:   "Bearer " + token,
			expectedCode: http.StatusOK,
		},
		{
			name:         "Missing header",
			authHeader:   "",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Not a bearer token",
			authHeader:   "Basic abc",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Invalid token",
			authHeader:   "Bearer garbage",
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AdminOnly(next)

	tests := []struct {
		name         string
		role         any
		expectedCode int
	}{
		{
			name:         "Admin role",
			role:         "admin",
			expectedCode: http.StatusOK,
		},
		{
			name:         "User role",
			role:         "user",
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "No role in context",
			role:         nil,
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != nil {
				r = r.WithContext(context.WithValue(r.Context(), RoleKey, tt.role))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
