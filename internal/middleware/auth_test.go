package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/batchledger/api/internal/auth"
	"github.com/batchledger/api/internal/enum"
	"github.com/batchledger/api/internal/middleware"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func failHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, _ := auth.GenerateToken(testSecret, userID, enum.UserRoleAccountant)

	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Fatal("expected claims in context")
		}
		if claims.UserID != userID {
			t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if rr := serve(handler, token); rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	rr := serve(middleware.Authenticate(testSecret)(failHandler(t)), "")

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false || body["code"] != "UNAUTHORIZED" {
		t.Errorf("body: %v", body)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rr := serve(middleware.Authenticate(testSecret)(failHandler(t)), "invalid-token")

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	token, _ := auth.GenerateToken(testSecret, uuid.New(), enum.UserRoleAdmin)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic "+token)
	rr := httptest.NewRecorder()
	middleware.Authenticate(testSecret)(failHandler(t)).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{enum.UserRoleAdmin, http.StatusOK},
		{enum.UserRoleAccountant, http.StatusOK},
		{enum.UserRoleStaff, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, _ := auth.GenerateToken(testSecret, uuid.New(), tt.role)
			handler := middleware.Authenticate(testSecret)(
				middleware.RequireRole(enum.UserRoleAdmin, enum.UserRoleAccountant)(okHandler()),
			)
			if rr := serve(handler, token); rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	rr := serve(middleware.RequireRole(enum.UserRoleAdmin)(failHandler(t)), "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
