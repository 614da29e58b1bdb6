package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shelfswap/shelfswap/internal/auth"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

func newTestMiddleware() (*AuthMiddleware, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthMiddleware(jwtManager), jwtManager
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	mw, _ := newTestMiddleware()

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No token provided") {
		t.Errorf("expected 'No token provided' message, got %s", rec.Body.String())
	}
}

func TestRequireAuth_NoBearerPrefix(t *testing.T) {
	mw, jwtManager := newTestMiddleware()

	token, _, err := jwtManager.GenerateToken("user-1", usermodel.RoleOwner)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for missing Bearer prefix, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware()

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid token") {
		t.Errorf("expected 'Invalid token' message, got %s", rec.Body.String())
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	mw, _ := newTestMiddleware()

	expiredManager := auth.NewJWTManager("test-secret", -time.Hour)
	token, _, err := expiredManager.GenerateToken("user-1", usermodel.RoleOwner)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Token expired") {
		t.Errorf("expected 'Token expired' message, got %s", rec.Body.String())
	}
}

func TestRequireAuth_InjectsIdentity(t *testing.T) {
	mw, jwtManager := newTestMiddleware()

	token, _, err := jwtManager.GenerateToken("user-1", usermodel.RoleSeeker)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var seen *Identity
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("expected identity to be injected")
	}
	if seen.UserID != "user-1" {
		t.Errorf("expected UserID 'user-1', got %q", seen.UserID)
	}
	if seen.Role != usermodel.RoleSeeker {
		t.Errorf("expected Role 'Seeker', got %q", seen.Role)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	mw, jwtManager := newTestMiddleware()

	token, _, err := jwtManager.GenerateToken("user-1", usermodel.RoleSeeker)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	handler := mw.RequireAuth(mw.RequireRole(usermodel.RoleOwner, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_MatchingRole(t *testing.T) {
	mw, jwtManager := newTestMiddleware()

	token, _, err := jwtManager.GenerateToken("user-1", usermodel.RoleOwner)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	reached := false
	handler := mw.RequireAuth(mw.RequireRole(usermodel.RoleOwner, func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !reached {
		t.Error("expected handler to be reached")
	}
}

func TestGetIdentity_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if identity := GetIdentity(req.Context()); identity != nil {
		t.Errorf("expected nil identity, got %+v", identity)
	}
}
