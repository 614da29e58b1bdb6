package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfswap/shelfswap/internal/auth"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
	"github.com/shelfswap/shelfswap/internal/storage"
	"github.com/shelfswap/shelfswap/internal/validation"
)

func newAuthService() (*AuthService, *storage.MemoryUserStore) {
	users := storage.NewMemoryUserStore()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, jwtManager), users
}

func registerRequest() *usermodel.RegisterRequest {
	return &usermodel.RegisterRequest{
		Name:     "Asha",
		Mobile:   "555-0101",
		Email:    "asha@example.com",
		Password: "pw123",
		Role:     usermodel.RoleOwner,
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthService()

	result, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.PasswordHash == "" {
		t.Error("expected stored password hash")
	}
	if result.User.PasswordHash == "pw123" {
		t.Error("password must not be stored in plaintext")
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	claims, err := jwtManager.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("expected userId claim %q, got %q", result.User.ID, claims.UserID)
	}
	if claims.Role != usermodel.RoleOwner {
		t.Errorf("expected role claim 'Owner', got %q", claims.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, users := newAuthService()

	if _, err := svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := svc.Register(context.Background(), registerRequest())
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	if users.Count() != 1 {
		t.Errorf("expected exactly one stored user, got %d", users.Count())
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, users := newAuthService()

	req := registerRequest()
	req.Role = "Admin"

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, validation.ErrRoleInvalid) {
		t.Errorf("expected ErrRoleInvalid, got %v", err)
	}

	if users.Count() != 0 {
		t.Errorf("expected no stored user, got %d", users.Count())
	}
}

func TestRegister_EmailCaseSensitive(t *testing.T) {
	svc, users := newAuthService()

	if _, err := svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	// Matching is exact; a different casing registers a second account.
	req := registerRequest()
	req.Email = "Asha@example.com"
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if users.Count() != 2 {
		t.Errorf("expected two stored users, got %d", users.Count())
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()

	registered, err := svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result, err := svc.Login(context.Background(), &usermodel.LoginRequest{
		Email:    "asha@example.com",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Token == "" {
		t.Error("expected a token")
	}
	if result.User.ID != registered.User.ID {
		t.Errorf("expected user %q, got %q", registered.User.ID, result.User.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()

	if _, err := svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, err := svc.Login(context.Background(), &usermodel.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Login(context.Background(), &usermodel.LoginRequest{
		Email:    "nobody@example.com",
		Password: "pw123",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.GetUser(context.Background(), "missing-id")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
