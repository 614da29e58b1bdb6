package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shelfswap/shelfswap/internal/auth"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
	"github.com/shelfswap/shelfswap/internal/storage"
	"github.com/shelfswap/shelfswap/internal/validation"
)

// Sentinel errors for the auth flows; handlers map them to HTTP status codes.
var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService orchestrates registration and login: credential store, password
// hasher, and token issuer. It holds no per-request state.
type AuthService struct {
	users      storage.UserStore
	jwtManager *auth.JWTManager
}

func NewAuthService(users storage.UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
	}
}

// Register creates a user and issues a token for it. Either the user row is
// created and a token returned, or nothing is persisted and an error comes
// back. Email matching is case-sensitive exact match.
func (s *AuthService) Register(ctx context.Context, req *usermodel.RegisterRequest) (*usermodel.AuthResult, error) {
	if err := validation.ValidateRegistration(req); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, req, passwordHash)
	if err != nil {
		// The unique index closes the race between the existence check
		// above and this insert.
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &usermodel.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Login verifies credentials and issues a token. No token is issued unless
// both the lookup and the password check succeed.
func (s *AuthService) Login(ctx context.Context, req *usermodel.LoginRequest) (*usermodel.AuthResult, error) {
	if err := validation.ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &usermodel.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// GetUser re-fetches the user behind a verified token's userId claim.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*usermodel.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
