package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry has passed. Clients should re-login.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed tokens, signature mismatches, and
	// tokens signed with a different method.
	ErrTokenInvalid = errors.New("invalid token")
)

type Claims struct {
	UserID string         `json:"userId"`
	Role   usermodel.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies session tokens. The secret is loaded once at
// startup and never rotated during the process lifetime.
type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
}

func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

// GenerateToken signs a token carrying the user's id and role, expiring
// tokenDuration from now.
func (m *JWTManager) GenerateToken(userID string, role usermodel.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.tokenDuration)

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, returning its claims. Expired
// tokens map to ErrTokenExpired; every other failure maps to ErrTokenInvalid
// so callers can distinguish "not logged in" from "session expired".
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
