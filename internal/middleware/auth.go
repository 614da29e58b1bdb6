package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shelfswap/shelfswap/internal/auth"
	"github.com/shelfswap/shelfswap/internal/logger"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the decoded token payload injected into the request context.
// It is trusted as-is; no database lookup happens per request, so a role
// change never affects already-issued tokens.
type Identity struct {
	UserID string
	Role   usermodel.Role
}

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	log        *logger.Logger
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		log:        logger.New("auth-middleware"),
	}
}

// RequireAuth verifies the bearer token and injects the caller's identity.
// A missing token is 403; an invalid or expired one is 401, with distinct
// messages so clients can tell "not logged in" from "session expired".
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			writeMessage(w, http.StatusForbidden, "No token provided")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeMessage(w, http.StatusUnauthorized, "Token expired")
				return
			}
			m.log.Debug("Rejected token: %v", err)
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		identity := &Identity{
			UserID: claims.UserID,
			Role:   claims.Role,
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRole gates a handler on the token's embedded role. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireRole(role usermodel.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		if identity == nil || identity.Role != role {
			writeMessage(w, http.StatusForbidden, "Insufficient role")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// GetIdentity returns the identity injected by RequireAuth, or nil on an
// unauthenticated request.
func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
