package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shelfswap/shelfswap/internal/logger"
	"github.com/shelfswap/shelfswap/internal/middleware"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
	"github.com/shelfswap/shelfswap/internal/service"
	"github.com/shelfswap/shelfswap/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         logger.New("auth-handler"),
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorJSON(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), &usermodel.RegisterRequest{
		Name:     req.Name,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Password: req.Password,
		Role:     usermodel.Role(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			errorJSON(w, http.StatusBadRequest, "User already exists")
		case validation.IsValidationError(err):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Failed to register user: %v", err)
			errorJSON(w, http.StatusInternalServerError, "Error registering user")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered",
		"token":   result.Token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorJSON(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &usermodel.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			errorJSON(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			errorJSON(w, http.StatusBadRequest, "Invalid credentials")
		case validation.IsValidationError(err):
			errorJSON(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Failed to login: %v", err)
			errorJSON(w, http.StatusInternalServerError, "Error logging in")
		}
		return
	}

	// The user payload marshals without the password hash; the model keeps
	// it out of any JSON response.
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// Me returns the user behind the verified token. Unlike the token itself this
// re-fetches the row, so a deleted user gets a 404 here.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorJSON(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		errorJSON(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	user, err := h.authService.GetUser(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			errorJSON(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("Failed to get user: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Error fetching user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
