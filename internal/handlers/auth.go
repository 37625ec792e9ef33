package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/dto"
	"github.com/TanushriS/IntelliQRHelp/internal/middleware"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/profile"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

const minPasswordLength = 6

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users    store.UserStore
	sessions *profile.Manager
	jwt      *config.JWTConfig
	logger   *zap.SugaredLogger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users store.UserStore, sessions *profile.Manager, jwt *config.JWTConfig, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, jwt: jwt, logger: logger}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account with full name, email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "User already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Full name, email, and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Weak password", "Password must be at least 6 characters")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to hash password", err.Error())
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  req.FullName,
		Provider:     models.ProviderPassword,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			utils.WriteErrorResponse(w, http.StatusConflict, "User already exists", "Email already registered")
			return
		}
		h.logger.Errorw("create user failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	h.writeAuth(w, http.StatusCreated, &user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Email and password are required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Errorw("lookup user failed", "error", err)
		}
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
		return
	}

	h.writeAuth(w, http.StatusOK, user)
}

// Logout ends the caller's profile session after flushing pending writes
// @Summary Logout user
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}
	h.sessions.End(r.Context(), claims.UserID)
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) writeAuth(w http.ResponseWriter, status int, user *models.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.DisplayName, user.PhotoURL, h.jwt)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", err.Error())
		return
	}
	utils.WriteJSONResponse(w, status, dto.AuthResponse{User: userResponse(user), Token: token})
}

func userResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Provider:    u.Provider,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}
