package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/dto"
	"github.com/TanushriS/IntelliQRHelp/internal/middleware"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

const stateTTL = 10 * time.Minute

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	users        store.UserStore
	oauth2Config *oauth2.Config
	config       *config.Config
	logger       *zap.SugaredLogger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(users store.UserStore, cfg *config.Config, logger *zap.SugaredLogger) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &GoogleAuthHandler{
		users:        users,
		oauth2Config: oauth2Config,
		config:       cfg,
		logger:       logger,
	}
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Initiate Google OAuth login flow
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Failure 503 {object} dto.ErrorResponse "Google sign-in not configured"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.config.IsGoogleOAuthConfigured() {
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Google sign-in unavailable", "Google OAuth is not configured")
		return
	}

	state, err := h.signState()
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to start login", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, creates the account on first sign-in and redirects to the frontend with a token
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by the login endpoint"
// @Success 302
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}
	if err := h.verifyState(r.URL.Query().Get("state")); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid state", "Login request expired or was tampered with")
		return
	}

	token, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization code", err.Error())
		return
	}

	userInfo, err := h.getGoogleUserInfo(r.Context(), token)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get user info", err.Error())
		return
	}

	user, err := h.findOrCreateUser(r.Context(), userInfo)
	if err != nil {
		h.logger.Errorw("google sign-in failed", "email", userInfo.Email, "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create user", err.Error())
		return
	}

	jwtToken, err := middleware.GenerateToken(user.ID, user.Email, user.DisplayName, user.PhotoURL, &h.config.JWT)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", err.Error())
		return
	}

	q := url.Values{}
	q.Set("token", jwtToken)
	q.Set("user_id", user.ID)
	q.Set("email", user.Email)
	q.Set("display_name", user.DisplayName)
	q.Set("provider", models.ProviderGoogle)
	http.Redirect(w, r, h.config.GoogleOAuth.FrontendCallbackURL+"?"+q.Encode(), http.StatusFound)
}

// signState issues a short-lived signed state so the callback needs no
// server-side storage
func (h *GoogleAuthHandler) signState() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Audience:  jwt.ClaimStrings{"google-oauth-state"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.config.JWT.Secret))
}

func (h *GoogleAuthHandler) verifyState(state string) error {
	if state == "" {
		return errors.New("missing state")
	}
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithAudience("google-oauth-state"))
	return err
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}

// findOrCreateUser returns the account for a Google identity, creating it on
// first sign-in
func (h *GoogleAuthHandler) findOrCreateUser(ctx context.Context, info *dto.GoogleUserInfo) (*models.User, error) {
	user, err := h.users.GetUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:          uuid.NewString(),
		Email:       info.Email,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
		Provider:    models.ProviderGoogle,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent first sign-in
		if errors.Is(err, store.ErrUserExists) {
			return h.users.GetUserByEmail(ctx, info.Email)
		}
		return nil, err
	}
	h.logger.Infow("created google account", "userId", user.ID)
	return user, nil
}
