package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"portfolio-backend-refactor/pkg/auth"
	"portfolio-backend-refactor/pkg/config"
	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/middleware"
	"portfolio-backend-refactor/pkg/models"
	"portfolio-backend-refactor/pkg/utils"
)

// AuthHandler serves signup, login, logout, token refresh and the current
// user endpoint. Logins establish both a server-side session cookie for
// browsers and a JWT pair for API clients.
type AuthHandler struct {
	cfg         *config.Config
	store       database.Store
	credentials *auth.CredentialStore
	jwtService  *utils.JWTService
	logger      zerolog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(cfg *config.Config, store database.Store, credentials *auth.CredentialStore, jwtService *utils.JWTService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:         cfg,
		store:       store,
		credentials: credentials,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.Email) == "" {
		utils.WriteBadRequestResponse(w, "First name and email are required")
		return
	}
	if !strings.Contains(req.Email, "@") {
		utils.WriteBadRequestResponse(w, "Invalid email address")
		return
	}
	if len(req.Password) < 8 {
		utils.WriteBadRequestResponse(w, "Password must be at least 8 characters")
		return
	}

	user, err := h.credentials.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			utils.WriteConflictResponse(w, "Email is already registered")
			return
		}
		h.logger.Error().Err(err).Msg("signup failed")
		utils.WriteInternalServerErrorResponse(w, "Failed to create account")
		return
	}

	utils.WriteCreatedResponse(w, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	user, err := h.credentials.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.WriteUnauthorizedResponse(w, "Invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		utils.WriteInternalServerErrorResponse(w, "Failed to log in")
		return
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(h.cfg.SessionTTL)
	if err := h.store.CreateSession(r.Context(), user.ID, token, expiresAt); err != nil {
		h.logger.Error().Err(err).Msg("failed to create session")
		utils.WriteInternalServerErrorResponse(w, "Failed to log in")
		return
	}

	accessToken, refreshToken, expiresIn, err := h.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate tokens")
		utils.WriteInternalServerErrorResponse(w, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteSuccessResponse(w, models.LoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// Logout handles POST /api/auth/logout. It deletes the server-side
// session and clears the cookie. Logging out without a session succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.logger.Error().Err(err).Msg("failed to delete session")
			utils.WriteInternalServerErrorResponse(w, "Failed to log out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteSuccessResponse(w, map[string]string{"message": "Logged out"})
}

// RefreshToken handles POST /api/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.RefreshToken == "" {
		utils.WriteBadRequestResponse(w, "refresh_token is required")
		return
	}

	accessToken, expiresIn, err := h.jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid or expired refresh token")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())
	utils.WriteSuccessResponse(w, user)
}
