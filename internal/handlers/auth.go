package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nikiplan/internal/auth"
	"nikiplan/internal/config"
	"nikiplan/internal/models"
)

type userAccounts interface {
	Create(ctx context.Context, u models.User) error
	GetByLogin(ctx context.Context, emailOrUsername string) (models.User, error)
}

type AuthHandler struct {
	users      userAccounts
	jwtManager *auth.JWTManager
	validator  *validator.Validate
	config     *config.Config
	log        *zap.Logger
}

func NewAuthHandler(users userAccounts, jwtManager *auth.JWTManager, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
		validator:  validator.New(),
		config:     cfg,
		log:        log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	role := models.RoleUser
	if h.config.IsAdminEmail(req.Email) {
		role = models.RoleAdmin
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashedPassword,
		Role:         role,
		NotificationPreferences: models.NotificationPreferences{
			EventReminders: true,
			EventUpdates:   true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.issueSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByLogin(c.Request.Context(), req.EmailOrUsername)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.log.Error("Login lookup failed", zap.Error(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.PasswordHash == nil || !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", h.secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// issueSession returns the token in the body and as an HTTP-only cookie.
func (h *AuthHandler) issueSession(c *gin.Context, status int, user models.User) {
	token, err := h.jwtManager.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, token, int(h.jwtManager.ExpiresIn().Seconds()), "/", "", h.secureCookies(), true)

	user.PasswordHash = nil
	c.JSON(status, models.LoginResponse{
		Token: token,
		User:  user,
	})
}

func (h *AuthHandler) secureCookies() bool {
	return h.config.Environment == "production"
}
