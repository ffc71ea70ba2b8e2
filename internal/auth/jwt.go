package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"nikiplan/internal/config"
	"nikiplan/internal/models"
)

type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret    []byte
	expiresIn time.Duration
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{
		secret:    []byte(cfg.Secret),
		expiresIn: parseExpiry(cfg.ExpiresIn),
	}
}

// parseExpiry accepts Go durations and the shorthand "7d", "12h", "30m".
// Anything else falls back to 7 days.
func parseExpiry(s string) time.Duration {
	expiresIn := 7 * 24 * time.Hour
	if s == "" {
		return expiresIn
	}

	if duration, err := time.ParseDuration(s); err == nil {
		return duration
	}
	if n, err := strconv.Atoi(s[:len(s)-1]); err == nil {
		switch s[len(s)-1] {
		case 'd':
			expiresIn = time.Duration(n) * 24 * time.Hour
		case 'h':
			expiresIn = time.Duration(n) * time.Hour
		case 'm':
			expiresIn = time.Duration(n) * time.Minute
		}
	}
	return expiresIn
}

func (j *JWTManager) ExpiresIn() time.Duration {
	return j.expiresIn
}

func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
