package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes. Privileged (admin) sessions are short-lived; ordinary
// sessions last a week.
const (
	AdminTokenTTL = 24 * time.Hour
	UserTokenTTL  = 7 * 24 * time.Hour
)

// JWTClaims custom claims for session tokens
type JWTClaims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Privileged bool   `json:"privileged"`
	jwt.RegisteredClaims
}

// JWTUtil provides session token generation and validation
type JWTUtil struct {
	secretKey string
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string) *JWTUtil {
	return &JWTUtil{secretKey: secretKey}
}

// GenerateToken mints a signed session token. Privileged tokens expire after
// AdminTokenTTL, ordinary ones after UserTokenTTL.
func (ju *JWTUtil) GenerateToken(userID, email, role string, privileged bool) (string, error) {
	ttl := UserTokenTTL
	if privileged {
		ttl = AdminTokenTTL
	}

	now := time.Now()
	claims := &JWTClaims{
		UserID:     userID,
		Email:      email,
		Role:       role,
		Privileged: privileged,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks signature and expiry and returns the claims. A
// malformed, expired, or mis-signed token is never partially trusted.
func (ju *JWTUtil) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
