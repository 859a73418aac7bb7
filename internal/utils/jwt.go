// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	issuer           = "food-marketplace"
	sessionAudience  = "session"
	confirmAudience  = "confirm"
	defaultJWTSecret = "your-secret-key-change-in-production"
)

var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrConfirmationScope = errors.New("confirmation token does not match action")
)

// JWTClaims identify a logged-in seller, buyer or admin.
type JWTClaims struct {
	ActorID  uint   `json:"actor_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ConfirmClaims bind a confirmation token to one destructive action on one
// target. The token ID is a nonce.
type ConfirmClaims struct {
	Action string `json:"action"`
	Target string `json:"target"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte(defaultJWTSecret)

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func registered(audience, subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		ID:        uuid.NewString(),
	}
}

func sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func GenerateJWT(actorID uint, username, name, role string, ttl time.Duration) (string, error) {
	claims := JWTClaims{
		ActorID:          actorID,
		Username:         username,
		Name:             name,
		Role:             role,
		RegisteredClaims: registered(sessionAudience, role, ttl),
	}
	return sign(claims)
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	if err := parse(tokenString, claims); err != nil {
		return nil, err
	}
	if !claims.VerifyAudience(sessionAudience, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func GenerateConfirmToken(action, target string, ttl time.Duration) (string, *ConfirmClaims, error) {
	claims := &ConfirmClaims{
		Action:           action,
		Target:           target,
		RegisteredClaims: registered(confirmAudience, action+":"+target, ttl),
	}
	token, err := sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// ValidateConfirmToken checks signature and expiry and that the token was
// issued for exactly this action and target.
func ValidateConfirmToken(tokenString, action, target string) (*ConfirmClaims, error) {
	claims := &ConfirmClaims{}
	if err := parse(tokenString, claims); err != nil {
		return nil, err
	}
	if !claims.VerifyAudience(confirmAudience, true) {
		return nil, ErrInvalidToken
	}
	if claims.Action != action || claims.Target != target {
		return nil, ErrConfirmationScope
	}
	return claims, nil
}
