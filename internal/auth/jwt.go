package auth

import (
	"fmt"
	"time"

	"phoneclubs-auctions/internal/models"
	"phoneclubs-auctions/utils"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by marketplace tokens
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// User returns the participant the token identifies
func (c *Claims) User() models.User {
	return models.User{UserID: c.UserID, Username: c.Username}
}

// TokenExpiry is the default token lifetime
const TokenExpiry = 7 * 24 * time.Hour

// GenerateToken signs a token for userID with a unique JTI
func GenerateToken(secret, userID, username string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("auth: empty signing secret")
	}
	if userID == "" {
		return "", fmt.Errorf("auth: empty user id")
	}

	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.GenerateID(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a token, returning its claims
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("auth: invalid token")
	}

	return claims, nil
}

// IdentityFromToken reads the user out of a token without checking its signature.
// Clients use it to know who they are; the backend still validates every request.
func IdentityFromToken(tokenStr string) (models.User, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return models.User{}, fmt.Errorf("auth: reading token: %w", err)
	}
	if claims.UserID == "" {
		return models.User{}, fmt.Errorf("auth: token carries no user id")
	}
	return claims.User(), nil
}
