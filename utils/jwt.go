package utils

import (
	"errors"
	"sync"
	"time"

	"healthguide/config"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

// clientSecret loads CLIENT_TOKEN_SECRET. Without one, a per-process secret is
// generated, so tokens do not survive a restart.
func clientSecret() []byte {
	secretOnce.Do(func() {
		secret := config.AppConfig.ClientTokenSecret
		if secret == "" {
			secret = uuid.NewString()
		}
		secretKey = []byte(secret)
	})
	return secretKey
}

// GenerateClientToken creates a signed JWT whose subject is the browser-session id.
func GenerateClientToken(clientID string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": clientID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(clientSecret())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return clientSecret(), nil
	})
}

// ExtractIDFromToken extracts the browser-session id (subject) from a valid token.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
