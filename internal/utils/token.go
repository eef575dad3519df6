package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/iceweasel13/fishclicker-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Session token failures, surfaced to handlers so each maps to a distinct
// response instead of a generic 401.
var (
	ErrTokenMissing = errors.New("authorization header is missing or malformed")
	ErrTokenExpired = errors.New("session has expired, please log in again")
	ErrTokenInvalid = errors.New("invalid token")
	ErrSecretNotSet = errors.New("server misconfiguration: JWT secret is not set")
)

// TokenIdentity is the payload carried by a session token.
type TokenIdentity struct {
	UserID        string
	WalletAddress string
	ExpiresAt     time.Time
}

const tokenLifetime = 24 * time.Hour

// GenerateToken signs a session token for the given user.
func GenerateToken(userID, walletAddress string) (string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.JWTSecret == "" {
		return "", ErrSecretNotSet
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     userID,
		"address": walletAddress,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ValidateToken parses and verifies a session token, returning the identity
// it carries or one of the typed token errors.
func ValidateToken(tokenString string) (*TokenIdentity, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, ErrSecretNotSet
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	address, _ := claims["address"].(string)
	if sub == "" {
		return nil, ErrTokenInvalid
	}

	identity := &TokenIdentity{UserID: sub, WalletAddress: address}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}

	return identity, nil
}

// ExtractToken pulls the bearer token out of the Authorization header.
func ExtractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrTokenMissing
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrTokenMissing
	}

	return strings.TrimPrefix(authHeader, bearerPrefix), nil
}
