package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies the stateless HS256 tokens that carry
// the username of an authenticated user. The signing secret and token
// lifetime are injected at construction so nothing reads the environment
// after startup.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Generate signs a token for the given username with issued-at and expiry
// claims.
func (m *TokenManager) Generate(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates the signature and structure of a token and returns the
// embedded username. Malformed, forged and expired tokens all come back as
// ErrInvalidToken; callers treat them the same.
func (m *TokenManager) Parse(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", ErrInvalidToken
	}

	return username, nil
}

// Middleware guards protected routes. Missing and invalid bearer tokens are
// both rejected with 401; the client is not told which case it hit.
func (m *TokenManager) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: m.secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing or invalid token"})
		},
	})
}

// UsernameFromCtx extracts the username claim from the verified JWT stored
// in `c.Locals("user")` by the middleware.
func UsernameFromCtx(c *fiber.Ctx) (string, error) {
	u := c.Locals("user")
	if u == nil {
		return "", fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", fiber.ErrUnauthorized
	}
	return username, nil
}
