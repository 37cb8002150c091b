package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	TokenKey  contextKey = "session_token"
)

var (
	jwtSecretOnce    sync.Once
	jwtSecretRuntime []byte
	jwtSecretErr     error
)

// jwtSecretFromEnv resolves the HS256 secret shared with the upstream auth
// backend. Without JWT_SECRET set, an ephemeral secret is generated so the
// service still boots, but upstream-issued tokens will not validate.
func jwtSecretFromEnv() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
		if secret != "" {
			jwtSecretRuntime = []byte(secret)
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			jwtSecretErr = fmt.Errorf("failed to generate JWT fallback secret: %w", err)
			return
		}

		jwtSecretRuntime = []byte(base64.RawURLEncoding.EncodeToString(buf))
		log.Print("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if jwtSecretErr != nil {
		return nil, jwtSecretErr
	}
	return jwtSecretRuntime, nil
}

// Middleware validates the bearer token locally before any call is relayed
// upstream, and stashes the user id and raw token in the request context.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
		}

		secretKey, err := jwtSecretFromEnv()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Server auth configuration error")
		}

		tokenString := parts[1]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secretKey, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
		}

		// Upstream ids are opaque strings (Mongo-style), not UUIDs.
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token subject")
		}

		c.Set(string(UserIDKey), sub)
		c.Set(string(TokenKey), tokenString)
		return next(c)
	}
}

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(string(UserIDKey)).(string)
	return id, ok && id != ""
}

// TokenFromContext returns the validated bearer token for upstream relay.
func TokenFromContext(c echo.Context) (string, bool) {
	token, ok := c.Get(string(TokenKey)).(string)
	return token, ok && token != ""
}
