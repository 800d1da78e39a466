package middleware

import (
	"context"
	"strconv"
	"strings"

	"quill/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// usedJTI reports whether a token identifier has already been consumed.
// Wired to the used-token store at startup; nil disables the replay guard
// (unit tests that only care about parsing).
var usedJTI func(ctx context.Context, jti string) (bool, error)

// InitMiddleware initializes authentication middleware with the given config
// and the replay-guard lookup.
func InitMiddleware(c *config.Config, jtiLookup func(ctx context.Context, jti string) (bool, error)) {
	cfg = c
	usedJTI = jtiLookup
}

// OptionalAuth resolves identity when an Authorization header is present
// but lets anonymous requests through. A header that is present and invalid
// is still rejected, never treated as anonymous.
func OptionalAuth(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	return AuthRequired(c)
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	tokenString := parts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token claims",
		})
	}

	// Extract user ID from "sub" claim (subject claim per RFC 7519)
	subClaim, ok := claims["sub"]
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token structure - missing subject",
		})
	}

	subStr, ok := subClaim.(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token subject type",
		})
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user ID in token",
		})
	}

	// Reject tokens whose jti has been consumed (logout / rotation).
	if jtiClaim, hasJTI := claims["jti"]; hasJTI && usedJTI != nil {
		jtiStr, isStr := jtiClaim.(string)
		if !isStr {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token identifier type",
			})
		}
		used, lookupErr := usedJTI(c.UserContext(), jtiStr)
		if lookupErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Token verification unavailable",
			})
		}
		if used {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token has been revoked",
			})
		}
		c.Locals("tokenJTI", jtiStr)
	}

	// Store identity in context for downstream handlers.
	c.Locals("userID", uint(userIDVal))

	if pidClaim, hasPID := claims["pid"]; hasPID {
		if pidStr, isStr := pidClaim.(string); isStr {
			if pidVal, pidErr := strconv.ParseUint(pidStr, 10, 32); pidErr == nil {
				c.Locals("profileID", uint(pidVal))
			}
		}
	}

	return c.Next()
}
