package auth

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vishesh711/Auth-SDK/pkg/iam"
	"github.com/vishesh711/Auth-SDK/pkg/kernel"
	"github.com/vishesh711/Auth-SDK/pkg/limitx"
	"github.com/vishesh711/Auth-SDK/pkg/logx"
)

// TokenMiddleware authenticates requests carrying a bearer JWT.
type TokenMiddleware struct {
	tokenService TokenService
}

func NewTokenMiddleware(tokenService TokenService) *TokenMiddleware {
	return &TokenMiddleware{tokenService: tokenService}
}

// Authenticate validates a bearer access token and injects the
// AuthContext into fiber locals. Refresh tokens are rejected here;
// they are only accepted by the refresh endpoint itself.
func (am *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": iam.ErrUnauthorized().ToHTTPResponse(),
			})
		}

		claims, err := am.tokenService.VerifyToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": iam.ErrInvalidToken().ToHTTPResponse(),
			})
		}
		if !claims.IsAccess() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrWrongTokenType().ToHTTPResponse(),
			})
		}

		authContext := &kernel.AuthContext{
			AppID: claims.AppID,
			Email: claims.Email,
		}
		if claims.IsPortal() {
			devID := claims.DeveloperID()
			authContext.DeveloperID = &devID
		} else {
			userID := claims.UserID
			authContext.UserID = &userID
		}

		c.Locals(string(kernel.AuthContextKey), authContext)
		return c.Next()
	}
}

// RequirePortal restricts the route to developer portal tokens.
// Must run after Authenticate.
func (am *TokenMiddleware) RequirePortal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authContext, ok := c.Locals(string(kernel.AuthContextKey)).(*kernel.AuthContext)
		if !ok || authContext == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": iam.ErrUnauthorized().ToHTTPResponse(),
			})
		}
		if !authContext.IsPortal() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": iam.ErrAccessDenied().ToHTTPResponse(),
			})
		}
		return c.Next()
	}
}

// APIKeyMiddleware authenticates application backends via the
// X-API-Key header and rate-limits per application.
type APIKeyMiddleware struct {
	validator APIKeyValidator
	limiter   *limitx.RateLimiter
}

func NewAPIKeyMiddleware(validator APIKeyValidator, limiter *limitx.RateLimiter) *APIKeyMiddleware {
	return &APIKeyMiddleware{validator: validator, limiter: limiter}
}

// Authenticate validates the API key and applies the per-application
// rate limit. Limiter store failures fail open: a degraded Redis must
// not lock every tenant out.
func (am *APIKeyMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawKey := c.Get("X-API-Key")
		if rawKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrMissingAPIKey().ToHTTPResponse(),
			})
		}

		appID, err := am.validator.ValidateKey(c.UserContext(), rawKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": iam.ErrInvalidToken().ToHTTPResponse(),
			})
		}

		if am.limiter != nil {
			allowed, remaining, err := am.limiter.Check(c.UserContext(), "app:"+appID.String())
			if err != nil {
				logx.WithError(err).Warn("Rate limit check failed, allowing request")
			} else {
				c.Set("X-RateLimit-Limit", strconv.Itoa(am.limiter.Limit()))
				c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
				if !allowed {
					return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
						"error": limitx.ErrRateLimited().ToHTTPResponse(),
					})
				}
			}
		}

		c.Locals(string(kernel.AuthContextKey), &kernel.AuthContext{
			AppID:    appID,
			IsAPIKey: true,
		})
		return c.Next()
	}
}

// AuthFromLocals extracts the AuthContext set by the middlewares.
func AuthFromLocals(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authContext, ok := c.Locals(string(kernel.AuthContextKey)).(*kernel.AuthContext)
	if !ok || authContext == nil || !authContext.IsValid() {
		return nil, false
	}
	return authContext, true
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
