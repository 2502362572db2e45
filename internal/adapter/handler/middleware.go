package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/tour_booking/internal/core/domain"
	"github.com/srgjo27/tour_booking/internal/core/ports"
)

// PrincipalContextKey is the gin context key holding the *domain.Principal.
const PrincipalContextKey = "principal"

// Authenticate turns the bearer token into a principal for downstream handlers.
func Authenticate(tokens ports.TokenService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "MISSING_AUTH_HEADER", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		principal, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Authentication failed")
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid access token")
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// RequireRole rejects principals whose role is not in roles.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			abortUnauthorized(c, "MISSING_PRINCIPAL", "Authentication is required")
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
	}
}

// PrincipalFrom returns the authenticated principal or nil.
func PrincipalFrom(c *gin.Context) *domain.Principal {
	value, ok := c.Get(PrincipalContextKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*domain.Principal)
	return principal
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
		"code":    code,
	})
}

// RequestLogger logs one line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}).Info("Request handled")
	}
}
