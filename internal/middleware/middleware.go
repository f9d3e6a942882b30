package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joshua-takyi/jocky/internal/helpers"
	"github.com/joshua-takyi/jocky/internal/models"
)

// UserKey is where AuthMiddleware stores the caller's *helpers.Claims.
const UserKey = "user"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler turns errors recorded with c.Error into a 500 when the
// handler did not write a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		// Don't return error details in production
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// bearerToken reads the Authorization header, falling back to the
// access_token cookie set by browser logins.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	token, err := c.Cookie("access_token")
	if err != nil {
		return ""
	}
	return token
}

func AuthMiddleware(validator helpers.TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			requestID, _ := c.Get("request_id")
			logger.Info("Token rejected", "request_id", requestID, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(UserKey, claims)
		c.Set("access_token", token)
		c.Next()
	}
}

// RequireRole lets only callers with one of roles through.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, r := range roles {
			if claims.HasRole(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
	}
}

// CurrentUser returns the claims stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*helpers.Claims, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*helpers.Claims)
	return claims, ok && claims != nil
}
