package server

import (
	"net/http"
	"strings"
	"time"

	"phoneclubs-auctions/internal/auth"
	"phoneclubs-auctions/internal/biddingerrors"
	"phoneclubs-auctions/services/bidding/helpers"
	"phoneclubs-auctions/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if len(c.Errors) > 0 {
		fields["errors"] = c.Errors.String()
	}

	if c.Writer.Status() >= http.StatusInternalServerError {
		utils.Error("HTTP Request", fields)
		return
	}
	utils.Info("HTTP Request", fields)
}

// AuthMiddleware requires a valid bearer token and stores its user on the context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(tokenStr) == "" {
			utils.JSONError(c, http.StatusUnauthorized, biddingerrors.ErrUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(secret, strings.TrimSpace(tokenStr))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, err, "Unauthorized")
			utils.Warn("AuthMiddleware: rejected token", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Abort()
			return
		}

		helpers.SetUser(c, claims.User())
		c.Next()
	}
}
