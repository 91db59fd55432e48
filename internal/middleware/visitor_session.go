package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carslab/funnel-api/config"
	"github.com/carslab/funnel-api/pkg/jwtauth"
	"github.com/carslab/funnel-api/pkg/logger"
)

// VisitorCookieName identifies the anonymous visitor across visits. The
// cookie replaces what the landing page used to keep in browser storage.
const VisitorCookieName = "carslab_visitor"

// VisitorSessionMiddleware resolves the visitor id from the session cookie,
// minting a fresh one when the cookie is missing, expired, or tampered with.
// Every funnel request downstream reads the id from the gin context.
func VisitorSessionMiddleware(tokens *jwtauth.TokenManager, cfg config.VisitorSessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(VisitorCookieName); err == nil && raw != "" {
			if claims, parseErr := tokens.ParseVisitorToken(raw); parseErr == nil {
				c.Set("visitor_id", claims.VisitorID)
				c.Next()
				return
			} else {
				logger.Debug("Visitor token rejected, reissuing",
					zap.String("client_ip", c.ClientIP()),
					zap.Error(parseErr))
			}
		}

		visitorID := uuid.NewString()
		token, err := tokens.IssueVisitorToken(visitorID)
		if err != nil {
			logger.Error("Failed to issue visitor token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		maxAge := int(tokens.GetExpirationTime().Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitorCookieName, token, maxAge, "/", cfg.CookieDomain, cfg.CookieSecure, true)
		c.Set("visitor_id", visitorID)

		c.Next()
	}
}
