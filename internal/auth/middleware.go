package auth

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mapharvest/internal/config"
)

// ContextKeyAdmin is set to the authenticated admin user name.
const ContextKeyAdmin = "auth_admin"

const realm = `Basic realm="mapharvest"`

// AdminMiddleware requires basic auth credentials matching the configured
// admin user and bcrypt hash. With no hash configured every request passes.
func AdminMiddleware(cfg config.Auth, limiter *RateLimiter) gin.HandlerFunc {
	if cfg.AdminPasswordHash == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		client := c.ClientIP()
		if limiter != nil {
			if allowed, retryAfter := limiter.Allow(client); !allowed {
				c.Header("Retry-After", retryAfter.String())
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "too many failed attempts",
					"retry_after": retryAfter.String(),
				})
				return
			}
		}

		user, password, ok := c.Request.BasicAuth()
		if !ok || user != cfg.AdminUser || CheckPassword(password, cfg.AdminPasswordHash) != nil {
			if limiter != nil && ok {
				if locked, _ := limiter.RecordFailure(client); locked {
					slog.Warn("Auth: client locked out", "client", client)
				}
			}
			c.Header("WWW-Authenticate", realm)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if limiter != nil {
			limiter.RecordSuccess(client)
		}
		c.Set(ContextKeyAdmin, user)
		c.Next()
	}
}
