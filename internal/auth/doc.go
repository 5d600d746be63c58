// Package auth protects the control API's mutating routes.
//
// Admin routes use HTTP basic auth checked against a bcrypt hash:
//
//	ADMIN_USER=admin
//	ADMIN_PASSWORD_HASH=$(mapharvest hash-password)
//
// When ADMIN_PASSWORD_HASH is empty the admin routes are open, which is
// convenient for local runs. Repeated failures from one client lock it out
// for a while.
//
// # Usage
//
//	limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
//	admin := router.Group("/api", auth.AdminMiddleware(cfg.Auth, limiter))
package auth
