package http

import (
	"github.com/mrlokans/mapharvest/internal/auth"
	"github.com/mrlokans/mapharvest/internal/config"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database  Pinger
	Registry  ETLRegistry
	States    StateReader
	Documents DocumentReader

	// Task queue (optional); harvest triggers answer 503 without it
	Tasks TaskQueue

	Auth        config.Auth
	RateLimiter *auth.RateLimiter

	Version string
}
