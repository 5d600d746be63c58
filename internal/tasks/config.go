package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxRetries is the number of attempts for a failed harvest. Default: 1
	MaxRetries int

	// RetryDelay is the backoff between attempts. Default: 1m
	RetryDelay time.Duration

	// TaskTimeout bounds a single harvest task. Default: 2h
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 3h
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long to keep completed tasks. Default: 168h
	RetentionDuration time.Duration
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        1,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       2 * time.Hour,
		ReleaseAfter:      3 * time.Hour,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 7 * 24 * time.Hour,
	}
}

// queueConfig holds the per-queue settings applied to task configs.
// Task Config methods have value receivers and no access to the client,
// so the settings are installed once by Configure.
var queueConfig = DefaultConfig()

// Configure sets the attempts, timeouts and retention used by the harvest queues.
// Call it before registering queues.
func Configure(cfg Config) {
	def := DefaultConfig()
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = def.TaskTimeout
	}
	if cfg.RetentionDuration <= 0 {
		cfg.RetentionDuration = def.RetentionDuration
	}
	queueConfig = cfg
}
