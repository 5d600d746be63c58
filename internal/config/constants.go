package config

// Default locations
const (
	// DefaultDatabasePath is the default path for the harvest database
	DefaultDatabasePath = "./mapharvest.db"

	// DefaultTasksDatabasePath is the default path for the task queue database
	DefaultTasksDatabasePath = "./mapharvest-tasks.db"

	// DefaultEnvFile is loaded before reading the environment, when present
	DefaultEnvFile = ".env"

	DefaultUserAgent = "mapharvest/1.0"
)
