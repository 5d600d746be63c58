package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		ArcGIS
		Harvest
		Sinks
		Tasks
		Auth
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver string // sqlite or postgres
		Path   string
		DSN    string // postgres only
	}
	ArcGIS struct {
		Portals           []string // "baseURL=suffix"; empty means the built-in portals
		RequestTimeout    time.Duration
		RequestsPerSecond float64
		UserAgent         string
	}
	Harvest struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Force    bool   // Ignore version fingerprints on scheduled runs
	}
	Sinks struct {
		DatabaseEnabled bool

		OpenSearchAddresses []string
		OpenSearchIndex     string
		OpenSearchUsername  string
		OpenSearchPassword  string

		SQSQueueURL        string
		SQSRegion          string
		SQSEndpoint        string
		SQSAccessKeyID     string
		SQSSecretAccessKey string
	}
	Tasks struct {
		Enabled           bool
		DatabasePath      string
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Auth struct {
		AdminUser         string
		AdminPasswordHash string // bcrypt; empty disables auth on admin routes
		BcryptCost        int
	}
	Log struct {
		Level  string
		Format string // text or json
	}
)

// splitList reads comma separated values, dropping blanks.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// NewConfig loads an optional .env file and reads the environment.
// Variables already set in the environment win over the file.
func NewConfig() *Config {
	_ = godotenv.Load(DefaultEnvFile)
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	v.SetDefault("arcgis_portals", "")
	v.SetDefault("arcgis_request_timeout", "30s")
	v.SetDefault("arcgis_requests_per_second", 5)
	v.SetDefault("arcgis_user_agent", DefaultUserAgent)

	v.SetDefault("harvest_enabled", false)
	v.SetDefault("harvest_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("harvest_force", false)

	v.SetDefault("sink_database_enabled", true)
	v.SetDefault("opensearch_addresses", "")
	v.SetDefault("opensearch_index", "maps")
	v.SetDefault("opensearch_username", "")
	v.SetDefault("opensearch_password", "")
	v.SetDefault("sqs_queue_url", "")
	v.SetDefault("sqs_region", "us-east-1")
	v.SetDefault("sqs_endpoint", "")
	v.SetDefault("sqs_access_key_id", "")
	v.SetDefault("sqs_secret_access_key", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 1)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "2h") // Full portal harvests are slow
	v.SetDefault("task_release_after", "3h")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "168h")

	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("auth_bcrypt_cost", 12)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	return v
}

// FromViper builds the configuration from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		ArcGIS: ArcGIS{
			Portals:           splitList(v.GetString("ARCGIS_PORTALS")),
			RequestTimeout:    v.GetDuration("ARCGIS_REQUEST_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("ARCGIS_REQUESTS_PER_SECOND"),
			UserAgent:         v.GetString("ARCGIS_USER_AGENT"),
		},
		Harvest: Harvest{
			Enabled:  v.GetBool("HARVEST_ENABLED"),
			Schedule: v.GetString("HARVEST_SCHEDULE"),
			Force:    v.GetBool("HARVEST_FORCE"),
		},
		Sinks: Sinks{
			DatabaseEnabled:     v.GetBool("SINK_DATABASE_ENABLED"),
			OpenSearchAddresses: splitList(v.GetString("OPENSEARCH_ADDRESSES")),
			OpenSearchIndex:     v.GetString("OPENSEARCH_INDEX"),
			OpenSearchUsername:  v.GetString("OPENSEARCH_USERNAME"),
			OpenSearchPassword:  v.GetString("OPENSEARCH_PASSWORD"),
			SQSQueueURL:         v.GetString("SQS_QUEUE_URL"),
			SQSRegion:           v.GetString("SQS_REGION"),
			SQSEndpoint:         v.GetString("SQS_ENDPOINT"),
			SQSAccessKeyID:      v.GetString("SQS_ACCESS_KEY_ID"),
			SQSSecretAccessKey:  v.GetString("SQS_SECRET_ACCESS_KEY"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DatabasePath:      v.GetString("TASKS_DATABASE_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			AdminUser:         v.GetString("ADMIN_USER"),
			AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
