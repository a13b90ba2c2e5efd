package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN builds the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Config is the full jadwal-backend configuration, loaded from environment
// variables with sensible defaults for local development.
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}

	// External time-clock system the attendance punches come from.
	TimeClock struct {
		BaseURL string
		Timeout time.Duration
	}

	// Image archival capability (store bytes under a path, get a durable URL).
	ImageCDN struct {
		UploadURL        string
		APIKey           string
		ArchivedHost     string // host marker recognizing already-archived URLs
		FolderPrefix     string
		MaxDownloadBytes int64
		DownloadTimeout  time.Duration
		UploadTimeout    time.Duration
	}

	// Scheduled attendance sync.
	Sync struct {
		Enabled      bool
		CronSpecs    []string // one or more cron expressions
		Timezone     string
		BaseURL      string // base URL for self-invocation
		Username     string
		Password     string
		BatchSize    int
		BatchDelay   time.Duration
		PollInterval time.Duration
		WaitBudget   time.Duration
	}

	// SMTP relay for run-failure notifications; disabled when Host is empty.
	SMTP struct {
		Host string
		Port int
		User string
		Pass string
		From string
		To   string
	}
}

// Load reads configuration from environment variables.
func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "jadwal")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.TimeClock.BaseURL = getEnv("TIMECLOCK_BASE_URL", "http://localhost:9000")
	cfg.TimeClock.Timeout = parseDuration(getEnv("TIMECLOCK_TIMEOUT", "15s"), 15*time.Second)

	cfg.ImageCDN.UploadURL = getEnv("IMAGE_CDN_UPLOAD_URL", "")
	cfg.ImageCDN.APIKey = getEnv("IMAGE_CDN_API_KEY", "")
	cfg.ImageCDN.ArchivedHost = getEnv("IMAGE_CDN_ARCHIVED_HOST", "cdn.jadwal.id")
	cfg.ImageCDN.FolderPrefix = getEnv("IMAGE_CDN_FOLDER_PREFIX", "attendance")
	cfg.ImageCDN.MaxDownloadBytes = int64(parseInt(getEnv("IMAGE_MAX_DOWNLOAD_BYTES", "8388608"), 8<<20))
	cfg.ImageCDN.DownloadTimeout = parseDuration(getEnv("IMAGE_DOWNLOAD_TIMEOUT", "20s"), 20*time.Second)
	cfg.ImageCDN.UploadTimeout = parseDuration(getEnv("IMAGE_UPLOAD_TIMEOUT", "30s"), 30*time.Second)

	cfg.Sync.Enabled = getEnv("SYNC_ENABLED", "false") == "true"
	cfg.Sync.CronSpecs = splitList(getEnv("SYNC_CRON", "0 19 * * *"))
	cfg.Sync.Timezone = getEnv("SYNC_TIMEZONE", "Asia/Jakarta")
	cfg.Sync.BaseURL = getEnv("SYNC_BASE_URL", "http://localhost:8080")
	cfg.Sync.Username = getEnv("SYNC_USERNAME", "")
	cfg.Sync.Password = getEnv("SYNC_PASSWORD", "")
	cfg.Sync.BatchSize = parseInt(getEnv("SYNC_BATCH_SIZE", "4"), 4)
	cfg.Sync.BatchDelay = parseDuration(getEnv("SYNC_BATCH_DELAY", "1s"), time.Second)
	cfg.Sync.PollInterval = parseDuration(getEnv("SYNC_POLL_INTERVAL", "5s"), 5*time.Second)
	cfg.Sync.WaitBudget = parseDuration(getEnv("SYNC_WAIT_BUDGET", "10m"), 10*time.Minute)

	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = parseInt(getEnv("SMTP_PORT", "587"), 587)
	cfg.SMTP.User = getEnv("SMTP_USER", "")
	cfg.SMTP.Pass = getEnv("SMTP_PASS", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "")
	cfg.SMTP.To = getEnv("SMTP_TO", "")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return v
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return v
}

// splitList splits a comma-separated env value into trimmed items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
