package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	CORSOrigins    []string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cart      CartConfig
	Kafka     KafkaConfig
	Email     EmailConfig

	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string

	MaxIdleConns int
	MaxOpenConns int

	SlowQueryThreshold time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	CacheTTL     time.Duration
	SlotCacheTTL time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// AuthConfig controls sign-up behaviour
type AuthConfig struct {
	RequireEmailConfirmation bool
	ConfirmationTTL          time.Duration
	PublicBaseURL            string
	AdminEmails              []string
}

type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// CartConfig controls how long unbooked cart items are held
type CartConfig struct {
	HoldTTL       time.Duration
	SweepSchedule string
}

type KafkaConfig struct {
	Enabled           bool
	Brokers           []string
	NotificationTopic string
	ConsumerGroupID   string
	NumWorkers        int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", ""),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		CORSOrigins:    getStringSliceEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "classbook_db"),
			User:     getEnv("DB_USER", "classbook_user"),
			Password: getEnv("DB_PASSWORD", "classbook_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 50),

			SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		},

		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			CacheTTL:     getDurationEnv("REDIS_CACHE_TTL", 1*time.Hour),
			SlotCacheTTL: getDurationEnv("REDIS_SLOT_CACHE_TTL", 5*time.Minute),
		},

		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			ExpiresIn: getDurationEnvSeconds("JWT_EXPIRES_IN", 1*time.Hour),
		},

		Auth: AuthConfig{
			RequireEmailConfirmation: getBoolEnv("AUTH_REQUIRE_EMAIL_CONFIRMATION", false),
			ConfirmationTTL:          getDurationEnv("AUTH_CONFIRMATION_TTL", 24*time.Hour),
			PublicBaseURL:            getEnv("PUBLIC_BASE_URL", "http://localhost:5000"),
			AdminEmails:              getStringSliceEnv("ADMIN_EMAILS", []string{}),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			AuthRequests:    getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			AdminRequests:   getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Cart: CartConfig{
			HoldTTL:       getDurationEnv("CART_HOLD_TTL", 24*time.Hour),
			SweepSchedule: getEnv("CART_SWEEP_SCHEDULE", "@every 15m"),
		},

		Kafka: KafkaConfig{
			Enabled:           getBoolEnv("KAFKA_ENABLED", false),
			Brokers:           getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			NotificationTopic: getEnv("NOTIFICATION_TOPIC", "classbook-notifications"),
			ConsumerGroupID:   getEnv("CONSUMER_GROUP_ID", "classbook-notification-workers"),
			NumWorkers:        getIntEnv("NUM_CONSUMER_WORKERS", 2),
		},

		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@classbook.local"),
			FromName:     getEnv("SMTP_FROM_NAME", "Classbook"),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getDurationEnvSeconds reads a whole number of seconds
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv splits a comma-separated variable, dropping blanks
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath joins the prefix and the optional version
func (c *Config) GetAPIBasePath() string {
	prefix := "/" + strings.Trim(c.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	if v := strings.Trim(c.APIVersion, "/"); v != "" {
		return prefix + "/" + v
	}
	if prefix == "" {
		return "/"
	}
	return prefix
}

// IsAdminEmail reports whether email is configured as an administrator
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.Auth.AdminEmails {
		if strings.EqualFold(admin, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}
