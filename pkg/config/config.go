package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Google    GoogleOAuthConfig
	Drive     GoogleDriveConfig
	RateLimit RateLimitConfig
	Triage    TriageConfig
}

type AdminConfig struct {
	Token string // Separate admin token for log access (falls back to JWT secret if not set)
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	CORSOrigins string
	FrontendURL string // OAuth callback redirects here
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogSQL   bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	OwnerTokenTTL   time.Duration
	GalleryTokenTTL time.Duration // client tokens issued for an access code
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleDriveConfig reads folders shared with "anyone with the link".
// Endpoint overrides the API base URL and is normally empty.
type GoogleDriveConfig struct {
	APIKey   string
	Endpoint string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type TriageConfig struct {
	MaxBatchSize          int           // ids per batched write
	StatsCacheTTL         time.Duration // gallery stats in Redis
	ActivityRetentionDays int
	SimilarThreshold      float64 // minimum cosine similarity for near-duplicates
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Photo Triage"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "photo_triage"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			LogSQL:   getEnvBool("DB_LOG_SQL", false),

			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "your-secret-key"),
			OwnerTokenTTL:   getEnvDuration("JWT_OWNER_TTL", 7*24*time.Hour),
			GalleryTokenTTL: getEnvDuration("JWT_GALLERY_TTL", 30*24*time.Hour),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		Google: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
		},
		Drive: GoogleDriveConfig{
			APIKey:   getEnv("GOOGLE_DRIVE_API_KEY", ""),
			Endpoint: getEnv("GOOGLE_DRIVE_ENDPOINT", ""),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvInt("RATE_LIMIT_MAX", 120),
			Window: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Triage: TriageConfig{
			MaxBatchSize:          getEnvInt("TRIAGE_MAX_BATCH_SIZE", 500),
			StatsCacheTTL:         getEnvDuration("TRIAGE_STATS_CACHE_TTL", 5*time.Minute),
			ActivityRetentionDays: getEnvInt("TRIAGE_ACTIVITY_RETENTION_DAYS", 180),
			SimilarThreshold:      getEnvFloat("TRIAGE_SIMILAR_THRESHOLD", 0.92),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "your-secret-key" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Triage.MaxBatchSize <= 0 {
		return fmt.Errorf("TRIAGE_MAX_BATCH_SIZE must be positive, got %d", c.Triage.MaxBatchSize)
	}
	if c.Triage.SimilarThreshold < 0 || c.Triage.SimilarThreshold > 1 {
		return fmt.Errorf("TRIAGE_SIMILAR_THRESHOLD must be within [0, 1], got %v", c.Triage.SimilarThreshold)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
