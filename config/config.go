package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yt-brief/errors"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir    string `json:"log_dir"`
	TempDir   string `json:"temp_dir"`
	StaticDir string `json:"static_dir"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	Database  DatabaseConfig  `json:"database"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
	Captions  CaptionsConfig  `json:"captions"`
	Media     MediaConfig     `json:"media"`
	OpenAI    OpenAIConfig    `json:"openai"`
	Storage   StorageConfig   `json:"storage"`

	Version string `json:"version"`
}

type DatabaseConfig struct {
	Path           string `json:"path"`
	MaxConnections int    `json:"max_connections"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

type CORSConfig struct {
	Enabled        bool     `json:"enabled"`
	AllowedOrigins []string `json:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers"`
	MaxAge         int      `json:"max_age"`
}

type CaptionsConfig struct {
	BaseURL  string        `json:"base_url"`
	Language string        `json:"language"`
	Timeout  time.Duration `json:"timeout"`
}

type MediaConfig struct {
	BinPath         string        `json:"bin_path"`
	DownloadTimeout time.Duration `json:"download_timeout"`
}

// OpenAIConfig covers both hosted collaborators: the speech-to-text endpoint
// and the chat-completions summarizer.
type OpenAIConfig struct {
	APIKey          string        `json:"-"`
	BaseURL         string        `json:"base_url"`
	SummaryModel    string        `json:"summary_model"`
	TranscribeModel string        `json:"transcribe_model"`
	Temperature     float64       `json:"temperature"`
	RequestTimeout  time.Duration `json:"request_timeout"`
}

type StorageConfig struct {
	Enabled   bool   `json:"enabled"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
}

// Load reads configuration from environment variables. It fails fast when the
// summarizer credential is absent so the process never accepts a request it
// cannot complete.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		LogDir:    getEnv("LOG_DIR", "./logs"),
		TempDir:   getEnv("TEMP_DIR", filepath.Join(os.TempDir(), "yt-brief")),
		StaticDir: getEnv("STATIC_DIR", "./static"),

		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		Database: DatabaseConfig{
			Path:           getEnv("DB_PATH", "./data/videos.db"),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 10),
		},

		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},

		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			MaxAge:         getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		Captions: CaptionsConfig{
			BaseURL:  getEnv("CAPTIONS_BASE_URL", "https://www.youtube.com"),
			Language: getEnv("CAPTIONS_LANGUAGE", "en"),
			Timeout:  getEnvAsDuration("CAPTIONS_TIMEOUT", 30*time.Second),
		},

		Media: MediaConfig{
			BinPath:         getEnv("YTDLP_PATH", "yt-dlp"),
			DownloadTimeout: getEnvAsDuration("AUDIO_DOWNLOAD_TIMEOUT", 5*time.Minute),
		},

		OpenAI: OpenAIConfig{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			SummaryModel:    getEnv("SUMMARY_MODEL", "gpt-4o-mini"),
			TranscribeModel: getEnv("TRANSCRIBE_MODEL", "whisper-1"),
			Temperature:     getEnvAsFloat("SUMMARY_TEMPERATURE", 0.6),
			RequestTimeout:  getEnvAsDuration("OPENAI_REQUEST_TIMEOUT", 5*time.Minute),
		},

		Storage: StorageConfig{
			Enabled:   getEnvAsBool("STORAGE_ENABLED", false),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			Bucket:    getEnv("STORAGE_BUCKET", ""),
		},

		Version: getEnv("VERSION", "1.0.0"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	const op = "Config.Validate"

	if c.OpenAI.APIKey == "" {
		return errors.MissingCredential(op,
			"OPENAI_API_KEY is required; set it before starting the server")
	}

	if err := validatePaths(c); err != nil {
		return err
	}
	if err := validateTimeouts(c); err != nil {
		return err
	}

	if c.Storage.Enabled {
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" || c.Storage.Bucket == "" {
			return fmt.Errorf("storage enabled but access key, secret key, or bucket missing")
		}
	}

	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{c.TempDir, "temp directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Media.DownloadTimeout <= 0 {
		return fmt.Errorf("audio download timeout must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
