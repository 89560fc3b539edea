package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Archive ArchiveConfig
	CORS    CORSConfig
	Logger  LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// LLMConfig configures the OpenAI-compatible completion service.
// An empty APIKey puts generate and port into demo mode.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type ArchiveConfig struct {
	MaxBytes      int64
	MaxEntryBytes int64
	MaxTotalBytes int64
}

// MaxRequestBytes bounds a request body: the base64 form of the largest
// accepted archive, line breaks in it, and room for the other JSON fields.
// 0 means unlimited.
func (a ArchiveConfig) MaxRequestBytes() int64 {
	if a.MaxBytes <= 0 {
		return 0
	}
	return a.MaxBytes/3*4 + 4 + a.MaxBytes/32 + requestOverheadBytes
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level  string
	Format string
}

const requestOverheadBytes = 64 << 10

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("LLM_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("ARCHIVE_MAX_BYTES", 20<<20)
	v.SetDefault("ARCHIVE_MAX_ENTRY_BYTES", 2<<20)
	v.SetDefault("ARCHIVE_MAX_TOTAL_BYTES", 64<<20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("LLM_TIMEOUT"))
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		LLM: LLMConfig{
			APIKey:  strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
			BaseURL: v.GetString("LLM_BASE_URL"),
			Model:   v.GetString("LLM_MODEL"),
			Timeout: timeout,
		},
		Archive: ArchiveConfig{
			MaxBytes:      v.GetInt64("ARCHIVE_MAX_BYTES"),
			MaxEntryBytes: v.GetInt64("ARCHIVE_MAX_ENTRY_BYTES"),
			MaxTotalBytes: v.GetInt64("ARCHIVE_MAX_TOTAL_BYTES"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
