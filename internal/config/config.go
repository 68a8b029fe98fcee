package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr string

	ModelBackend      string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	ClaudeAPIKey      string
	ClaudeModel       string
	OllamaHost        string
	OllamaModel       string
	AppReferer        string
	AppTitle          string
	UpstreamTimeout   time.Duration

	UseDemo    bool
	DemoDelay  time.Duration
	DemoJitter time.Duration

	CatalogPath string
	DBPath      string

	LabelBackend   string
	LabelLocalPath string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioRegion    string
	MinioUseSSL    bool

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string
	LogFile   string
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		ModelBackend:      getChoice("MODEL_BACKEND", "openrouter", "claude", "ollama"),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "google/gemini-2.0-flash-001"),
		ClaudeAPIKey:      getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:       getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llama3.2-vision"),
		AppReferer:        getEnv("APP_REFERER", "http://localhost:3000"),
		AppTitle:          getEnv("APP_TITLE", "Food IQ"),
		UpstreamTimeout:   getDuration("UPSTREAM_TIMEOUT", 30*time.Second),

		UseDemo:    os.Getenv("USE_DEMO") == "true",
		DemoDelay:  getDuration("DEMO_DELAY", 0),
		DemoJitter: getDuration("DEMO_JITTER", 0),

		CatalogPath: getEnv("CATALOG_PATH", ""),
		DBPath:      getEnv("DB_PATH", ""),

		LabelBackend:   getChoice("LABEL_BACKEND", "none", "local", "minio"),
		LabelLocalPath: getEnv("LABEL_LOCAL_PATH", "/data/labels"),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "foodiq-labels"),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",

		CORSOrigins:    getList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}
}

// ModelConfigured reports whether the selected model backend has what it
// needs to be called. Hosted backends need an API key; Ollama needs a host.
func (c *Config) ModelConfigured() bool {
	switch c.ModelBackend {
	case "claude":
		return c.ClaudeAPIKey != ""
	case "ollama":
		return c.OllamaHost != ""
	default:
		return c.OpenRouterAPIKey != ""
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// The typed getters below fall back to defaultVal when the value is unset or
// does not parse.

// getChoice accepts defaultVal or one of others, case-insensitively.
func getChoice(key, defaultVal string, others ...string) string {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	for _, o := range others {
		if val == o {
			return o
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func getFloat(key string, defaultVal float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f < 0 {
		return defaultVal
	}
	return f
}

func getInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

func getList(key string, defaultVal []string) []string {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
