package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	SessionCookie   string

	MaxUploadMB    int
	PromptMaxChars int

	GenerateMinDuration time.Duration
	GenerateJitter      time.Duration
	GenerateStepJitter  time.Duration
	PersistDebounce     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience. Variables
	// already present in the environment win.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is not set; session state will not survive restarts")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:     dbURL,
		SessionCookie:   getEnv("SESSION_COOKIE", "resume_session"),

		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 10),
		PromptMaxChars: getEnvInt("PROMPT_MAX_CHARS", 1000),

		GenerateMinDuration: getEnvMillis("GENERATE_MIN_MS", 9000*time.Millisecond),
		GenerateJitter:      getEnvMillis("GENERATE_JITTER_MS", 600*time.Millisecond),
		GenerateStepJitter:  getEnvMillis("GENERATE_STEP_JITTER_MS", 300*time.Millisecond),
		PersistDebounce:     getEnvMillis("PERSIST_DEBOUNCE_MS", 250*time.Millisecond),
	}
}

// MaxUploadBytes returns the upload cap in bytes.
func (c Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvMillis(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config: %s invalid millis %q, using %s", key, raw, def)
		return def
	}
	return time.Duration(val) * time.Millisecond
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
