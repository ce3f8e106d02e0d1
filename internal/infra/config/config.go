package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string
	BaseURL  string
	SiteName string

	Store       string
	PostgresDSN string
	PostgresMax int
	MongoURI    string
	MongoDB     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PageCacheTTL  time.Duration

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaGroupID       string
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Region         string
	S3Bucket         string
	S3UseSSL         bool
	S3PresignTTL     time.Duration

	TuningFile      string
	FixturesFile    string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// LoadDotEnv reads KEY=VALUE files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		BaseURL:          strings.TrimRight(getEnv("BASE_URL", "https://poolvillafinder.com"), "/"),
		SiteName:         getEnv("SITE_NAME", "PoolVillaFinder"),
		Store:            strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		PostgresDSN:      os.Getenv("DATABASE_URL"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "villafinder"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "villafinder-views"),
		S3Endpoint:       os.Getenv("S3_ENDPOINT"),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Bucket:         getEnv("S3_BUCKET", "villa-images"),
		TuningFile:       os.Getenv("TUNING_FILE"),
		FixturesFile:     getEnv("FIXTURES_FILE", "data/fixtures.json"),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "*"))

	var err error
	if cfg.PostgresMax, err = parseIntEnv("DATABASE_MAX_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.PageCacheTTL, err = parseDurationEnv("PAGE_CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.S3PresignTTL, err = parseDurationEnv("S3_PRESIGN_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}

	retryStr := getEnv("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}

	switch cfg.Store {
	case StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required for STORE_DRIVER=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required when KAFKA_BROKERS is set (outbox store)")
	}
	return cfg, nil
}

// KafkaEnabled reports whether view events go through the broker.
func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
