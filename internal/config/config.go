// Package config loads process configuration from flags and CRAWLER_* environment
// variables and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CRAWLER_REDIS_ADDR.
const EnvPrefix = "CRAWLER"

// Backends for the shared collections.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Configuration keys. Flags use the same names.
const (
	KeySeed         = "seed"
	KeyMaxDepth     = "max-depth"
	KeyFetchers     = "fetchers"
	KeyExtractors   = "extractors"
	KeyQueueTimeout = "queue-timeout"
	KeyIdleBackoff  = "idle-backoff"
	KeyBackend      = "backend"
	KeyReset        = "reset"
	KeyUserAgent    = "user-agent"
	KeyHTTPTimeout  = "http-timeout"
	KeyMaxBodyBytes = "max-body-bytes"
	KeyMetricsAddr  = "metrics-addr"
	KeyRunID        = "run-id"

	KeyRedisAddr     = "redis-addr"
	KeyRedisPassword = "redis-password"
	KeyRedisDB       = "redis-db"
	KeyRedisPrefix   = "redis-prefix"
	KeyStatusTTL     = "status-ttl"

	KeyKafkaBroker = "kafka-broker"
	KeyEdgesTopic  = "kafka-edges-topic"

	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyLogFile   = "log-file"
)

// Config is the immutable configuration of one crawler process.
type Config struct {
	Seed         string
	MaxDepth     int
	Fetchers     int
	Extractors   int
	QueueTimeout time.Duration
	IdleBackoff  time.Duration
	Backend      string
	Reset        bool
	UserAgent    string
	HTTPTimeout  time.Duration
	MaxBodyBytes int64
	MetricsAddr  string
	RunID        string

	Redis RedisConfig
	Kafka KafkaConfig
	Log   LogConfig
}

// RedisConfig locates the shared collections in Redis.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	Prefix    string
	StatusTTL time.Duration
}

// KafkaConfig locates the link-edge topic. An empty topic disables edge events.
type KafkaConfig struct {
	Broker     string
	EdgesTopic string
}

// LogConfig selects the log level, output format and optional rotated file.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// RegisterCrawlFlags defines every flag the crawler process reads.
func RegisterCrawlFlags(fs *pflag.FlagSet) {
	fs.String(KeySeed, "", "seed URL the crawl starts from")
	fs.Int(KeyMaxDepth, 2, "maximum link depth to expand")
	fs.Int(KeyFetchers, 4, "number of fetcher workers")
	fs.Int(KeyExtractors, 2, "number of extractor workers")
	fs.Duration(KeyQueueTimeout, time.Second, "how long a worker waits on an empty queue")
	fs.Duration(KeyIdleBackoff, 100*time.Millisecond, "pause after an empty poll or storage error")
	fs.String(KeyBackend, BackendRedis, "shared collection backend (redis|memory)")
	fs.Bool(KeyReset, true, "clear the shared collections before seeding")
	fs.String(KeyUserAgent, "DepthCrawler/1.0 (+https://github.com/depth-crawler)", "User-Agent for pages and robots.txt")
	fs.Duration(KeyHTTPTimeout, 30*time.Second, "total timeout for one page request")
	fs.Int64(KeyMaxBodyBytes, 5<<20, "maximum page body size read")
	fs.String(KeyMetricsAddr, ":9090", "metrics listen address (empty disables)")
	fs.String(KeyRunID, "", "crawl run id (generated when empty)")
	RegisterRedisFlags(fs)
	RegisterKafkaFlags(fs)
	RegisterLogFlags(fs)
}

// RegisterRedisFlags defines the Redis connection flags.
func RegisterRedisFlags(fs *pflag.FlagSet) {
	fs.String(KeyRedisAddr, "localhost:6379", "Redis address")
	fs.String(KeyRedisPassword, "", "Redis password")
	fs.Int(KeyRedisDB, 0, "Redis database")
	fs.String(KeyRedisPrefix, "crawler:", "prefix for every Redis key")
	fs.Duration(KeyStatusTTL, 24*time.Hour, "how long run status records are kept")
}

// RegisterKafkaFlags defines the Kafka flags.
func RegisterKafkaFlags(fs *pflag.FlagSet) {
	fs.String(KeyKafkaBroker, "localhost:9092", "Kafka broker address")
	fs.String(KeyEdgesTopic, "", "topic for link-edge events (empty disables)")
}

// RegisterLogFlags defines the logging flags.
func RegisterLogFlags(fs *pflag.FlagSet) {
	fs.String(KeyLogLevel, "info", "log level (trace|debug|info|warn|error)")
	fs.String(KeyLogFormat, "console", "log format (console|json)")
	fs.String(KeyLogFile, "", "also write logs to this rotated file")
}

// NewViper binds fs and CRAWLER_* environment variables. Environment values
// override defaults; explicitly set flags override both.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

// Load reads and validates the crawler configuration.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Seed:         strings.TrimSpace(v.GetString(KeySeed)),
		MaxDepth:     v.GetInt(KeyMaxDepth),
		Fetchers:     v.GetInt(KeyFetchers),
		Extractors:   v.GetInt(KeyExtractors),
		QueueTimeout: v.GetDuration(KeyQueueTimeout),
		IdleBackoff:  v.GetDuration(KeyIdleBackoff),
		Backend:      strings.ToLower(v.GetString(KeyBackend)),
		Reset:        v.GetBool(KeyReset),
		UserAgent:    v.GetString(KeyUserAgent),
		HTTPTimeout:  v.GetDuration(KeyHTTPTimeout),
		MaxBodyBytes: v.GetInt64(KeyMaxBodyBytes),
		MetricsAddr:  v.GetString(KeyMetricsAddr),
		RunID:        v.GetString(KeyRunID),
		Redis:        LoadRedis(v),
		Kafka:        LoadKafka(v),
		Log:          LoadLog(v),
	}
	return cfg, cfg.Validate()
}

// LoadRedis reads the Redis settings.
func LoadRedis(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Addr:      v.GetString(KeyRedisAddr),
		Password:  v.GetString(KeyRedisPassword),
		DB:        v.GetInt(KeyRedisDB),
		Prefix:    v.GetString(KeyRedisPrefix),
		StatusTTL: v.GetDuration(KeyStatusTTL),
	}
}

// LoadKafka reads the Kafka settings.
func LoadKafka(v *viper.Viper) KafkaConfig {
	return KafkaConfig{
		Broker:     v.GetString(KeyKafkaBroker),
		EdgesTopic: v.GetString(KeyEdgesTopic),
	}
}

// LoadLog reads the logging settings.
func LoadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  v.GetString(KeyLogLevel),
		Format: v.GetString(KeyLogFormat),
		File:   v.GetString(KeyLogFile),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Seed == "" {
		errs = append(errs, errors.New("seed is required"))
	} else if u, err := url.Parse(c.Seed); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("seed %q is not an absolute http(s) URL", c.Seed))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max-depth must be >= 0, got %d", c.MaxDepth))
	}
	if c.Fetchers < 1 {
		errs = append(errs, fmt.Errorf("fetchers must be >= 1, got %d", c.Fetchers))
	}
	if c.Extractors < 1 {
		errs = append(errs, fmt.Errorf("extractors must be >= 1, got %d", c.Extractors))
	}
	if c.QueueTimeout <= 0 {
		errs = append(errs, fmt.Errorf("queue-timeout must be positive, got %s", c.QueueTimeout))
	}
	if c.IdleBackoff < 0 {
		errs = append(errs, fmt.Errorf("idle-backoff must not be negative, got %s", c.IdleBackoff))
	}
	if c.Backend != BackendRedis && c.Backend != BackendMemory {
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http-timeout must be positive, got %s", c.HTTPTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max-body-bytes must be positive, got %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}
