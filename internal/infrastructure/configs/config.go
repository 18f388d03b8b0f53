package configs

import (
	"fmt"
	"runtime"
	"time"

	"github.com/computebench/backend/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP        HTTPConfig        `koanf:"http"`
	TLS         TLSConfig         `koanf:"tls"`
	Workers     WorkersConfig     `koanf:"workers"`
	RateLimiter RateLimiterConfig `koanf:"rateLimiter"`
	Tracing     TracingConfig     `koanf:"tracing"`
}

type HTTPConfig struct {
	Host string `koanf:"host"`
	Port uint16 `koanf:"port"`
}

type TLSConfig struct {
	CertPath string `koanf:"cert_path"`
	KeyPath  string `koanf:"key_path"`
}

type WorkersConfig struct {
	PoolSize  int `koanf:"pool_size"`
	QueueSize int `koanf:"queue_size"`
}

type RateLimiterConfig struct {
	Enabled              bool          `koanf:"enabled"`
	RequestsPerTimeFrame int           `koanf:"requestsPerTimeFrame"`
	TimeFrame            time.Duration `koanf:"timeFrame"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"` // "otlp" or "jaeger"
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
	Environment string `koanf:"environment"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 3000)

	// TLS defaults
	setDefault(k, "tls.cert_path", "/certs/server.crt")
	setDefault(k, "tls.key_path", "/certs/server.key")

	// Worker pool defaults
	setDefault(k, "workers.pool_size", runtime.NumCPU())
	setDefault(k, "workers.queue_size", 64)

	// Rate limiter defaults (disabled: the public contract has no 429s)
	setDefault(k, "rateLimiter.enabled", false)
	setDefault(k, "rateLimiter.requestsPerTimeFrame", 100)
	setDefault(k, "rateLimiter.timeFrame", 5*time.Second)

	// Tracing defaults
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.exporter", "otlp")
	setDefault(k, "tracing.endpoint", "http://localhost:4318")
	setDefault(k, "tracing.service_name", "compute-backend")
	setDefault(k, "tracing.environment", "development")
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}

	// TLS material paths from env
	if certPath := env.GetString("TLS_CERT_PATH", ""); certPath != "" {
		k.Set("tls.cert_path", certPath)
	}
	if keyPath := env.GetString("TLS_KEY_PATH", ""); keyPath != "" {
		k.Set("tls.key_path", keyPath)
	}

	// Worker pool config from env
	if poolSize := env.GetInt("WORKER_POOL_SIZE", 0); poolSize > 0 {
		k.Set("workers.pool_size", poolSize)
	}
	if queueSize := env.GetInt("WORKER_QUEUE_SIZE", 0); queueSize > 0 {
		k.Set("workers.queue_size", queueSize)
	}

	// Rate limiter config from env
	if env.GetBool("RATE_LIMIT_ENABLED", false) {
		k.Set("rateLimiter.enabled", true)
	}
	if requests := env.GetInt("RATE_LIMIT_REQUESTS_PER_TIME_FRAME", 0); requests > 0 {
		k.Set("rateLimiter.requestsPerTimeFrame", requests)
	}
	if timeFrame := env.GetInt("RATE_LIMIT_TIME_FRAME_SECONDS", 0); timeFrame > 0 {
		k.Set("rateLimiter.timeFrame", time.Duration(timeFrame)*time.Second)
	}

	// Tracing config from env
	if env.GetBool("TRACING_ENABLED", false) {
		k.Set("tracing.enabled", true)
	}
	if exporter := env.GetString("TRACING_EXPORTER", ""); exporter != "" {
		k.Set("tracing.exporter", exporter)
	}
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
	if environment := env.GetString("ENVIRONMENT", ""); environment != "" {
		k.Set("tracing.environment", environment)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
