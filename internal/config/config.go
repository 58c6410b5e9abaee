package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is loaded from an optional YAML file, then overridden by
// environment variables. JWT_SECRET is the only hard requirement.
type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	Auth struct {
		JWTSecret   string `yaml:"jwtSecret"`
		TokenTTLMin int    `yaml:"tokenTTLMin"`
	} `yaml:"auth"`

	Database struct {
		URI     string `yaml:"uri"`
		PoolMin int    `yaml:"poolMin"`
		PoolMax int    `yaml:"poolMax"`
	} `yaml:"database"`

	Cache struct {
		URL    string `yaml:"url"`
		TTLSec int    `yaml:"ttlSec"`
	} `yaml:"cache"`

	Credits struct {
		FreeTier int `yaml:"freeTier"`
	} `yaml:"credits"`

	Fetch struct {
		MaxBytes  int64 `yaml:"maxBytes"`
		TimeoutMS int   `yaml:"timeoutMs"`
	} `yaml:"fetch"`

	// RateLimitOverrides maps "endpoint:tier" to a replacement budget.
	RateLimitOverrides map[string]int `yaml:"rateLimitOverrides"`

	Sentiment struct {
		OpenAIKey string `yaml:"openaiKey"`
		Model     string `yaml:"model"`
	} `yaml:"sentiment"`

	Storage struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"storage"`
}

// Load reads the YAML file at path (a missing file is fine), applies
// env overrides, fills defaults, and validates.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.Auth.JWTSecret, "JWT_SECRET")
	setInt(&c.Auth.TokenTTLMin, "TOKEN_TTL_MIN")
	setStr(&c.Database.URI, "DB_URI")
	setInt(&c.Database.PoolMin, "DB_POOL_MIN")
	setInt(&c.Database.PoolMax, "DB_POOL_MAX")
	setStr(&c.Cache.URL, "CACHE_URL")
	setInt(&c.Cache.TTLSec, "CACHE_TTL_SEC")
	setInt(&c.Credits.FreeTier, "FREE_TIER_CREDITS")
	setInt64(&c.Fetch.MaxBytes, "FETCH_MAX_BYTES")
	setInt(&c.Fetch.TimeoutMS, "FETCH_TIMEOUT_MS")
	setInt(&c.Server.Port, "PORT")
	setStr(&c.Sentiment.OpenAIKey, "OPENAI_API_KEY")
	setStr(&c.Sentiment.Model, "OPENAI_MODEL")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitTrim(v)
	}
	if v := os.Getenv("RATE_LIMIT_OVERRIDES"); v != "" {
		// JSON object, e.g. {"analyze:free": 50}
		overrides := map[string]int{}
		if err := json.Unmarshal([]byte(v), &overrides); err == nil {
			c.RateLimitOverrides = overrides
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.TokenTTLMin == 0 {
		c.Auth.TokenTTLMin = 1440
	}
	if c.Database.PoolMin == 0 {
		c.Database.PoolMin = 5
	}
	if c.Database.PoolMax == 0 {
		c.Database.PoolMax = 50
	}
	if c.Credits.FreeTier == 0 {
		c.Credits.FreeTier = 100
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = 10485760
	}
	if c.Fetch.TimeoutMS == 0 {
		c.Fetch.TimeoutMS = 15000
	}
	if c.Cache.TTLSec == 0 {
		c.Cache.TTLSec = 86400
	}
}

// TokenTTL returns the bearer token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMin) * time.Minute
}

// FetchTimeout returns the total fetch budget.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutMS) * time.Millisecond
}

// CacheTTL returns the analysis snapshot lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
