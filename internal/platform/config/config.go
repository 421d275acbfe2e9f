package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Poll     PollConfig
	Log      LogConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	RequestTimeout time.Duration
}

// DatabaseConfig selects and tunes the PostgreSQL store. An empty URL selects
// the in-memory store.
type DatabaseConfig struct {
	URL            string
	ConnectTimeout time.Duration
	MaxOpenConns   int
}

// RedisConfig enables the results relay when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PollConfig tunes the background and fanout machinery.
type PollConfig struct {
	SweepInterval    time.Duration
	SubscriberBuffer int
	RelayBuffer      int
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	return Load(os.Getenv)
}

// Load builds a Config from getenv. Invalid numbers and durations are errors.
func Load(getenv func(string) string) (Config, error) {
	p := parser{getenv: getenv}

	port := p.str("PORT", "3000")
	cfg := Config{
		Server: Server{
			Addr:           ":" + strings.TrimPrefix(port, ":"),
			RequestTimeout: p.duration("REQUEST_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:            p.str("DATABASE_URL", ""),
			ConnectTimeout: p.duration("DATABASE_CONNECT_TIMEOUT", 5*time.Second),
			MaxOpenConns:   p.integer("DATABASE_MAX_OPEN_CONNS", 10),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 0),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Poll: PollConfig{
			SweepInterval:    p.duration("SWEEP_INTERVAL", 60*time.Second),
			SubscriberBuffer: p.integer("SUBSCRIBER_BUFFER", 16),
			RelayBuffer:      p.integer("RELAY_BUFFER", 256),
		},
		Log: LogConfig{
			Level:  strings.ToLower(p.str("LOG_LEVEL", "info")),
			Format: strings.ToLower(p.str("LOG_FORMAT", "json")),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	getenv func(string) string
	err    error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err == nil && d <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err == nil && n < 0 {
		err = fmt.Errorf("must not be negative")
	}
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config %s=%q: %w", key, value, err)
	}
}
