package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr        string        `env:"LEDGER_HTTP_ADDR" envDefault:":8080"`
	Store           string        `env:"LEDGER_STORE" envDefault:"file"`
	DataFile        string        `env:"LEDGER_DATA_FILE" envDefault:"accounts_data.json"`
	DatabaseDSN     string        `env:"DATABASE_DSN" envDefault:"Host=localhost;Port=5432;Database=ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"`
	MigrationsDir   string        `env:"LEDGER_MIGRATIONS_DIR" envDefault:"src/migrations"`
	ChannelID       string        `env:"CHANNEL_ID" envDefault:"LedgerApp"`
	ChannelKey      string        `env:"CHANNEL_KEY" envDefault:"LedgerKey001"`
	ChannelKeyHash  string        `env:"CHANNEL_KEY_HASH"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"30"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"60"`
	ShutdownTimeout time.Duration `env:"LEDGER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case StoreFile, StorePostgres, StoreMemory:
	default:
		return Config{}, fmt.Errorf("LEDGER_STORE must be one of %s, %s, %s", StoreFile, StorePostgres, StoreMemory)
	}

	cfg.DataFile = strings.TrimSpace(cfg.DataFile)
	if cfg.Store == StoreFile && cfg.DataFile == "" {
		return Config{}, fmt.Errorf("LEDGER_DATA_FILE is required for the file store")
	}

	cfg.ChannelID = strings.TrimSpace(cfg.ChannelID)
	cfg.ChannelKey = strings.TrimSpace(cfg.ChannelKey)
	cfg.ChannelKeyHash = strings.TrimSpace(cfg.ChannelKeyHash)
	cfg.DatabaseDSN = normalizeConnectionString(strings.TrimSpace(cfg.DatabaseDSN))

	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return Config{}, fmt.Errorf("rate limit settings cannot be negative")
	}

	return cfg, nil
}

// normalizeConnectionString converts an ADO-style "Key=Value;..." string
// into a libpq keyword/value DSN. Strings already in libpq or URL form
// pass through.
func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host", "server":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username", "user id":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
