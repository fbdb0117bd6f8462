// Package config reads the service settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendJSONBin  = "jsonbin"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port           string
	GinMode        string
	EndpointPrefix string
	StaticDir      string

	OrderCooldown    time.Duration
	AutosaveInterval time.Duration
	PersistTimeout   time.Duration
	EventBuffer      int

	StoreBackend string
	DataDir      string
	BackupDir    string

	JSONBinBaseURL     string
	JSONBinItemsBinID  string
	JSONBinOrdersBinID string
	JSONBinMasterKey   string

	RedisURL    string
	DatabaseURL string

	KafkaBrokers []string
	KafkaTopic   string

	ConsulAddr  string
	ServiceName string
	ServiceHost string

	AdminSecret    string
	TrustedProxies []string
}

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function; Load passes os.LookupEnv.
func FromEnv(lookupEnv func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, _ := lookupEnv(key); strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid positive integer %q", key, raw))
			return def
		}
		return n
	}

	cfg := Config{
		Port:           get("PORT", "3000"),
		GinMode:        get("GIN_MODE", ""),
		EndpointPrefix: get("SERVICE_ENDPOINT_PREFIX", "/api"),
		StaticDir:      get("STATIC_DIR", "public"),

		OrderCooldown:    duration("ORDER_COOLDOWN", 8*time.Second),
		AutosaveInterval: duration("AUTOSAVE_INTERVAL", 60*time.Second),
		PersistTimeout:   duration("PERSIST_TIMEOUT", 10*time.Second),
		EventBuffer:      integer("EVENT_BUFFER", 256),

		DataDir:   get("DATA_DIR", "."),
		BackupDir: "backups",

		JSONBinBaseURL:     get("JSONBIN_BASE_URL", "https://api.jsonbin.io/v3/b"),
		JSONBinItemsBinID:  get("JSONBIN_ITEMS_BIN_ID", ""),
		JSONBinOrdersBinID: get("JSONBIN_ORDERS_BIN_ID", ""),
		JSONBinMasterKey:   get("JSONBIN_MASTER_KEY", ""),

		RedisURL:    get("REDIS_URL", ""),
		DatabaseURL: get("DATABASE_URL", ""),

		KafkaBrokers: list(get("KAFKA_BROKERS", "")),
		KafkaTopic:   get("KAFKA_TOPIC", "storefront.events"),

		ConsulAddr:  get("CONSUL_ADDR", ""),
		ServiceName: get("SERVICE_NAME", "storefront"),
		ServiceHost: get("SERVICE_HOST", "localhost"),

		AdminSecret:    get("ADMIN_SECRET", ""),
		TrustedProxies: list(get("TRUSTED_PROXIES", "")),
	}
	// BACKUP_DIR set to an empty value disables backups; unset keeps the default.
	if v, set := lookupEnv("BACKUP_DIR"); set {
		cfg.BackupDir = strings.TrimSpace(v)
	}

	cfg.StoreBackend = strings.ToLower(get("STORE_BACKEND", ""))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = BackendFile
		if cfg.JSONBinItemsBinID != "" || cfg.JSONBinOrdersBinID != "" {
			cfg.StoreBackend = BackendJSONBin
		}
	}
	switch cfg.StoreBackend {
	case BackendFile, BackendJSONBin:
	case BackendRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("STORE_BACKEND=redis requires REDIS_URL"))
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("STORE_BACKEND=postgres requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND: unknown backend %q", cfg.StoreBackend))
	}

	if !strings.HasPrefix(cfg.EndpointPrefix, "/") {
		cfg.EndpointPrefix = "/" + cfg.EndpointPrefix
	}
	cfg.EndpointPrefix = strings.TrimRight(cfg.EndpointPrefix, "/")
	if cfg.EndpointPrefix == "" {
		errs = append(errs, errors.New("SERVICE_ENDPOINT_PREFIX must not be /"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AdminEnabled reports whether the admin routes are gated.
func (c Config) AdminEnabled() bool { return c.AdminSecret != "" }

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }

func list(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
