// Package config loads service configuration from an optional TOML file,
// a .env file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string          `toml:"port"`
	WebOrigin    string          `toml:"web_origin"`
	JWTSecret    string          `toml:"jwt_secret"`
	TokenTTLHrs  int             `toml:"token_ttl_hours"`
	Store        StoreConfig     `toml:"store"`
	Redis        RedisConfig     `toml:"redis"`
	Notify       NotifyConfig    `toml:"notify"`
	Bootstrap    BootstrapConfig `toml:"bootstrap"`
}

// StoreConfig selects the collection store backend. Tagged union: Type
// decides which of the other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "file" (default), "memory", "postgres", or "mongo"

	// file
	DataDir string `toml:"data_dir,omitempty"`

	// postgres
	PostgresDSN string `toml:"postgres_dsn,omitempty"`

	// mongo
	MongoURI      string `toml:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database,omitempty"`
}

// RedisConfig configures the session store. An empty Addr disables
// server-side sessions: tokens then live purely as JWTs and cannot be
// revoked before expiry.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// NotifyConfig selects the push fan-out sink. Tagged union like StoreConfig.
type NotifyConfig struct {
	Type string `toml:"type"` // "log" (default) or "kafka"

	// kafka
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// BootstrapConfig seeds the first super admin when the user collection is
// empty.
type BootstrapConfig struct {
	Name     string `toml:"name"`
	Contact  string `toml:"contact"`
	Password string `toml:"password"`
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHrs) * time.Hour
}

// Load reads path (TOML, optional) on top of defaults, then applies
// environment overrides. A .env file in the working directory is folded
// into the environment first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        "3000",
		WebOrigin:   "*",
		JWTSecret:   "equiptrack-dev-secret",
		TokenTTLHrs: 168, // 7d
		Store:       StoreConfig{Type: "file", DataDir: "data"},
		Notify:      NotifyConfig{Type: "log", Topic: "equiptrack.push"},
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg.Port = get("PORT", cfg.Port)
	cfg.WebOrigin = get("WEB_ORIGIN", cfg.WebOrigin)
	cfg.JWTSecret = get("JWT_SECRET", cfg.JWTSecret)
	cfg.Store.Type = get("STORE_TYPE", cfg.Store.Type)
	cfg.Store.DataDir = get("DATA_DIR", cfg.Store.DataDir)
	cfg.Store.PostgresDSN = get("DATABASE_URL", cfg.Store.PostgresDSN)
	cfg.Store.MongoURI = get("MONGODB_URI", cfg.Store.MongoURI)
	cfg.Store.MongoDatabase = get("MONGODB_DATABASE", cfg.Store.MongoDatabase)
	cfg.Redis.Addr = get("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = get("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Notify.Type = get("NOTIFY_TYPE", cfg.Notify.Type)
	cfg.Notify.Topic = get("NOTIFY_TOPIC", cfg.Notify.Topic)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Notify.Brokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Notify.Brokers = append(cfg.Notify.Brokers, b)
			}
		}
	}
	cfg.Bootstrap.Name = get("BOOTSTRAP_NAME", cfg.Bootstrap.Name)
	cfg.Bootstrap.Contact = get("BOOTSTRAP_CONTACT", cfg.Bootstrap.Contact)
	cfg.Bootstrap.Password = get("BOOTSTRAP_PASSWORD", cfg.Bootstrap.Password)

	return cfg, nil
}
