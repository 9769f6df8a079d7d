// Package config builds the process-wide settings of the kanban board API.
// Values are layered: defaults, an optional TOML file, a .env file and finally
// the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds runtime settings. It is built once in main and handed to the
// components that need it; nothing reads the environment after startup.
type Config struct {
	ServerPort string `toml:"server_port"`

	// StoreDriver is "mongo" or "memory".
	StoreDriver     string   `toml:"store_driver"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDBName     string   `toml:"mongo_db_name"`
	UsersCollection string   `toml:"users_collection"`
	TasksCollection string   `toml:"tasks_collection"`
	ConnectTimeout  Duration `toml:"connect_timeout"`

	JWTSecret  string `toml:"jwt_secret"`
	BcryptCost int    `toml:"bcrypt_cost"`

	CORSOrigin string `toml:"cors_origin"`

	LogFile       string `toml:"log_file"`
	LogLevel      string `toml:"log_level"`
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`
	LogMaxBackups int    `toml:"log_max_backups"`
	LogMaxAgeDays int    `toml:"log_max_age_days"`

	BreakerMaxFailures uint32   `toml:"breaker_max_failures"`
	BreakerTimeout     Duration `toml:"breaker_timeout"`
}

// Duration lets TOML files spell durations as "1h" or "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadDefaults populates Config with development defaults.
// The JWT secret in particular must be overridden in production.
func (c *Config) LoadDefaults() {
	c.ServerPort = "3000"
	c.StoreDriver = StoreMongo
	c.MongoURI = "mongodb://localhost:27017"
	c.MongoDBName = "kanban-board"
	c.UsersCollection = "users"
	c.TasksCollection = "tasks"
	c.ConnectTimeout = Duration{10 * time.Second}
	c.JWTSecret = "secret-key"
	c.BcryptCost = 10
	c.CORSOrigin = "*"
	c.LogFile = "logs/kanban-board.log"
	c.LogLevel = "info"
	c.LogMaxSizeMB = 10
	c.LogMaxBackups = 3
	c.LogMaxAgeDays = 28
	c.BreakerMaxFailures = 3
	c.BreakerTimeout = Duration{5 * time.Second}
}

// Load applies defaults, then the TOML file at path (skipped when path is
// empty), then envFile (skipped when missing) and finally the environment.
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt secret must not be empty")
	}
	if c.ServerPort == "" {
		return errors.New("server port must not be empty")
	}
	if c.StoreDriver != StoreMongo && c.StoreDriver != StoreMemory {
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func (c *Config) applyEnv() error {
	setString(&c.ServerPort, "PORT")
	setString(&c.StoreDriver, "STORE_DRIVER")
	setString(&c.MongoURI, "MONGO_URI")
	setString(&c.MongoDBName, "MONGO_DB_NAME")
	setString(&c.UsersCollection, "MONGO_USERS_COLLECTION")
	setString(&c.TasksCollection, "MONGO_TASKS_COLLECTION")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.CORSOrigin, "CORS_ORIGIN")
	setString(&c.LogFile, "LOG_FILE")
	setString(&c.LogLevel, "LOG_LEVEL")

	if err := setDuration(&c.ConnectTimeout, "MONGO_CONNECT_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.BreakerTimeout, "STORE_BREAKER_TIMEOUT"); err != nil {
		return err
	}
	if err := setInt(&c.BcryptCost, "BCRYPT_COST"); err != nil {
		return err
	}

	if v := os.Getenv("STORE_BREAKER_MAX_FAILURES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("STORE_BREAKER_MAX_FAILURES: %w", err)
		}
		c.BreakerMaxFailures = uint32(n)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	dst.Duration = d
	return nil
}
