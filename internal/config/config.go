package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string
	// PostgresDriver is the database/sql driver name: "postgres" (lib/pq) or "pgx".
	PostgresDriver string

	StorageDriver   string
	HTTPPort        string
	OperatorWorkers int
	KafkaBrokers    []string
	KafkaTopic      string
	LogLevel        string
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]interface{}{
	"postgres.address":  "localhost",
	"postgres.port":     "5433",
	"postgres.db":       "postgres",
	"postgres.username": "postgres",
	"postgres.password": "testpassword",
	"postgres.driver":   "postgres",
	"storage.driver":    StorageDriverPostgres,
	"http.port":         "9446",
	"operator.workers":  1,
	"kafka.brokers":     "",
	"kafka.topic":       "credit-ledger",
	"log.level":         "info",
}

// ProcessEnvironmentVariables builds the configuration from, in increasing
// priority: built-in defaults, the YAML file named by CONFIG_FILE, and the
// environment (including a local .env file).
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// POSTGRES_ADDRESS -> postgres.address; unknown variables are skipped
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.Replace(strings.ToLower(s), "_", ".", 1)
		if _, known := defaults[key]; !known {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{
		PostgresAddress:  k.String("postgres.address"),
		PostgresPort:     k.String("postgres.port"),
		PostgresDB:       k.String("postgres.db"),
		PostgresUsername: k.String("postgres.username"),
		PostgresPassword: k.String("postgres.password"),
		PostgresDriver:   k.String("postgres.driver"),
		StorageDriver:    k.String("storage.driver"),
		HTTPPort:         k.String("http.port"),
		OperatorWorkers:  k.Int("operator.workers"),
		KafkaBrokers:     splitList(k.String("kafka.brokers")),
		KafkaTopic:       k.String("kafka.topic"),
		LogLevel:         k.String("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.PostgresDriver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("unknown POSTGRES_DRIVER %q", c.PostgresDriver)
	}
	if c.OperatorWorkers < 1 {
		c.OperatorWorkers = 1
	}
	return nil
}

// PostgresDSN is the connection URL for the configured database.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
