package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"showcase/carousel"
)

// Config is the service configuration. Values come from an optional YAML file and are
// then overridden by environment variables.
type Config struct {
	APIPort         string          `yaml:"api_port"`
	LogLevel        string          `yaml:"log_level"`
	MaxCommandBytes int64           `yaml:"max_command_bytes"`
	Store           StoreConfig     `yaml:"store"`
	Kafka           KafkaConfig     `yaml:"kafka"`
	Carousel        carousel.Config `yaml:"carousel"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver"` // memory, sqlite, mongo
	SQLitePath    string `yaml:"sqlite_path"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type KafkaConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Broker       string `yaml:"broker"`
	EventsTopic  string `yaml:"events_topic"`
	CatalogTopic string `yaml:"catalog_topic"`
	GroupID      string `yaml:"group_id"`
}

type ErrInvalid struct{ Field, Reason string }

func (e ErrInvalid) Error() string { return "config: invalid " + e.Field + ": " + e.Reason }

func Default() Config {
	return Config{
		APIPort:         "8080",
		LogLevel:        "info",
		MaxCommandBytes: 512,
		Store: StoreConfig{
			Driver:        "memory",
			SQLitePath:    "./showcase.db",
			MongoURI:      "mongodb://mongodb:27017",
			MongoDatabase: "showcase",
		},
		Kafka: KafkaConfig{
			Broker:       "kafka:9092",
			EventsTopic:  "showcase-events",
			CatalogTopic: "showcase-catalog",
			GroupID:      "showcase",
		},
		Carousel: carousel.DefaultConfig(),
	}
}

// Load reads path (skipped when empty) over the defaults and applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() error {
	c.APIPort = GetEnv("API_PORT", c.APIPort)
	c.LogLevel = GetEnv("LOG_LEVEL", c.LogLevel)
	c.Store.Driver = GetEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.SQLitePath = GetEnv("SQLITE_PATH", c.Store.SQLitePath)
	c.Store.MongoURI = GetEnv("MONGO_URI", c.Store.MongoURI)
	c.Store.MongoDatabase = GetEnv("MONGO_DATABASE", c.Store.MongoDatabase)
	c.Kafka.Broker = GetEnv("KAFKA_BROKER", c.Kafka.Broker)
	c.Kafka.EventsTopic = GetEnv("KAFKA_EVENTS_TOPIC", c.Kafka.EventsTopic)
	c.Kafka.CatalogTopic = GetEnv("KAFKA_CATALOG_TOPIC", c.Kafka.CatalogTopic)
	c.Kafka.GroupID = GetEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)

	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ErrInvalid{Field: "KAFKA_ENABLED", Reason: err.Error()}
		}
		c.Kafka.Enabled = b
	}
	if v := os.Getenv("MAX_COMMAND_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return ErrInvalid{Field: "MAX_COMMAND_BYTES", Reason: "must be a positive integer"}
		}
		c.MaxCommandBytes = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CAROUSEL_AUTOPLAY_INTERVAL", &c.Carousel.AutoplayInterval},
		{"CAROUSEL_TRANSITION_DELAY", &c.Carousel.TransitionDelay},
		{"CAROUSEL_SETTLE_DELAY", &c.Carousel.SettleDelay},
		{"CAROUSEL_RESUME_COOLDOWN", &c.Carousel.ResumeCooldown},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return ErrInvalid{Field: d.key, Reason: err.Error()}
		}
		*d.dst = parsed
	}
	if v := os.Getenv("CAROUSEL_AUTOPLAY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ErrInvalid{Field: "CAROUSEL_AUTOPLAY", Reason: err.Error()}
		}
		c.Carousel.Autoplay = b
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "mongo":
	default:
		return ErrInvalid{Field: "store.driver", Reason: "unknown driver " + strconv.Quote(c.Store.Driver)}
	}
	if c.APIPort == "" {
		return ErrInvalid{Field: "api_port", Reason: "empty"}
	}
	if c.Kafka.Enabled && c.Kafka.Broker == "" {
		return ErrInvalid{Field: "kafka.broker", Reason: "required when kafka is enabled"}
	}
	return c.Carousel.Validate()
}

// GetEnv returns the value of the environment variable or a default value
func GetEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
