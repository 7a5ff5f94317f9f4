package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers understood by main.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

const envPrefix = "LENDING"

type Config struct {
	Port     string
	LogLevel string
	Store    StoreConfig
	NATS     NATSConfig
}

type StoreConfig struct {
	Driver string
	Mongo  MongoConfig
	SQLite SQLiteConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type SQLiteConfig struct {
	Path string
}

// NATSConfig is optional; an empty URL disables event publishing.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "lending")
	v.SetDefault("store.mongo.connect_timeout", 10*time.Second)
	v.SetDefault("store.sqlite.path", "lending.db")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "lending.events")
}

// Load reads config.yml from the given directories (configs/ when none are given),
// then applies LENDING_* environment overrides, e.g. LENDING_STORE_DRIVER=sqlite.
// A missing config file is not an error.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		LogLevel: strings.ToLower(v.GetString("log_level")),
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store.driver")),
			Mongo: MongoConfig{
				URI:            v.GetString("store.mongo.uri"),
				Database:       v.GetString("store.mongo.database"),
				ConnectTimeout: v.GetDuration("store.mongo.connect_timeout"),
			},
			SQLite: SQLiteConfig{Path: v.GetString("store.sqlite.path")},
		},
		NATS: NATSConfig{
			URL:           v.GetString("nats.url"),
			SubjectPrefix: v.GetString("nats.subject_prefix"),
		},
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.Mongo.URI == "" || c.Store.Mongo.Database == "" {
			return errors.New("store.mongo.uri and store.mongo.database are required")
		}
	case DriverSQLite:
		if c.Store.SQLite.Path == "" {
			return errors.New("store.sqlite.path is required")
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want %s or %s)", c.Store.Driver, DriverMongo, DriverSQLite)
	}
	return nil
}
