package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Store drivers understood by repositories.Open.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const defaultMongoDatabase = "productsdb"

// Config is the runtime configuration of the products service.
type Config struct {
	Port             string
	Environment      string
	LogLevel         string
	CORSAllowOrigins string
	UIEnabled        bool
	ShutdownTimeout  time.Duration
	Store            StoreConfig
	RabbitMQ         RabbitMQConfig
	Telemetry        TelemetryConfig
}

// StoreConfig selects and addresses the backing store.
type StoreConfig struct {
	Driver          string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	DSN             string
	ConnectTimeout  time.Duration
}

// RabbitMQConfig controls product change events. An empty URL disables them.
type RabbitMQConfig struct {
	URL        string
	Exchange   string
	AuditQueue string
}

// TelemetryConfig controls tracing. An empty endpoint keeps spans in-process.
type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

// Enabled reports whether events should be published.
func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "4000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("UI_ENABLED", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/productsdb")
	v.SetDefault("MONGO_DATABASE", "")
	v.SetDefault("MONGO_COLLECTION", "products")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=products port=5432 sslmode=disable")
	v.SetDefault("STORE_CONNECT_TIMEOUT", "10s")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "products")
	v.SetDefault("RABBITMQ_AUDIT_QUEUE", "")

	v.SetDefault("OTEL_SERVICE_NAME", "productsvc")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// Load reads configuration from the environment, and from CONFIG_FILE when set.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{
		Port:             v.GetString("PORT"),
		Environment:      v.GetString("ENVIRONMENT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		UIEnabled:        v.GetBool("UI_ENABLED"),
		ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
		Store: StoreConfig{
			Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:        v.GetString("MONGO_URI"),
			MongoDatabase:   v.GetString("MONGO_DATABASE"),
			MongoCollection: v.GetString("MONGO_COLLECTION"),
			DSN:             v.GetString("DATABASE_DSN"),
			ConnectTimeout:  v.GetDuration("STORE_CONNECT_TIMEOUT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:        v.GetString("RABBITMQ_URL"),
			Exchange:   v.GetString("RABBITMQ_EXCHANGE"),
			AuditQueue: v.GetString("RABBITMQ_AUDIT_QUEUE"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}

	switch cfg.Store.Driver {
	case DriverMongo:
		if cfg.Store.MongoDatabase == "" {
			db, err := databaseFromURI(cfg.Store.MongoURI)
			if err != nil {
				return nil, err
			}
			cfg.Store.MongoDatabase = db
		}
	case DriverPostgres, DriverSQLite:
		if cfg.Store.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for store driver %q", cfg.Store.Driver)
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	if cfg.Store.ConnectTimeout <= 0 {
		cfg.Store.ConnectTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg, nil
}

func databaseFromURI(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid MONGO_URI: %w", err)
	}
	if cs.Database == "" {
		return defaultMongoDatabase, nil
	}
	return cs.Database, nil
}
