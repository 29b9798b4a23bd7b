package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Geocoder backends.
const (
	GeocoderGoogle = "google"
	GeocoderStatic = "static"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Store    StoreConfig
	Redis    RedisConfig
	Geocoder GeocoderConfig
	Uploads  UploadConfig
	NATS     NATSConfig
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"JWT_TTL,          default=1h"`
	BcryptCost     int           `env:"BCRYPT_COST,      default=12"`
	LoginRateLimit int           `env:"LOGIN_RATE_LIMIT, default=10"`
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=mongo"`
	MongoURI    string `env:"MONGO_URI,    default=mongodb://localhost:27017/?replicaSet=rs0"`
	MongoDB     string `env:"MONGO_DB,     default=places"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SQLitePath  string `env:"SQLITE_PATH,  default=places.db"`
}

// RedisConfig configures the geocode cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type GeocoderConfig struct {
	Backend  string        `env:"GEOCODER,          default=google"`
	APIKey   string        `env:"GOOGLE_API_KEY"`
	CacheTTL time.Duration `env:"GEOCODE_CACHE_TTL, default=24h"`
}

type UploadConfig struct {
	Dir            string `env:"UPLOAD_DIR,       default=uploads/images"`
	MaxBytes       int64  `env:"UPLOAD_MAX_BYTES, default=500000"`
	CleanupWorkers int    `env:"CLEANUP_WORKERS,  default=4"`
}

// NATSConfig configures event publishing. An empty URL disables it.
type NATSConfig struct {
	URL string `env:"NATS_URL"`
}

// Load reads a .env file when present, then the environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Development reports whether the service runs in the development environment.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	switch c.Store.Driver {
	case StoreMongo, StoreSQLite:
	case StorePostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("config: POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Geocoder.Backend {
	case GeocoderStatic:
	case GeocoderGoogle:
		if c.Geocoder.APIKey == "" {
			return fmt.Errorf("config: GOOGLE_API_KEY is required for the google geocoder")
		}
	default:
		return fmt.Errorf("config: unknown GEOCODER %q", c.Geocoder.Backend)
	}
	return nil
}
