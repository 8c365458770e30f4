package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported backends.
const (
	DriverBadger  = "badger"
	DriverMongoDB = "mongodb"

	StorageDisk  = "disk"
	StorageMinio = "minio"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  string   `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir string   `env:"STATIC_DIR"`
	HTTP      HTTP     `envPrefix:"HTTP_"`
	Database  Database `envPrefix:"DATABASE_"`
	Storage   Storage  `envPrefix:"STORAGE_"`
	Minio     Minio    `envPrefix:"MINIO_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port            string        `env:"PORT" envDefault:"5000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// Database contains record store parameters.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"badger"`
	URI    string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Name   string `env:"NAME" envDefault:"socialnetwork"`
	Path   string `env:"PATH" envDefault:"data/badger"`
}

// Storage contains image store parameters.
type Storage struct {
	Driver    string `env:"DRIVER" envDefault:"disk"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`
}

// Minio contains object storage parameters.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"socialnet-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"socialnet-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"socialnet-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NewConfig loads configuration from an optional .env file and environment variables.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects unknown backend names.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverBadger, DriverMongoDB:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Storage.Driver {
	case StorageDisk, StorageMinio:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.HTTP.MaxUploadBytes)
	}

	return nil
}

// Address returns the listen address for the HTTP server.
func (h HTTP) Address() string {
	return ":" + h.Port
}
